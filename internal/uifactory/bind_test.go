package uifactory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagrammer/internal/action"
	cs "github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/tool"
)

func TestBind_SetsMirrorsAndTexts(t *testing.T) {
	fx := newFixture(t, "save")
	a, _ := fx.actions.Action("save")
	a.SetEnabled(false)

	c := &Control{Key: "save"}
	fx.f.Bind(c, a)

	assert.False(t, c.Enabled)
	assert.True(t, c.Visible)
	assert.False(t, c.Checkable)
	assert.Equal(t, "Save", c.Label)
	assert.Equal(t, "Š", c.Mnemonic, "mnemonic is the first grapheme")
	assert.Equal(t, "ctrl+s", c.Shortcut)
	assert.Equal(t, "Save the document", c.Tooltip)
	assert.Equal(t, "💾", c.Icon)
	assert.True(t, c.Bound())
}

func TestBind_FollowsActionChanges(t *testing.T) {
	fx := newFixture(t)
	a, _ := fx.actions.Action("grid")

	c := &Control{Key: "grid"}
	var notified int
	c.OnChange = func(*Control) { notified++ }
	fx.f.Bind(c, a)
	require.True(t, c.Checkable)
	require.False(t, c.Selected)

	a.SetSelected(true)
	a.SetEnabled(false)
	a.SetVisible(false)
	assert.True(t, c.Selected)
	assert.False(t, c.Enabled)
	assert.False(t, c.Visible)
	assert.Equal(t, 3, notified)
}

func TestBind_RebindDropsOldListener(t *testing.T) {
	fx := newFixture(t, "save", "exit")
	save, _ := fx.actions.Action("save")
	exit, _ := fx.actions.Action("exit")

	c := &Control{}
	fx.f.Bind(c, save)
	fx.f.Bind(c, exit)
	require.Equal(t, 0, save.Listeners())
	require.Equal(t, 1, exit.Listeners())

	save.SetEnabled(false)
	assert.True(t, c.Enabled, "old action no longer drives the control")
}

func TestRelease(t *testing.T) {
	fx := newFixture(t, "save", "alignLeft")
	m, err := fx.f.CreateMenu(cs.NewNode(cs.TagMenu, "m",
		item("save"),
		cs.NewNode(cs.TagGroup, "g", item("alignLeft")),
	))
	require.NoError(t, err)

	save, _ := fx.actions.Action("save")
	left, _ := fx.actions.Action("alignLeft")
	require.Equal(t, 1, save.Listeners())
	require.Equal(t, 1, left.Listeners())

	Release(m)
	assert.Equal(t, 0, save.Listeners())
	assert.Equal(t, 0, left.Listeners())
	for _, c := range Controls(m) {
		assert.False(t, c.Bound())
	}
}

func TestFirstGrapheme(t *testing.T) {
	assert.Equal(t, "", firstGrapheme(""))
	assert.Equal(t, "S", firstGrapheme("Save"))
	assert.Equal(t, "é", firstGrapheme("éx"))
}

func TestCreateToolbox(t *testing.T) {
	fx := newFixture(t)

	box, err := fx.f.CreateToolbox(cs.NewNode(cs.SectionToolbox, "",
		item("pointer"),
		cs.NewNode(cs.TagSeparator, ""),
		item("vertex"),
		item("lasso"),
		item("edge"),
	))
	require.NoError(t, err)

	buttons := box.Buttons()
	require.Len(t, buttons, 3)
	require.Len(t, box.Items, 4)
	assert.Same(t, buttons[0], box.Default)
	assert.True(t, buttons[0].Selected())
	assert.Equal(t, tool.Select, box.Current().Name())
	assert.Equal(t, "Select", buttons[0].Label)
	assert.Equal(t, "Connect cells", buttons[2].Tooltip)

	var seen []string
	box.OnToolChange(func(t tool.Tool) { seen = append(seen, t.Name()) })

	buttons[2].SetSelected(true)
	assert.Equal(t, tool.Edge, box.Current().Name())
	assert.False(t, buttons[0].Selected())
	assert.True(t, buttons[2].Selected())

	buttons[2].SetSelected(false)
	assert.True(t, buttons[2].Selected(), "current button cannot be deselected directly")

	require.True(t, box.SelectTool(tool.Vertex))
	require.False(t, box.SelectTool("lasso"))
	box.ResetToDefault()
	box.ResetToDefault()

	assert.Equal(t, []string{tool.Edge, tool.Vertex, tool.Select}, seen)
}

func TestCreateToolbox_BuilderButton(t *testing.T) {
	fx := newFixture(t)
	fx.f.AddMethod("stamp", func(f *Factory, n *cs.Node) (Element, error) {
		tl, _ := f.ResolveTool("vertex")
		return &ToolButton{Key: n.Key(), Tool: tl}, nil
	})

	box, err := fx.f.CreateToolbox(cs.NewNode(cs.SectionToolbox, "", item("stamp"), item("edge")))
	require.NoError(t, err)
	require.Equal(t, "stamp", box.Default.Key)
	require.Equal(t, tool.Vertex, box.Current().Name())

	box.Buttons()[1].SetSelected(true)
	require.False(t, box.Default.Selected())
}

func TestWalkSkipsDynamicItems(t *testing.T) {
	calls := 0
	dyn := &DynamicMenu{Key: "d", Items: func() []Element { calls++; return nil }}
	var keys []string
	Walk(&MenuBar{Menus: []Element{dyn}}, func(e Element) { keys = append(keys, e.ElementKey()) })
	assert.Equal(t, []string{"", "d"}, keys)
	assert.Zero(t, calls)
	assert.Nil(t, (&DynamicMenu{}).Open())
}

var _ ActionSource = (*action.Registry)(nil)
var _ ToolSource = (*tool.Registry)(nil)
