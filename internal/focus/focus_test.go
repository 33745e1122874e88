package focus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_NestedInsideEditingSurface(t *testing.T) {
	surface := NewNode("canvas", EditingSurface).WithTarget(func() any { return "graph" })
	button := NewNode("button", None)
	NewNode("document", Document).Add(
		NewNode("container", DiagramContainer).Add(
			surface.Add(NewNode("level1", None).Add(NewNode("level2", None).Add(button))),
		),
	)

	snap := Classify(button)

	require.Equal(t, EditingSurface, snap.Kind)
	require.Same(t, surface, snap.Owner)
	require.Same(t, button, snap.Focused)
	require.Equal(t, "graph", snap.Target())
}

func TestClassify_NoContext(t *testing.T) {
	button := NewNode("button", None)
	NewNode("toolbar", None).Add(NewNode("group", None).Add(button))

	snap := Classify(button)

	require.Equal(t, None, snap.Kind)
	require.Nil(t, snap.Owner)
	require.Nil(t, snap.Target())
}

func TestClassify_NearestRoleWins(t *testing.T) {
	list := NewNode("library", ListPanel)
	NewNode("document", Document).Add(list)

	require.Equal(t, ListPanel, Classify(list).Kind)
	require.Equal(t, Document, Classify(list.Parent()).Kind)
}

func TestClassify_Nil(t *testing.T) {
	require.Equal(t, None, Classify(nil).Kind)
}

func TestTargetAs(t *testing.T) {
	surface := NewNode("canvas", EditingSurface).WithTarget(func() any { return 42 })
	snap := Classify(surface)

	n, ok := TargetAs[int](snap)
	require.True(t, ok)
	require.Equal(t, 42, n)

	_, ok = TargetAs[string](snap)
	require.False(t, ok)
}

func TestSnapshot_Is(t *testing.T) {
	snap := Snapshot{Kind: DiagramContainer}
	require.True(t, snap.Is(EditingSurface, DiagramContainer))
	require.False(t, snap.Is(ListPanel))
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "editing surface", EditingSurface.String())
	require.Equal(t, "kind(42)", Kind(42).String())
}

func TestNode_Leaves(t *testing.T) {
	a, b, c := NewNode("a", None), NewNode("b", None), NewNode("c", None)
	root := NewNode("root", None).Add(NewNode("left", None).Add(a, b), c)

	require.Equal(t, []*Node{a, b, c}, root.Leaves())
}

func TestTracker_NotifiesOnChange(t *testing.T) {
	surface := NewNode("canvas", EditingSurface)
	list := NewNode("library", ListPanel)
	tr := NewTracker()

	var seen []Kind
	remove := tr.OnChange(func(s Snapshot) { seen = append(seen, s.Kind) })

	tr.Focus(surface)
	tr.Focus(surface)
	tr.Focus(list)
	require.Equal(t, []Kind{EditingSurface, ListPanel}, seen)
	require.Equal(t, ListPanel, tr.Current().Kind)

	tr.Refresh()
	require.Equal(t, []Kind{EditingSurface, ListPanel, ListPanel}, seen)

	remove()
	tr.Focus(surface)
	require.Len(t, seen, 3)
}

func TestTracker_NotifiesInRegistrationOrder(t *testing.T) {
	tr := NewTracker()

	var order []string
	for _, name := range []string{"menus", "toolbar", "status", "palette"} {
		name := name
		remove := tr.OnChange(func(Snapshot) { order = append(order, name) })
		if name == "toolbar" {
			remove()
		}
	}

	tr.Focus(NewNode("canvas", EditingSurface))
	require.Equal(t, []string{"menus", "status", "palette"}, order)

	order = nil
	tr.Refresh()
	require.Equal(t, []string{"menus", "status", "palette"}, order)
}
