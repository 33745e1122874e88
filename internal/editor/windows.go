package editor

import (
	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/uifactory"
)

// BuilderWindows names the builder of the open-documents menu.
const BuilderWindows = "windows"

// buildWindows builds a menu listing the open documents. The desktop is
// looked up in the object registry when the menu opens, so the menu follows
// whatever desktop is published at that time.
func (e *Editor) buildWindows(f *uifactory.Factory, node *configstore.Node) (uifactory.Element, error) {
	key := node.Key()
	res := f.Resources()
	m := &uifactory.DynamicMenu{
		Key:      key,
		Label:    resources.StringOr(res, key+resources.SuffixLabel, key),
		Mnemonic: resources.StringOr(res, key+resources.SuffixMnemonic, ""),
	}
	m.Items = func() []uifactory.Element {
		desktop, ok := configstore.ObjectAs[*Desktop](e.store, ObjectDesktop)
		activate, found := e.registry.Action(ActActivateWindow)
		if !ok || !found {
			return nil
		}
		docs := desktop.Documents()
		if len(docs) == 0 {
			return []uifactory.Element{&uifactory.Control{
				Key:     key + ".empty",
				Action:  activate,
				Label:   resources.StringOr(res, key+".empty", "No open diagrams"),
				Visible: true,
			}}
		}
		items := make([]uifactory.Element, 0, len(docs))
		for _, doc := range docs {
			label := doc.Name
			if doc.Modified {
				label += resources.StringOr(res, "app.status.modified", " *")
			}
			items = append(items, &uifactory.Control{
				Key:      "window." + doc.ID,
				Action:   activate,
				Arg:      doc.ID,
				Label:    label,
				Tooltip:  doc.Path,
				Radio:    true,
				Enabled:  activate.Enabled(),
				Selected: doc == desktop.Active(),
				Visible:  true,
			})
		}
		return items
	}
	return m, nil
}
