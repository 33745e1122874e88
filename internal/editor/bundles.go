package editor

import (
	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/graph"
)

// Core action names.
const (
	ActNew    = "new"
	ActOpen   = "open"
	ActSave   = "save"
	ActSaveAs = "saveAs"
	ActClose  = "close"
	ActExit   = "exit"

	ActUndo      = "undo"
	ActRedo      = "redo"
	ActCut       = "cut"
	ActCopy      = "copy"
	ActPaste     = "paste"
	ActDelete    = "delete"
	ActSelectAll = "selectAll"
	ActFind      = "find"

	ActBold     = "bold"
	ActRounded  = "rounded"
	ActDashed   = "dashed"
	ActFontSize = "fontSize"

	ActZoomIn     = "zoomIn"
	ActZoomOut    = "zoomOut"
	ActZoomActual = "zoomActual"
	ActGrid       = "grid"

	ActAddToLibrary      = "addToLibrary"
	ActRemoveFromLibrary = "removeFromLibrary"
	ActInsertFromLibrary = "insertFromLibrary"

	ActAbout          = "about"
	ActActivateWindow = "activateWindow"
)

// Core bundle names.
const (
	BundleFile    = "file"
	BundleEdit    = "edit"
	BundleFormat  = "format"
	BundleView    = "view"
	BundleLibrary = "library"
	BundleWindows = "windows"
	BundleHelp    = "help"
)

// formatToggles maps toggle actions to the cell attribute they reflect.
var formatToggles = map[string]string{
	ActBold:    graph.AttrBold,
	ActRounded: graph.AttrRounded,
	ActDashed:  graph.AttrDashed,
}

// surfaceDocument returns the document of the focused editing surface.
func surfaceDocument(s focus.Snapshot) *Document {
	if s.Kind != focus.EditingSurface {
		return nil
	}
	doc, _ := focus.TargetAs[*Document](s)
	return doc
}

// viewDocument returns the document of the focused editing surface or
// diagram container.
func viewDocument(s focus.Snapshot) *Document {
	if !s.Is(focus.EditingSurface, focus.DiagramContainer) {
		return nil
	}
	doc, _ := focus.TargetAs[*Document](s)
	return doc
}

// panelLibrary returns the library of the focused list panel.
func panelLibrary(s focus.Snapshot) *Library {
	if s.Kind != focus.ListPanel {
		return nil
	}
	lib, _ := focus.TargetAs[*Library](s)
	return lib
}

func (e *Editor) fileBundle() action.Bundle {
	newA, open, exit := action.New(ActNew), action.New(ActOpen), action.New(ActExit)
	save, saveAs, closeA := action.New(ActSave), action.New(ActSaveAs), action.New(ActClose)
	return action.NewBundle(BundleFile, func() {
		hasDoc := e.desktop.Active() != nil
		save.SetEnabled(hasDoc)
		saveAs.SetEnabled(hasDoc)
		closeA.SetEnabled(hasDoc)
	}, newA, open, save, saveAs, closeA, exit)
}

func (e *Editor) editBundle() action.Bundle {
	undo, redo := action.New(ActUndo), action.New(ActRedo)
	cut, cp, paste, del := action.New(ActCut), action.New(ActCopy), action.New(ActPaste), action.New(ActDelete)
	selectAll, find := action.New(ActSelectAll), action.New(ActFind)
	return action.NewBundle(BundleEdit, func() {
		doc := surfaceDocument(e.focus.Current())
		var canUndo, canRedo, hasSelection, hasCells bool
		if doc != nil {
			canUndo = doc.Model.CanUndo()
			canRedo = doc.Model.CanRedo()
			hasSelection = len(doc.Model.Selection()) > 0
			hasCells = len(doc.Model.Cells()) > 0
		}
		undo.SetEnabled(canUndo)
		redo.SetEnabled(canRedo)
		cut.SetEnabled(hasSelection)
		cp.SetEnabled(hasSelection)
		del.SetEnabled(hasSelection)
		paste.SetEnabled(doc != nil && len(e.clipboard) > 0)
		selectAll.SetEnabled(hasCells)
		find.SetEnabled(hasCells)
	}, undo, redo, cut, cp, paste, del, selectAll, find)
}

func (e *Editor) formatBundle() action.Bundle {
	bold, rounded, dashed := action.NewToggle(ActBold), action.NewToggle(ActRounded), action.NewToggle(ActDashed)
	fontSize := action.New(ActFontSize)
	toggles := []*action.Action{bold, rounded, dashed}
	return action.NewBundle(BundleFormat, func() {
		var selected []graph.Cell
		if doc := surfaceDocument(e.focus.Current()); doc != nil {
			selected = graph.SelectedCells(doc.Model)
		}
		enabled := len(selected) > 0
		for _, a := range toggles {
			a.SetEnabled(enabled)
			a.SetSelected(enabled && allHave(selected, formatToggles[a.Name()]))
		}
		fontSize.SetEnabled(enabled)
	}, bold, rounded, dashed, fontSize)
}

func (e *Editor) viewBundle() action.Bundle {
	zoomIn, zoomOut, zoomActual := action.New(ActZoomIn), action.New(ActZoomOut), action.New(ActZoomActual)
	grid := action.NewToggle(ActGrid)
	return action.NewBundle(BundleView, func() {
		doc := viewDocument(e.focus.Current())
		zoomIn.SetEnabled(doc != nil && doc.Zoom < ZoomMax)
		zoomOut.SetEnabled(doc != nil && doc.Zoom > ZoomMin)
		zoomActual.SetEnabled(doc != nil)
		grid.SetEnabled(doc != nil)
		grid.SetSelected(doc != nil && doc.Grid)
	}, zoomIn, zoomOut, zoomActual, grid)
}

func (e *Editor) libraryBundle() action.Bundle {
	add, remove, insert := action.New(ActAddToLibrary), action.New(ActRemoveFromLibrary), action.New(ActInsertFromLibrary)
	return action.NewBundle(BundleLibrary, func() {
		snap := e.focus.Current()
		doc := surfaceDocument(snap)
		add.SetEnabled(doc != nil && len(doc.Model.Selection()) > 0)

		lib := panelLibrary(snap)
		_, hasEntry := selectedEntry(lib)
		remove.SetEnabled(hasEntry)
		insert.SetEnabled(hasEntry && e.desktop.Active() != nil)
	}, add, remove, insert)
}

func (e *Editor) windowsBundle() action.Bundle {
	activate := action.New(ActActivateWindow)
	return action.NewBundle(BundleWindows, func() {
		activate.SetEnabled(len(e.desktop.Documents()) > 0)
	}, activate)
}

func (e *Editor) helpBundle() action.Bundle {
	return action.NewBundle(BundleHelp, nil, action.New(ActAbout))
}

func selectedEntry(lib *Library) (LibraryEntry, bool) {
	if lib == nil {
		return LibraryEntry{}, false
	}
	return lib.Selected()
}

// allHave reports whether every cell carries attr with the value "true".
func allHave(cells []graph.Cell, attr string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c.Attrs[attr] != "true" {
			return false
		}
	}
	return true
}
