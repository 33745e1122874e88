package editor

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/graph"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/tool"
)

var (
	diagramPath = regexp.MustCompile(`\.ya?ml$`)
	nonBlank    = regexp.MustCompile(`\S`)
)

const (
	pasteOffset     = 2
	defaultFontSize = 12
	minFontSize     = 6
	maxFontSize     = 72
)

// registerCore installs the built-in bundles, handlers, tools and builders.
func (e *Editor) registerCore() {
	for _, b := range []action.Bundle{
		e.fileBundle(),
		e.editBundle(),
		e.formatBundle(),
		e.viewBundle(),
		e.libraryBundle(),
		e.windowsBundle(),
		e.helpBundle(),
	} {
		e.registry.Add(b)
	}

	h := e.handlers
	h.RegisterGlobal(ActNew, e.handleNew)
	h.RegisterGlobal(ActOpen, e.handleOpen)
	h.RegisterGlobal(ActSave, e.handleSave)
	h.RegisterGlobal(ActSaveAs, e.handleSaveAs)
	h.RegisterGlobal(ActClose, e.handleClose)
	h.RegisterGlobal(ActExit, func(*action.Invocation) error { e.RequestQuit(); return nil })
	h.RegisterGlobal(ActAbout, e.handleAbout)
	h.RegisterGlobal(ActActivateWindow, e.handleActivateWindow)

	h.Register(ActUndo, onSurface(func(_ *action.Invocation, doc *Document) error { doc.Model.Undo(); return nil }), focus.EditingSurface)
	h.Register(ActRedo, onSurface(func(_ *action.Invocation, doc *Document) error { doc.Model.Redo(); return nil }), focus.EditingSurface)
	h.Register(ActCopy, onSurface(e.handleCopy), focus.EditingSurface)
	h.Register(ActCut, onSurface(e.handleCut), focus.EditingSurface)
	h.Register(ActPaste, onSurface(e.handlePaste), focus.EditingSurface)
	h.Register(ActDelete, onSurface(func(_ *action.Invocation, doc *Document) error {
		doc.Model.Remove(doc.Model.Selection()...)
		return nil
	}), focus.EditingSurface)
	h.Register(ActSelectAll, onSurface(handleSelectAll), focus.EditingSurface)
	h.Register(ActFind, onSurface(e.handleFind), focus.EditingSurface)

	for name, attr := range formatToggles {
		h.Register(name, onSurface(e.toggleAttribute(name, attr)), focus.EditingSurface)
	}
	h.Register(ActFontSize, onSurface(e.handleFontSize), focus.EditingSurface)

	viewKinds := []focus.Kind{focus.EditingSurface, focus.DiagramContainer}
	h.Register(ActZoomIn, onView(func(doc *Document) { doc.Zoom = min(doc.Zoom+ZoomStep, ZoomMax) }), viewKinds...)
	h.Register(ActZoomOut, onView(func(doc *Document) { doc.Zoom = max(doc.Zoom-ZoomStep, ZoomMin) }), viewKinds...)
	h.Register(ActZoomActual, onView(func(doc *Document) { doc.Zoom = ZoomDefault }), viewKinds...)
	h.Register(ActGrid, onView(func(doc *Document) { doc.Grid = !doc.Grid }), viewKinds...)

	h.Register(ActAddToLibrary, onSurface(e.handleAddToLibrary), focus.EditingSurface)
	h.Register(ActRemoveFromLibrary, e.handleRemoveFromLibrary, focus.ListPanel)
	h.Register(ActInsertFromLibrary, e.handleInsertFromLibrary, focus.ListPanel)

	e.tools.Add(tool.NewSelect())
	e.tools.Add(tool.NewVertex(e.prototype))
	e.tools.Add(tool.NewEdge())

	e.factory.AddMethod(BuilderWindows, e.buildWindows)

	e.store.AddShutdownHook("desktop", e.persistDesktop)
}

func onSurface(fn func(inv *action.Invocation, doc *Document) error) action.Handler {
	return func(inv *action.Invocation) error {
		doc := surfaceDocument(inv.Focus)
		if doc == nil {
			return nil
		}
		return fn(inv, doc)
	}
}

func onView(fn func(doc *Document)) action.Handler {
	return func(inv *action.Invocation) error {
		if doc := viewDocument(inv.Focus); doc != nil {
			fn(doc)
		}
		return nil
	}
}

// prompt builds a prompt request whose texts come from "<key>.label" and
// "<key>.prompt".
func (e *Editor) prompt(key, def string) action.PromptRequest {
	return action.PromptRequest{
		Key:     key,
		Title:   e.res.StringOr(key+resources.SuffixLabel, key),
		Message: e.res.StringOr(key+resources.SuffixPrompt, ""),
		Default: def,
	}
}

func (e *Editor) handleNew(*action.Invocation) error {
	e.desktop.Untitled()
	return nil
}

func (e *Editor) handleOpen(inv *action.Invocation) error {
	path := inv.Arg
	if path == "" {
		answer, err := action.PromptString(inv.Prompter, e.prompt(ActOpen, ""))
		if err != nil {
			return err
		}
		path = strings.TrimSpace(answer)
		if path == "" {
			return &action.InvalidInputError{Prompt: ActOpen, Value: answer, Reason: "path is empty"}
		}
	}
	_, err := e.OpenPath(path)
	return err
}

// OpenPath opens the diagram at path, or activates it when already open.
func (e *Editor) OpenPath(path string) (*Document, error) {
	if doc := e.desktop.FindPath(path); doc != nil {
		e.desktop.Activate(doc.ID)
		return doc, nil
	}
	doc, err := OpenDocument(path)
	if err != nil {
		return nil, err
	}
	e.desktop.Add(doc)
	log.Info(log.CatUI, "Opened diagram", "path", path, "cells", len(doc.Model.Cells()))
	return doc, nil
}

func (e *Editor) handleSave(inv *action.Invocation) error {
	doc := e.desktop.Active()
	if doc == nil {
		return nil
	}
	if doc.Path == "" {
		return e.handleSaveAs(inv)
	}
	return e.save(doc, doc.Path)
}

func (e *Editor) handleSaveAs(inv *action.Invocation) error {
	doc := e.desktop.Active()
	if doc == nil {
		return nil
	}
	def := doc.Path
	if def == "" {
		def = doc.Name + ".yaml"
	}
	path := inv.Arg
	if path == "" {
		answer, err := action.PromptPattern(inv.Prompter, e.prompt(ActSaveAs, def), diagramPath)
		if err != nil {
			return err
		}
		path = answer
	}
	return e.save(doc, path)
}

func (e *Editor) save(doc *Document, path string) error {
	if err := SaveDocument(doc, path); err != nil {
		return err
	}
	doc.Name = documentName(path)
	e.desktop.MarkSaved(doc, path)
	return nil
}

func (e *Editor) handleClose(inv *action.Invocation) error {
	doc := e.desktop.Active()
	if doc == nil {
		return nil
	}
	if doc.Modified {
		req := e.prompt(ActClose, "no")
		req.Message = e.res.StringOr("close.confirm", "Discard unsaved changes?")
		req.Kind = action.PromptConfirm
		if !action.Confirm(inv.Prompter, req) {
			return action.ErrCancelled
		}
	}
	e.desktop.Close(doc.ID)
	return nil
}

func (e *Editor) handleAbout(inv *action.Invocation) error {
	text := e.res.Format("about.text", e.Version())
	inv.Present(e.res.StringOr("about.label", ActAbout), text)
	return nil
}

func (e *Editor) handleActivateWindow(inv *action.Invocation) error {
	if !e.desktop.Activate(inv.Arg) {
		return fmt.Errorf("no open diagram with id %q", inv.Arg)
	}
	return nil
}

func (e *Editor) handleCopy(_ *action.Invocation, doc *Document) error {
	e.clipboard = copyCells(doc.Model, doc.Model.Selection())
	return nil
}

func (e *Editor) handleCut(inv *action.Invocation, doc *Document) error {
	sel := doc.Model.Selection()
	e.clipboard = copyCells(doc.Model, sel)
	doc.Model.Remove(sel...)
	return nil
}

func (e *Editor) handlePaste(_ *action.Invocation, doc *Document) error {
	if len(e.clipboard) == 0 {
		return nil
	}
	ids, err := insertCells(doc.Model, e.clipboard, pasteOffset, pasteOffset)
	if err != nil {
		return err
	}
	doc.Model.SetSelection(ids...)
	return nil
}

func handleSelectAll(_ *action.Invocation, doc *Document) error {
	cells := doc.Model.Cells()
	ids := make([]string, 0, len(cells))
	for _, c := range cells {
		ids = append(ids, c.ID)
	}
	doc.Model.SetSelection(ids...)
	return nil
}

func (e *Editor) handleFind(inv *action.Invocation, doc *Document) error {
	re, err := action.PromptRegexp(inv.Prompter, e.prompt(ActFind, e.lastPattern))
	if err != nil {
		return err
	}
	e.lastPattern = re.String()

	var matches []string
	for _, c := range doc.Model.Cells() {
		if re.MatchString(c.Label) {
			matches = append(matches, c.ID)
		}
	}
	doc.Model.SetSelection(matches...)
	if len(matches) == 0 {
		inv.Present(e.res.StringOr("find.label", ActFind), e.res.Format("find.empty", re.String()))
	}
	return nil
}

// toggleAttribute flips attr on every selected cell. The new value is the
// opposite of the action's selected flag, which reflects whether all selected
// cells carry it.
func (e *Editor) toggleAttribute(name, attr string) func(*action.Invocation, *Document) error {
	return func(_ *action.Invocation, doc *Document) error {
		value := "true"
		if a, ok := e.registry.Action(name); ok && a.Selected() {
			value = ""
		}
		var errs []error
		for _, id := range doc.Model.Selection() {
			errs = append(errs, doc.Model.SetAttributes(id, map[string]string{attr: value}))
		}
		return errors.Join(errs...)
	}
}

func (e *Editor) handleFontSize(inv *action.Invocation, doc *Document) error {
	sel := doc.Model.Selection()
	if len(sel) == 0 {
		return nil
	}
	current := strconv.Itoa(defaultFontSize)
	if v := doc.Model.Attributes(sel[0])[graph.AttrFontSize]; v != "" {
		current = v
	}
	req := e.prompt(ActFontSize, current)
	req.Kind = action.PromptNumber
	size, err := action.PromptInt(inv.Prompter, req, minFontSize, maxFontSize)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range sel {
		errs = append(errs, doc.Model.SetAttributes(id, map[string]string{graph.AttrFontSize: strconv.Itoa(size)}))
	}
	return errors.Join(errs...)
}

func (e *Editor) handleAddToLibrary(inv *action.Invocation, doc *Document) error {
	cells := copyCells(doc.Model, doc.Model.Selection())
	if len(cells) == 0 {
		return nil
	}
	def := cells[0].Label
	name, err := action.PromptPattern(inv.Prompter, e.prompt(ActAddToLibrary, def), nonBlank)
	if err != nil {
		return err
	}
	e.library.Add(strings.TrimSpace(name), cells)
	return nil
}

func (e *Editor) handleRemoveFromLibrary(inv *action.Invocation) error {
	lib := panelLibrary(inv.Focus)
	if lib == nil {
		return nil
	}
	lib.Remove(lib.SelectedIndex())
	return nil
}

func (e *Editor) handleInsertFromLibrary(inv *action.Invocation) error {
	entry, ok := selectedEntry(panelLibrary(inv.Focus))
	doc := e.desktop.Active()
	if !ok || doc == nil {
		return nil
	}
	ids, err := insertCells(doc.Model, entry.Cells, pasteOffset, pasteOffset)
	if err != nil {
		return err
	}
	doc.Model.SetSelection(ids...)
	return nil
}

// prototype is the vertex tool template: the first vertex of the selected
// library entry, or a plain box.
func (e *Editor) prototype() graph.Cell {
	if entry, ok := e.library.Selected(); ok {
		for _, c := range entry.Cells {
			if c.Kind == graph.Vertex {
				return c.Clone()
			}
		}
	}
	return graph.Cell{Kind: graph.Vertex, Width: 12, Height: 3}
}

// persistDesktop records the open documents and the last search pattern.
func (e *Editor) persistDesktop() error {
	var paths []string
	for _, doc := range e.desktop.Documents() {
		if doc.Path != "" {
			paths = append(paths, doc.Path)
		}
	}
	if len(paths) > maxOpenDocuments {
		paths = paths[len(paths)-maxOpenDocuments:]
	}
	e.props.SetList(PropOpenDocuments, paths)
	if active := e.desktop.Active(); active != nil && active.Path != "" {
		e.props.Set(PropActive, active.Path)
	} else {
		e.props.Delete(PropActive)
	}
	if e.lastPattern != "" {
		e.props.Set(PropLastPattern, e.lastPattern)
	}
	return nil
}

func (e *Editor) restoreDocuments() {
	for _, path := range e.props.List(PropOpenDocuments) {
		if _, err := e.OpenPath(path); err != nil {
			log.ErrorErr(log.CatConfig, "Could not reopen diagram", err, "path", path)
		}
	}
	if active, ok := e.props.Get(PropActive); ok {
		if doc := e.desktop.FindPath(active); doc != nil {
			e.desktop.Activate(doc.ID)
		}
	}
}

// copyCells returns the cells with the given ids plus every edge whose both
// endpoints are among them.
func copyCells(m graph.Model, ids []string) []graph.Cell {
	var out []graph.Cell
	vertices := make(map[string]bool)
	for _, id := range ids {
		if c, ok := m.Cell(id); ok && c.Kind == graph.Vertex {
			vertices[id] = true
			out = append(out, c)
		}
	}
	for _, c := range m.Cells() {
		if c.Kind == graph.Edge && vertices[c.Source] && vertices[c.Target] {
			out = append(out, c)
		}
	}
	return out
}

// insertCells adds copies of cells to m, offset by (dx, dy), rewiring edges
// to the new vertex ids. It returns the new ids.
func insertCells(m graph.Model, cells []graph.Cell, dx, dy int) ([]string, error) {
	idMap := make(map[string]string)
	var ids []string
	for _, c := range cells {
		if c.Kind != graph.Vertex {
			continue
		}
		old := c.ID
		c = c.Clone()
		c.ID = ""
		c.X += dx
		c.Y += dy
		id := m.Insert(c)
		if old != "" {
			idMap[old] = id
		}
		ids = append(ids, id)
	}
	for _, c := range cells {
		if c.Kind != graph.Edge {
			continue
		}
		src, okS := idMap[c.Source]
		dst, okT := idMap[c.Target]
		if !okS || !okT {
			continue
		}
		id, err := m.Connect(src, dst, c.Label)
		if err != nil {
			return ids, err
		}
		if len(c.Attrs) > 0 {
			if err := m.SetAttributes(id, c.Attrs); err != nil {
				return ids, err
			}
		}
		ids = append(ids, id)
	}
	return slices.Clip(ids), nil
}
