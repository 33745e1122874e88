package editor

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/zjrosen/diagrammer/internal/graph"
)

// Zoom limits, in percent.
const (
	ZoomMin     = 25
	ZoomMax     = 400
	ZoomStep    = 25
	ZoomDefault = 100
)

// Document is one open diagram.
type Document struct {
	ID       string
	Name     string
	Path     string
	Model    graph.Model
	Grid     bool
	Zoom     int
	Modified bool

	unwatch func()
}

// NewDocument creates an empty document.
func NewDocument(name string) *Document {
	return newDocument(name, "", graph.NewMemory())
}

func newDocument(name, path string, m graph.Model) *Document {
	return &Document{
		ID:    uuid.NewString(),
		Name:  name,
		Path:  path,
		Model: m,
		Zoom:  ZoomDefault,
	}
}

// DesktopOp names a desktop change.
type DesktopOp string

const (
	DocumentAdded     DesktopOp = "added"
	DocumentActivated DesktopOp = "activated"
	DocumentClosed    DesktopOp = "closed"
	DocumentSaved     DesktopOp = "saved"
	DocumentChanged   DesktopOp = "changed"
)

// DesktopChange is delivered to desktop listeners.
type DesktopChange struct {
	Op       DesktopOp
	Document *Document
}

// Desktop tracks the open documents and which one is active. It is published
// in the object registry so independently built components can follow it.
type Desktop struct {
	docs      []*Document
	active    *Document
	untitled  int
	listeners map[int]func(DesktopChange)
	order     []int
	nextID    int
}

// NewDesktop creates an empty desktop.
func NewDesktop() *Desktop {
	return &Desktop{listeners: make(map[int]func(DesktopChange))}
}

// Untitled creates, adds and activates a new empty document.
func (d *Desktop) Untitled() *Document {
	d.untitled++
	doc := NewDocument(fmt.Sprintf("untitled-%d", d.untitled))
	d.Add(doc)
	return doc
}

// Add opens doc and makes it active.
func (d *Desktop) Add(doc *Document) {
	d.docs = append(d.docs, doc)
	doc.unwatch = doc.Model.OnChange(func(ch graph.Change) {
		if ch.Op != "selection" {
			doc.Modified = true
		}
		d.notify(DesktopChange{Op: DocumentChanged, Document: doc})
	})
	d.notify(DesktopChange{Op: DocumentAdded, Document: doc})
	d.Activate(doc.ID)
}

// Activate makes the document with id active.
func (d *Desktop) Activate(id string) bool {
	doc := d.Find(id)
	if doc == nil {
		return false
	}
	if d.active == doc {
		return true
	}
	d.active = doc
	d.notify(DesktopChange{Op: DocumentActivated, Document: doc})
	return true
}

// Close removes the document with id. The most recently opened remaining
// document becomes active.
func (d *Desktop) Close(id string) bool {
	i := slices.IndexFunc(d.docs, func(doc *Document) bool { return doc.ID == id })
	if i < 0 {
		return false
	}
	doc := d.docs[i]
	d.docs = slices.Delete(d.docs, i, i+1)
	if doc.unwatch != nil {
		doc.unwatch()
	}
	if d.active == doc {
		d.active = nil
		if n := len(d.docs); n > 0 {
			d.active = d.docs[n-1]
		}
	}
	d.notify(DesktopChange{Op: DocumentClosed, Document: doc})
	if d.active != nil {
		d.notify(DesktopChange{Op: DocumentActivated, Document: d.active})
	}
	return true
}

// MarkSaved records that doc was written to path.
func (d *Desktop) MarkSaved(doc *Document, path string) {
	doc.Path = path
	doc.Modified = false
	d.notify(DesktopChange{Op: DocumentSaved, Document: doc})
}

// Active returns the active document, or nil.
func (d *Desktop) Active() *Document { return d.active }

// Documents returns the open documents in opening order.
func (d *Desktop) Documents() []*Document { return slices.Clone(d.docs) }

// Find returns the open document with id.
func (d *Desktop) Find(id string) *Document {
	for _, doc := range d.docs {
		if doc.ID == id {
			return doc
		}
	}
	return nil
}

// FindPath returns the open document backed by path.
func (d *Desktop) FindPath(path string) *Document {
	for _, doc := range d.docs {
		if doc.Path != "" && doc.Path == path {
			return doc
		}
	}
	return nil
}

// OnChange registers fn and returns a function that removes it.
func (d *Desktop) OnChange(fn func(DesktopChange)) func() {
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.order = append(d.order, id)
	return func() {
		delete(d.listeners, id)
		d.order = slices.DeleteFunc(d.order, func(v int) bool { return v == id })
	}
}

func (d *Desktop) notify(ch DesktopChange) {
	for _, id := range slices.Clone(d.order) {
		if fn, ok := d.listeners[id]; ok {
			fn(ch)
		}
	}
}
