package action

import (
	"context"
	"slices"

	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/log"
)

// Invocation carries everything a handler may consult.
type Invocation struct {
	Context   context.Context
	Name      string
	Focus     focus.Snapshot
	Arg       string
	Prompter  Prompter
	Presenter Presenter
}

// Present shows markdown when a presenter is attached.
func (inv *Invocation) Present(title, markdown string) {
	if inv.Presenter != nil {
		inv.Presenter.Present(title, markdown)
	}
}

// Handler executes one behavior of an action.
type Handler func(inv *Invocation) error

type handlerKey struct {
	name string
	kind focus.Kind
}

// Table maps (action name, focus kind) to handlers.
type Table struct {
	handlers map[handlerKey]Handler
	global   map[string]Handler
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{handlers: map[handlerKey]Handler{}, global: map[string]Handler{}}
}

// Register binds h to name for each of the given kinds. A later registration
// for the same pair replaces the earlier one.
func (t *Table) Register(name string, h Handler, kinds ...focus.Kind) {
	for _, k := range kinds {
		if _, exists := t.handlers[handlerKey{name, k}]; exists {
			log.Debug(log.CatAction, "Handler replaced", "action", name, "kind", k)
		}
		t.handlers[handlerKey{name, k}] = h
	}
}

// RegisterGlobal binds h to name in every focus context without a more
// specific handler.
func (t *Table) RegisterGlobal(name string, h Handler) {
	t.global[name] = h
}

// Lookup finds the handler for name in kind, falling back to the global one.
func (t *Table) Lookup(name string, kind focus.Kind) (Handler, bool) {
	if h, ok := t.handlers[handlerKey{name, kind}]; ok {
		return h, true
	}
	h, ok := t.global[name]
	return h, ok
}

// Kinds lists the focus kinds with a specific handler for name.
func (t *Table) Kinds(name string) []focus.Kind {
	var kinds []focus.Kind
	for k := range t.handlers {
		if k.name == name {
			kinds = append(kinds, k.kind)
		}
	}
	slices.Sort(kinds)
	return kinds
}

// Has reports whether any handler exists for name.
func (t *Table) Has(name string) bool {
	if _, ok := t.global[name]; ok {
		return true
	}
	return len(t.Kinds(name)) > 0
}
