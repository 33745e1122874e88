// Package focus classifies which interaction surface currently owns input.
//
// Components form a containment tree through Parent. Classify walks from the
// focused component towards the root and reports the nearest ancestor that
// declares a role. Tracker keeps the result as an explicit current context so
// command code never walks the live tree itself.
package focus

import "fmt"

// Kind is the classification of a focus context.
type Kind int

const (
	None Kind = iota
	EditingSurface
	ListPanel
	DiagramContainer
	Document
)

var kindNames = map[Kind]string{
	None:             "none",
	EditingSurface:   "editing surface",
	ListPanel:        "list panel",
	DiagramContainer: "diagram container",
	Document:         "document",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Component is one element of the containment tree.
type Component interface {
	Parent() Component
}

// RoleHolder is implemented by components that own a focus context.
type RoleHolder interface {
	Role() Kind
}

// TargetHolder is implemented by components that expose the object commands
// act on (a graph model, a library list, a document).
type TargetHolder interface {
	Target() any
}

// Snapshot is the outcome of a classification.
type Snapshot struct {
	Kind    Kind
	Owner   Component // nearest ancestor-or-self with a role; nil for None
	Focused Component
}

// Target returns the owner's target, or nil.
func (s Snapshot) Target() any {
	if th, ok := s.Owner.(TargetHolder); ok {
		return th.Target()
	}
	return nil
}

// Is reports whether the snapshot has one of the given kinds.
func (s Snapshot) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if s.Kind == k {
			return true
		}
	}
	return false
}

// Classify walks c and its ancestors and returns the first component that
// declares a role other than None.
func Classify(c Component) Snapshot {
	snap := Snapshot{Focused: c}
	for cur := c; !isNil(cur); cur = cur.Parent() {
		rh, ok := cur.(RoleHolder)
		if !ok {
			continue
		}
		if kind := rh.Role(); kind != None {
			snap.Kind = kind
			snap.Owner = cur
			return snap
		}
	}
	return snap
}

// TargetAs returns the snapshot target when it has type T.
func TargetAs[T any](s Snapshot) (T, bool) {
	v, ok := s.Target().(T)
	return v, ok
}

func isNil(c Component) bool {
	if c == nil {
		return true
	}
	if n, ok := c.(*Node); ok {
		return n == nil
	}
	return false
}
