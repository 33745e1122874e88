package action

import (
	"slices"

	"github.com/zjrosen/diagrammer/internal/log"
)

// Bundle is a fixed, ordered group of actions recomputed together.
// Update must only write the flags of the bundle's own actions.
type Bundle interface {
	Name() string
	Actions() []*Action
	Update()
}

type fixedBundle struct {
	name    string
	actions []*Action
	update  func()
}

// NewBundle creates a bundle whose Update calls update. The action list is
// copied and never changes afterwards.
func NewBundle(name string, update func(), actions ...*Action) Bundle {
	return &fixedBundle{name: name, actions: slices.Clone(actions), update: update}
}

func (b *fixedBundle) Name() string { return b.name }
func (b *fixedBundle) Actions() []*Action { return slices.Clone(b.actions) }

func (b *fixedBundle) Update() {
	if b.update != nil {
		b.update()
	}
}

// Find returns the action with the given name from b.
func Find(b Bundle, name string) *Action {
	for _, a := range b.Actions() {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// Registry holds every bundle of a session and indexes their actions by name.
type Registry struct {
	bundles []Bundle
	actions map[string]*Action
	owner   map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: map[string]*Action{}, owner: map[string]string{}}
}

// Add registers a bundle. When two bundles declare the same action name the
// first registration wins.
func (r *Registry) Add(b Bundle) {
	r.bundles = append(r.bundles, b)
	for _, a := range b.Actions() {
		if prev, ok := r.owner[a.Name()]; ok {
			log.Warn(log.CatAction, "Duplicate action ignored", "action", a.Name(), "bundle", b.Name(), "owner", prev)
			continue
		}
		r.actions[a.Name()] = a
		r.owner[a.Name()] = b.Name()
	}
	log.Debug(log.CatAction, "Bundle registered", "bundle", b.Name(), "actions", len(b.Actions()))
}

// Bundles returns the registered bundles in registration order.
func (r *Registry) Bundles() []Bundle {
	return slices.Clone(r.bundles)
}

// Bundle returns the bundle registered under name.
func (r *Registry) Bundle(name string) (Bundle, bool) {
	for _, b := range r.bundles {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// Action looks up an action by name.
func (r *Registry) Action(name string) (*Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// ActionNames lists every indexed action name, sorted.
func (r *Registry) ActionNames() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// UpdateAll runs Update on every bundle in registration order.
func (r *Registry) UpdateAll() {
	for _, b := range r.bundles {
		b.Update()
	}
}
