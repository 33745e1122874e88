// Package action implements commands with observable enablement, the bundles
// that recompute them, and the dispatch path that runs a command against the
// current focus context.
package action

// Property names reported in Change.
const (
	PropEnabled  = "enabled"
	PropSelected = "selected"
	PropVisible  = "visible"
)

// Change describes one flag transition of an Action.
type Change struct {
	Action   *Action
	Property string
	Old, New bool
}

// Listener observes Action flag transitions.
type Listener func(Change)

// Action is a named command. Its flags are written by the owning bundle's
// Update and observed by bound controls.
type Action struct {
	name     string
	enabled  bool
	selected bool
	visible  bool
	toggle   bool

	listeners map[int]Listener
	order     []int
	nextID    int
}

// New creates an enabled, visible one-shot action.
func New(name string) *Action {
	return &Action{name: name, enabled: true, visible: true, listeners: map[int]Listener{}}
}

// NewToggle creates an action carrying a selected state.
func NewToggle(name string) *Action {
	a := New(name)
	a.toggle = true
	return a
}

func (a *Action) Name() string { return a.name }
func (a *Action) Enabled() bool { return a.enabled }
func (a *Action) Selected() bool { return a.selected }
func (a *Action) Visible() bool { return a.visible }
func (a *Action) IsToggle() bool { return a.toggle }
func (a *Action) String() string { return a.name }
func (a *Action) Listeners() int { return len(a.listeners) }

// SetEnabled updates the enabled flag.
func (a *Action) SetEnabled(v bool) {
	a.set(&a.enabled, PropEnabled, v)
}

// SetSelected updates the selected flag. It is ignored for one-shot actions.
func (a *Action) SetSelected(v bool) {
	if !a.toggle {
		return
	}
	a.set(&a.selected, PropSelected, v)
}

// SetVisible updates the visible flag.
func (a *Action) SetVisible(v bool) {
	a.set(&a.visible, PropVisible, v)
}

// AddListener registers fn and returns a function that removes it.
// Listeners run in registration order.
func (a *Action) AddListener(fn Listener) func() {
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.order = append(a.order, id)
	return func() {
		if _, ok := a.listeners[id]; !ok {
			return
		}
		delete(a.listeners, id)
		for i, v := range a.order {
			if v == id {
				a.order = append(a.order[:i], a.order[i+1:]...)
				break
			}
		}
	}
}

func (a *Action) set(field *bool, prop string, v bool) {
	if *field == v {
		return
	}
	old := *field
	*field = v
	ch := Change{Action: a, Property: prop, Old: old, New: v}
	for _, id := range append([]int(nil), a.order...) {
		if fn, ok := a.listeners[id]; ok {
			fn(ch)
		}
	}
}
