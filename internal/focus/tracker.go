package focus

import "github.com/zjrosen/diagrammer/internal/log"

// Tracker holds the current focus context. The UI reports focus changes with
// Focus; commands read Current.
type Tracker struct {
	current   Snapshot
	listeners map[int]func(Snapshot)
	order     []int
	nextID    int
}

// NewTracker creates a tracker with no focus.
func NewTracker() *Tracker {
	return &Tracker{listeners: make(map[int]func(Snapshot))}
}

// Current returns the last classified snapshot.
func (t *Tracker) Current() Snapshot {
	return t.current
}

// Focus classifies c and stores the result. Listeners are notified when the
// focused component changes.
func (t *Tracker) Focus(c Component) Snapshot {
	snap := Classify(c)
	changed := snap.Focused != t.current.Focused || snap.Kind != t.current.Kind
	t.current = snap
	if changed {
		log.Debug(log.CatFocus, "Focus changed", "kind", snap.Kind, "focused", snap.Focused)
		t.notify()
	}
	return snap
}

// Refresh re-runs classification for the focused component, for use after
// the containment tree changed around it. Listeners are always notified.
func (t *Tracker) Refresh() Snapshot {
	t.current = Classify(t.current.Focused)
	t.notify()
	return t.current
}

// OnChange registers fn and returns a function removing it. Listeners run
// in registration order.
func (t *Tracker) OnChange(fn func(Snapshot)) func() {
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.order = append(t.order, id)
	return func() {
		if _, ok := t.listeners[id]; !ok {
			return
		}
		delete(t.listeners, id)
		for i, v := range t.order {
			if v == id {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
}

func (t *Tracker) notify() {
	for _, id := range append([]int(nil), t.order...) {
		if fn, ok := t.listeners[id]; ok {
			fn(t.current)
		}
	}
}
