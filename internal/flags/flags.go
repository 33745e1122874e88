// Package flags gates features that are still settling. Flags are read once
// from the config file; unknown flags are off.
package flags

import (
	"maps"

	"github.com/zjrosen/diagrammer/internal/log"
)

const (
	// FlagActionPalette enables the searchable action list on ctrl+p.
	FlagActionPalette = "action-palette"
)

// Defaults is the flag set used when the config file has no flags section.
var Defaults = map[string]bool{
	FlagActionPalette: true,
}

// Registry holds flag state. It is read-only after New.
type Registry struct {
	flags map[string]bool
}

// New creates a registry over flags. A nil map turns every flag off.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: maps.Clone(flags)}
	if r.flags == nil {
		r.flags = make(map[string]bool)
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "flags", r.All())
	return r
}

// Enabled reports whether name is on. Unknown names and a nil registry are
// off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	on, ok := r.flags[name]
	if !ok {
		log.Debug(log.CatConfig, "Unknown flag", "flag", name)
	}
	return on
}

// All returns a copy of the flag state.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
