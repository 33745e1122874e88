package configstore

import (
	"fmt"

	"github.com/zjrosen/diagrammer/internal/log"
)

// ShutdownFunc runs at session end.
type ShutdownFunc func() error

type shutdownHook struct {
	name string
	fn   ShutdownFunc
}

// Store holds the configuration state of one editor session: named documents
// built by merging fragments, property bundles, the live object registry and
// shutdown hooks.
//
// A Store is owned by the dispatch loop and is not safe for concurrent use.
type Store struct {
	documents  map[string]*Node
	properties map[string]*Properties
	objects    map[string]any
	hooks      []shutdownHook
	shutDown   bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		documents:  make(map[string]*Node),
		properties: make(map[string]*Properties),
		objects:    make(map[string]any),
	}
}

// Add registers fragment under name, or merges it into the document already
// registered under that name.
func (s *Store) Add(name string, fragment *Node) {
	existing, ok := s.documents[name]
	if !ok {
		s.documents[name] = fragment.Clone()
		log.Debug(log.CatConfig, "Registered document", "name", name, "nodes", fragment.Count())
		return
	}
	s.documents[name] = Merge(existing, fragment)
	log.Debug(log.CatConfig, "Merged fragment", "name", name, "nodes", s.documents[name].Count())
}

// Load parses the fragment at path and adds it under name.
func (s *Store) Load(name, path string) error {
	fragment, err := ParseFile(path)
	if err != nil {
		return err
	}
	s.Add(name, fragment)
	return nil
}

// Document returns the merged document registered under name, or nil.
func (s *Store) Document(name string) *Node {
	return s.documents[name]
}

// DocumentNames lists registered document names.
func (s *Store) DocumentNames() []string {
	names := make([]string, 0, len(s.documents))
	for name := range s.documents {
		names = append(names, name)
	}
	return names
}

// AddProperties registers a property bundle. A second bundle under the same
// name replaces the first.
func (s *Store) AddProperties(name string, p *Properties) {
	s.properties[name] = p
}

// Properties returns the bundle registered under name, or nil.
func (s *Store) Properties(name string) *Properties {
	return s.properties[name]
}

// PutObject publishes a live reference. Last writer wins.
func (s *Store) PutObject(key string, v any) {
	s.objects[key] = v
}

// Object returns the reference published under key.
func (s *Store) Object(key string) (any, bool) {
	v, ok := s.objects[key]
	return v, ok
}

// ObjectAs returns the reference published under key when it has type T.
func ObjectAs[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.objects[key]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// AddShutdownHook registers fn to run at Shutdown. Hooks run in reverse
// registration order, so the first hook registered runs last.
func (s *Store) AddShutdownHook(name string, fn ShutdownFunc) {
	s.hooks = append(s.hooks, shutdownHook{name: name, fn: fn})
}

// Shutdown runs every hook in reverse registration order. Hook failures and
// panics are logged and do not stop the remaining hooks. Calling Shutdown more
// than once is a no-op.
func (s *Store) Shutdown() {
	if s.shutDown {
		return
	}
	s.shutDown = true
	for i := len(s.hooks) - 1; i >= 0; i-- {
		h := s.hooks[i]
		if err := runHook(h); err != nil {
			log.ErrorErr(log.CatConfig, "Shutdown hook failed", err, "hook", h.name)
		}
	}
}

func runHook(h shutdownHook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in shutdown hook: %v", r)
		}
	}()
	return h.fn()
}
