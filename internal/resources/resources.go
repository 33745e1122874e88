// Package resources resolves user-visible strings by key.
//
// Bundles are flat maps written as nested YAML; nesting is flattened to
// dot-separated keys, so
//
//	save:
//	  label: Save
//
// answers the key "save.label". Bundles are stacked and later bundles shadow
// earlier ones.
package resources

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/diagrammer/internal/cachemanager"
	"github.com/zjrosen/diagrammer/internal/log"
)

//go:embed default.yaml
var defaultBundle []byte

// Standard key suffixes.
const (
	SuffixAction   = ".action"
	SuffixTool     = ".tool"
	SuffixLabel    = ".label"
	SuffixIcon     = ".icon"
	SuffixMnemonic = ".mnemonic"
	SuffixShortcut = ".shortcut"
	SuffixTooltip  = ".tooltip"
	SuffixPrompt   = ".prompt"
)

// Lookup is the read side used by the UI factory and handlers.
type Lookup interface {
	String(key string) (string, bool)
}

// Bundle is one named set of strings.
type Bundle struct {
	Name   string
	Path   string // empty for bundles not backed by a file
	values map[string]string
}

// ParseBundle decodes YAML into a bundle.
func ParseBundle(name string, data []byte) (*Bundle, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing resource bundle %s: %w", name, err)
	}
	values := make(map[string]string)
	flatten("", raw, values)
	return &Bundle{Name: name, values: values}, nil
}

// LoadBundle reads a bundle from disk.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: resource paths come from user configuration
	if err != nil {
		return nil, fmt.Errorf("reading resource bundle: %w", err)
	}
	b, err := ParseBundle(path, data)
	if err != nil {
		return nil, err
	}
	b.Path = path
	return b, nil
}

// NewBundle creates a bundle from already flat values.
func NewBundle(name string, values map[string]string) *Bundle {
	b := &Bundle{Name: name, values: make(map[string]string, len(values))}
	for k, v := range values {
		b.values[k] = v
	}
	return b
}

// Get returns the value stored in this bundle only.
func (b *Bundle) Get(key string) (string, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Len returns the number of keys.
func (b *Bundle) Len() int { return len(b.values) }

func flatten(prefix string, m map[string]any, out map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case map[any]any:
			converted := make(map[string]any, len(val))
			for mk, mv := range val {
				converted[cast.ToString(mk)] = mv
			}
			flatten(key, converted, out)
		case nil:
		default:
			out[key] = cast.ToString(val)
		}
	}
}

type entry struct {
	Value string
	Found bool
}

// Stack resolves keys against a list of bundles, last added first.
type Stack struct {
	bundles []*Bundle
	cache   *cachemanager.InMemoryCacheManager[string, entry]
	lookups *cachemanager.ReadThroughCache[string, entry]
}

// NewStack creates a stack holding only the built-in bundle.
func NewStack() *Stack {
	s := NewEmptyStack()
	b, err := ParseBundle("default", defaultBundle)
	if err != nil {
		panic(fmt.Sprintf("embedded resources: %v", err))
	}
	s.Add(b)
	return s
}

// NewEmptyStack creates a stack without bundles.
func NewEmptyStack() *Stack {
	s := &Stack{
		cache: cachemanager.NewInMemoryCacheManager[string, entry](
			"resources", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
	}
	s.lookups = cachemanager.NewReadThroughCache[string, entry](s.cache, s.resolve, cachemanager.DefaultExpiration, false)
	return s
}

// Add pushes b on top of the stack.
func (s *Stack) Add(b *Bundle) {
	s.bundles = append(s.bundles, b)
	s.invalidate()
	log.Debug(log.CatResources, "Resource bundle added", "bundle", b.Name, "keys", b.Len())
}

// AddFile loads a bundle from path and pushes it.
func (s *Stack) AddFile(path string) error {
	b, err := LoadBundle(path)
	if err != nil {
		return err
	}
	s.Add(b)
	return nil
}

// Reload re-reads every file-backed bundle. A bundle that fails to load keeps
// its previous contents; the first error is returned.
func (s *Stack) Reload() error {
	var firstErr error
	for i, b := range s.bundles {
		if b.Path == "" {
			continue
		}
		fresh, err := LoadBundle(b.Path)
		if err != nil {
			log.ErrorErr(log.CatResources, "Reload failed", err, "path", b.Path)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fresh.Name = b.Name
		s.bundles[i] = fresh
	}
	s.invalidate()
	return firstErr
}

// Paths lists the files backing bundles, for watching.
func (s *Stack) Paths() []string {
	var paths []string
	for _, b := range s.bundles {
		if b.Path != "" && !slices.Contains(paths, b.Path) {
			paths = append(paths, b.Path)
		}
	}
	return paths
}

// String resolves key.
func (s *Stack) String(key string) (string, bool) {
	e, err := s.lookups.Get(context.Background(), key)
	if err != nil {
		return "", false
	}
	return e.Value, e.Found
}

// StringOr resolves key or returns def.
func (s *Stack) StringOr(key, def string) string {
	if v, ok := s.String(key); ok {
		return v
	}
	return def
}

// Format resolves key and formats it with args. A missing key formats the
// key itself so the gap is visible.
func (s *Stack) Format(key string, args ...any) string {
	return fmt.Sprintf(s.StringOr(key, key), args...)
}

// Keys lists every key visible through the stack, sorted.
func (s *Stack) Keys() []string {
	seen := make(map[string]bool)
	for _, b := range s.bundles {
		for k := range b.values {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Stack) resolve(_ context.Context, key string) (entry, error) {
	for i := len(s.bundles) - 1; i >= 0; i-- {
		if v, ok := s.bundles[i].values[key]; ok {
			return entry{Value: v, Found: true}, nil
		}
	}
	return entry{}, nil
}

func (s *Stack) invalidate() {
	_ = s.lookups.Invalidate(context.Background())
}

// StringOr resolves key through any lookup, returning def when l is nil or
// the key is absent.
func StringOr(l Lookup, key, def string) string {
	if l == nil {
		return def
	}
	if v, ok := l.String(key); ok {
		return v
	}
	return def
}

var _ Lookup = (*Stack)(nil)
