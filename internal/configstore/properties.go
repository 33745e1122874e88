package configstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/subosito/gotenv"
)

// Rect is a window or pane rectangle stored as four properties.
type Rect struct {
	X, Y, Width, Height int
}

// Properties is a flat string-keyed bundle persisted as key=value lines.
// Keys are restricted to letters, digits, '_' and '.'.
type Properties struct {
	values map[string]string
}

// NewProperties creates an empty bundle, optionally seeded with values.
func NewProperties(seed map[string]string) *Properties {
	p := &Properties{values: make(map[string]string, len(seed))}
	for k, v := range seed {
		p.values[k] = v
	}
	return p
}

// LoadProperties reads a bundle from path. A missing file yields an empty
// bundle.
func LoadProperties(path string) (*Properties, error) {
	f, err := os.Open(path) //nolint:gosec // G304: properties path comes from user configuration
	if errors.Is(err, fs.ErrNotExist) {
		return NewProperties(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening properties: %w", err)
	}
	defer func() { _ = f.Close() }()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing properties %s: %w", path, err)
	}
	return NewProperties(env), nil
}

// Save writes the bundle to path atomically (temp file, then rename).
func (p *Properties) Save(path string) error {
	content := encodeProperties(p.values)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating properties directory: %w", err)
	}
	temp, err := os.CreateTemp(dir, ".properties.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(content); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Get returns the value for key.
func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// String returns the value for key or def.
func (p *Properties) String(key, def string) string {
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

// Int parses the value for key, returning def when missing or malformed.
func (p *Properties) Int(key string, def int) int {
	v, ok := p.values[key]
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// Set stores a value.
func (p *Properties) Set(key, value string) {
	p.values[key] = value
}

// Delete removes a key.
func (p *Properties) Delete(key string) {
	delete(p.values, key)
}

// Keys returns all keys sorted.
func (p *Properties) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of stored keys.
func (p *Properties) Len() int {
	return len(p.values)
}

// SetRect stores r under key.x, key.y, key.width and key.height.
func (p *Properties) SetRect(key string, r Rect) {
	p.values[key+".x"] = strconv.Itoa(r.X)
	p.values[key+".y"] = strconv.Itoa(r.Y)
	p.values[key+".width"] = strconv.Itoa(r.Width)
	p.values[key+".height"] = strconv.Itoa(r.Height)
}

// Rect reads a rectangle stored with SetRect. All four keys must be present
// and numeric.
func (p *Properties) Rect(key string) (Rect, bool) {
	var out Rect
	fields := []struct {
		suffix string
		dst    *int
	}{
		{".x", &out.X}, {".y", &out.Y}, {".width", &out.Width}, {".height", &out.Height},
	}
	for _, f := range fields {
		v, ok := p.values[key+f.suffix]
		if !ok {
			return Rect{}, false
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			return Rect{}, false
		}
		*f.dst = n
	}
	return out, true
}

// List reads an indexed list key0, key1, ... stopping at the first gap.
func (p *Properties) List(key string) []string {
	var out []string
	for i := 0; ; i++ {
		v, ok := p.values[key+strconv.Itoa(i)]
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// SetList replaces the indexed list under key.
func (p *Properties) SetList(key string, values []string) {
	for i := len(values); ; i++ {
		k := key + strconv.Itoa(i)
		if _, ok := p.values[k]; !ok {
			break
		}
		delete(p.values, k)
	}
	for i, v := range values {
		p.values[key+strconv.Itoa(i)] = v
	}
}

// PushRecent appends value to the recency list under key. Values already in
// the list are left where they are. Once the list grows beyond max the oldest
// entries are evicted.
func (p *Properties) PushRecent(key, value string, max int) []string {
	list := p.List(key)
	if slices.Contains(list, value) {
		return list
	}
	list = append(list, value)
	if max > 0 && len(list) > max {
		list = list[len(list)-max:]
	}
	p.SetList(key, list)
	return list
}

// doubleQuoted escapes a value for a double-quoted line. Escaping '$' keeps
// gotenv from expanding it as a variable on load.
var doubleQuoted = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "$", `\$`)

// encodeProperties writes sorted key=value lines that gotenv parses back to
// the same values. Values are single-quoted, which gotenv takes verbatim,
// unless they contain a quote or a line break.
func encodeProperties(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := values[k]
		if strings.ContainsAny(v, "'\n\r") {
			fmt.Fprintf(&b, "%s=\"%s\"\n", k, doubleQuoted.Replace(v))
			continue
		}
		fmt.Fprintf(&b, "%s='%s'\n", k, v)
	}
	return b.String()
}
