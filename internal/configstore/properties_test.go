package configstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestProperties_RecentListScenario(t *testing.T) {
	p := NewProperties(nil)

	for _, v := range []string{"a", "b", "c", "d"} {
		p.PushRecent("recent", v, 3)
	}
	require.Equal(t, []string{"b", "c", "d"}, p.List("recent"))
	_, ok := p.Get("recent3")
	require.False(t, ok, "evicted slot is removed")

	p.PushRecent("recent", "b", 3)
	require.Equal(t, []string{"b", "c", "d"}, p.List("recent"))
}

func TestProperties_RecentListKeepsMostRecentUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		max := rapid.IntRange(1, 6).Draw(t, "max")
		pushes := rapid.SliceOf(rapid.SampledFrom([]string{"a", "b", "c", "d", "e", "f", "g", "h"})).Draw(t, "pushes")

		p := NewProperties(nil)
		var model []string
		for _, v := range pushes {
			p.PushRecent("file", v, max)

			present := false
			for _, m := range model {
				if m == v {
					present = true
					break
				}
			}
			if !present {
				model = append(model, v)
				if len(model) > max {
					model = model[len(model)-max:]
				}
			}
		}

		got := p.List("file")
		if len(got) != len(model) {
			t.Fatalf("expected %v, got %v", model, got)
		}
		for i := range got {
			if got[i] != model[i] {
				t.Fatalf("expected %v, got %v", model, got)
			}
		}
		if len(got) > max {
			t.Fatalf("list length %d exceeds max %d", len(got), max)
		}
	})
}

func TestProperties_RectRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := Rect{
			X:      rapid.IntRange(-5000, 5000).Draw(t, "x"),
			Y:      rapid.IntRange(-5000, 5000).Draw(t, "y"),
			Width:  rapid.IntRange(0, 10000).Draw(t, "width"),
			Height: rapid.IntRange(0, 10000).Draw(t, "height"),
		}
		p := NewProperties(nil)
		p.SetRect("window", r)

		got, ok := p.Rect("window")
		if !ok || got != r {
			t.Fatalf("expected %+v, got %+v (ok=%v)", r, got, ok)
		}
	})
}

func TestProperties_RectIncomplete(t *testing.T) {
	p := NewProperties(map[string]string{"window.x": "1", "window.y": "2", "window.width": "3"})
	_, ok := p.Rect("window")
	require.False(t, ok)

	p.Set("window.height", "tall")
	_, ok = p.Rect("window")
	require.False(t, ok)
}

func TestProperties_SetListShrinks(t *testing.T) {
	p := NewProperties(nil)
	p.SetList("lib", []string{"a", "b", "c"})
	p.SetList("lib", []string{"z"})

	require.Equal(t, []string{"z"}, p.List("lib"))
	require.Equal(t, []string{"lib0"}, p.Keys())
}

func TestProperties_Int(t *testing.T) {
	p := NewProperties(map[string]string{"zoom": "150", "bad": "x"})

	require.Equal(t, 150, p.Int("zoom", 100))
	require.Equal(t, 100, p.Int("bad", 100))
	require.Equal(t, 7, p.Int("missing", 7))
	require.Equal(t, "fallback", p.String("missing", "fallback"))
}

func TestProperties_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "diagrammer.properties")

	p := NewProperties(nil)
	p.SetRect("window", Rect{X: 10, Y: 20, Width: 800, Height: 600})
	p.PushRecent("recent", "/tmp/one.diagram", 4)
	p.PushRecent("recent", "/tmp/two words.diagram", 4)
	p.Set("lastPattern", `a "quoted" value #1`)
	require.NoError(t, p.Save(path))

	loaded, err := LoadProperties(path)
	require.NoError(t, err)
	require.Equal(t, p.Keys(), loaded.Keys())

	r, ok := loaded.Rect("window")
	require.True(t, ok)
	require.Equal(t, Rect{X: 10, Y: 20, Width: 800, Height: 600}, r)
	require.Equal(t, []string{"/tmp/one.diagram", "/tmp/two words.diagram"}, loaded.List("recent"))
	require.Equal(t, `a "quoted" value #1`, loaded.String("lastPattern", ""))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
}

func TestProperties_SaveKeepsValuesVerbatim(t *testing.T) {
	t.Setenv("X", "expanded")
	values := map[string]string{
		"dollar":    "cost$HOME",
		"braces":    "x${X}y",
		"quoteVar":  "it's ${X} and $HOME",
		"padded":    "007",
		"windows":   `C:\new\dir`,
		"multiline": "first\nsecond",
		"escapes":   `a\"b"$X`,
		"empty":     "",
	}
	path := filepath.Join(t.TempDir(), "session.properties")
	require.NoError(t, NewProperties(values).Save(path))

	loaded, err := LoadProperties(path)
	require.NoError(t, err)
	for k, want := range values {
		require.Equal(t, want, loaded.String(k, "<missing>"), k)
	}
}

func TestProperties_SaveKeepsRecentPathsWithDollar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.properties")
	p := NewProperties(nil)
	p.SetList("recent.files", []string{"/tmp/cost$HOME.yaml", "/tmp/x${USER}y.yaml"})
	require.NoError(t, p.Save(path))

	loaded, err := LoadProperties(path)
	require.NoError(t, err)
	require.Equal(t, []string{"/tmp/cost$HOME.yaml", "/tmp/x${USER}y.yaml"}, loaded.List("recent.files"))
}

func TestLoadProperties_MissingFile(t *testing.T) {
	p, err := LoadProperties(filepath.Join(t.TempDir(), "none.properties"))
	require.NoError(t, err)
	require.Zero(t, p.Len())
}
