package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/diagrammer/internal/graph"
)

const diagramVersion = 1

type diagramFile struct {
	Version int        `yaml:"version"`
	Grid    bool       `yaml:"grid,omitempty"`
	Cells   []fileCell `yaml:"cells"`
}

type fileCell struct {
	ID     string            `yaml:"id"`
	Kind   string            `yaml:"kind"`
	Label  string            `yaml:"label,omitempty"`
	Source string            `yaml:"source,omitempty"`
	Target string            `yaml:"target,omitempty"`
	X      int               `yaml:"x,omitempty"`
	Y      int               `yaml:"y,omitempty"`
	Width  int               `yaml:"width,omitempty"`
	Height int               `yaml:"height,omitempty"`
	Attrs  map[string]string `yaml:"attrs,omitempty"`
}

// OpenDocument reads a diagram file.
func OpenDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("opening diagram: %w", err)
	}
	var f diagramFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing diagram %s: %w", path, err)
	}
	if f.Version > diagramVersion {
		return nil, fmt.Errorf("diagram %s has unsupported version %d", path, f.Version)
	}
	cells := make([]graph.Cell, 0, len(f.Cells))
	for _, fc := range f.Cells {
		kind := graph.Vertex
		if fc.Kind == graph.Edge.String() {
			kind = graph.Edge
		}
		cells = append(cells, graph.Cell{
			ID: fc.ID, Kind: kind, Label: fc.Label,
			Source: fc.Source, Target: fc.Target,
			X: fc.X, Y: fc.Y, Width: fc.Width, Height: fc.Height,
			Attrs: fc.Attrs,
		})
	}
	doc := newDocument(documentName(path), path, graph.NewMemoryFrom(cells))
	doc.Grid = f.Grid
	return doc, nil
}

// SaveDocument writes doc to path atomically.
func SaveDocument(doc *Document, path string) error {
	f := diagramFile{Version: diagramVersion, Grid: doc.Grid}
	for _, c := range doc.Model.Cells() {
		f.Cells = append(f.Cells, fileCell{
			ID: c.ID, Kind: c.Kind.String(), Label: c.Label,
			Source: c.Source, Target: c.Target,
			X: c.X, Y: c.Y, Width: c.Width, Height: c.Height,
			Attrs: c.Attrs,
		})
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encoding diagram: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".diagram-*.tmp")
	if err != nil {
		return fmt.Errorf("saving diagram: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("saving diagram: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving diagram: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving diagram: %w", err)
	}
	return nil
}

func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
