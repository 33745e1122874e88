package configstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const childrenField = "children"

var structuralTags = []string{TagMenu, TagItem, TagGroup, TagSeparator}

// ConfigParseError reports a fragment that could not be read or parsed.
// It is fatal during startup.
type ConfigParseError struct {
	Source string
	Line   int
	Column int
	Reason string
	Err    error
}

func (e *ConfigParseError) Error() string {
	loc := e.Source
	if loc == "" {
		loc = "<fragment>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", loc, e.Line, e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", loc, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", loc, e.Reason)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// ParseFile reads a fragment from disk.
func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: fragment paths come from user configuration
	if err != nil {
		return nil, &ConfigParseError{Source: path, Reason: "reading fragment", Err: err}
	}
	return Parse(bytes.NewReader(data), path)
}

// Parse decodes a YAML fragment. The top-level mapping lists sections; each
// section is a sequence of nodes. A node is either the scalar "separator" or
// a mapping with exactly one of menu, item, group or separator naming its key.
func Parse(r io.Reader, source string) (*Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewRoot(), nil
		}
		return nil, &ConfigParseError{Source: source, Reason: "invalid yaml", Err: err}
	}

	p := parser{source: source}
	body := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return NewRoot(), nil
		}
		body = doc.Content[0]
	}
	if body.Kind == yaml.ScalarNode && body.Tag == "!!null" {
		return NewRoot(), nil
	}
	if body.Kind != yaml.MappingNode {
		return nil, p.fail(body, "fragment must be a mapping of sections")
	}

	root := NewRoot()
	for i := 0; i+1 < len(body.Content); i += 2 {
		name, value := body.Content[i], body.Content[i+1]
		section := NewNode(name.Value, "")
		children, err := p.sequence(value)
		if err != nil {
			return nil, err
		}
		section.Children = children
		root.Children = append(root.Children, section)
	}
	return root, nil
}

type parser struct {
	source string
}

func (p parser) fail(at *yaml.Node, format string, args ...any) error {
	return &ConfigParseError{
		Source: p.source,
		Line:   at.Line,
		Column: at.Column,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (p parser) sequence(value *yaml.Node) ([]*Node, error) {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil, nil
	}
	if value.Kind != yaml.SequenceNode {
		return nil, p.fail(value, "expected a list of nodes")
	}
	out := make([]*Node, 0, len(value.Content))
	for _, item := range value.Content {
		n, err := p.node(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (p parser) node(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.ScalarNode:
		if y.Value != TagSeparator {
			return nil, p.fail(y, "bare value %q is not a node; only %q may be written without a key", y.Value, TagSeparator)
		}
		return NewNode(TagSeparator, ""), nil
	case yaml.MappingNode:
	default:
		return nil, p.fail(y, "expected a node mapping")
	}

	n := &Node{Attrs: map[string]string{}}
	for i := 0; i+1 < len(y.Content); i += 2 {
		field, value := y.Content[i], y.Content[i+1]
		switch {
		case slices.Contains(structuralTags, field.Value):
			if n.Tag != "" {
				return nil, p.fail(field, "node declares both %q and %q", n.Tag, field.Value)
			}
			if value.Kind != yaml.ScalarNode {
				return nil, p.fail(value, "%s key must be a scalar", field.Value)
			}
			n.Tag = field.Value
			if value.Tag != "!!null" && value.Value != "" {
				n.Attrs[AttrKey] = value.Value
			}
		case field.Value == childrenField:
			children, err := p.sequence(value)
			if err != nil {
				return nil, err
			}
			n.Children = children
		case field.Value == AttrKey:
			return nil, p.fail(field, "use the node tag to name the key, e.g. item: %s", value.Value)
		default:
			if value.Kind != yaml.ScalarNode {
				return nil, p.fail(value, "attribute %q must be a scalar", field.Value)
			}
			n.Attrs[field.Value] = value.Value
		}
	}
	if n.Tag == "" {
		return nil, p.fail(y, "node needs one of %v", structuralTags)
	}
	if n.Tag != TagSeparator && n.Key() == "" {
		return nil, p.fail(y, "%s node requires a key", n.Tag)
	}
	return n, nil
}

// Marshal encodes a document root back into the fragment format.
func Marshal(root *Node) ([]byte, error) {
	body := &yaml.Node{Kind: yaml.MappingNode}
	if root != nil {
		for _, section := range root.Children {
			body.Content = append(body.Content, scalar(section.Tag), encodeList(section.Children))
		}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{body}}); err != nil {
		return nil, fmt.Errorf("encoding fragment: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding fragment: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeList(nodes []*Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, n := range nodes {
		seq.Content = append(seq.Content, encodeNode(n))
	}
	return seq
}

func encodeNode(n *Node) *yaml.Node {
	if n.Tag == TagSeparator && len(n.Attrs) == 0 && len(n.Children) == 0 {
		return scalar(TagSeparator)
	}
	m := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, scalar(n.Tag), scalar(n.Key()))

	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		if name != AttrKey {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		m.Content = append(m.Content, scalar(name), scalar(n.Attrs[name]))
	}
	if len(n.Children) > 0 {
		m.Content = append(m.Content, scalar(childrenField), encodeList(n.Children))
	}
	return m
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}
