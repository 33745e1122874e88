// Package configstore holds the layered UI configuration of the editor: the
// merged configuration trees built from fragments, flat property bundles, a
// named object registry and the ordered shutdown hooks of a session.
package configstore

import (
	"maps"
	"slices"
)

// Structural tags used below the section level.
const (
	TagMenu      = "menu"
	TagItem      = "item"
	TagGroup     = "group"
	TagSeparator = "separator"
)

// Section tags, the fixed set of root children addressed by name.
const (
	SectionMenubar = "menubar"
	SectionToolbar = "toolbar"
	SectionToolbox = "toolbox"
	SectionPopup   = "popup"
	SectionPlugins = "plugins"
)

// RootTag is the tag of every document root.
const RootTag = "ui"

// Attribute names with merge semantics.
const (
	AttrKey    = "key"
	AttrBefore = "before"
)

// Node is one element of a configuration tree.
// Keys are only unique among siblings.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
}

// NewNode creates a node with the given tag and key. An empty key leaves the
// key attribute unset.
func NewNode(tag, key string, children ...*Node) *Node {
	n := &Node{Tag: tag, Attrs: map[string]string{}, Children: children}
	if key != "" {
		n.Attrs[AttrKey] = key
	}
	return n
}

// NewRoot creates a document root holding the given sections.
func NewRoot(sections ...*Node) *Node {
	return NewNode(RootTag, "", sections...)
}

// Key returns the key attribute.
func (n *Node) Key() string {
	return n.Attr(AttrKey)
}

// Before returns the merge-time ordering hint.
func (n *Node) Before() string {
	return n.Attr(AttrBefore)
}

// Attr returns the named attribute or "".
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// SetAttr sets an attribute, returning n for chaining.
func (n *Node) SetAttr(name, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[name] = value
	return n
}

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Section returns the root child with the given tag.
func (n *Node) Section(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Child returns the first child with the given key.
func (n *Node) Child(key string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Key() == key {
			return c
		}
	}
	return nil
}

// ChildKeys lists the keys of the direct children in order.
func (n *Node) ChildKeys() []string {
	keys := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		keys = append(keys, c.Key())
	}
	return keys
}

// Find follows a path of keys below n.
func (n *Node) Find(keys ...string) *Node {
	cur := n
	for _, k := range keys {
		cur = cur.Child(k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Tag: n.Tag, Attrs: maps.Clone(n.Attrs)}
	if out.Attrs == nil {
		out.Attrs = map[string]string{}
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}

// Equal reports whether two trees are isomorphic: same tags, same attributes
// and pairwise equal children in the same order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || len(a.Children) != len(b.Children) {
		return false
	}
	if !maps.Equal(nonNil(a.Attrs), nonNil(b.Attrs)) {
		return false
	}
	return slices.EqualFunc(a.Children, b.Children, Equal)
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
