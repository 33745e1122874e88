package configstore

import "slices"

// Merge returns the tree obtained by merging fragment into dst. Neither input
// is modified.
//
// Root children are sections and match by tag. Below the sections, children
// match by key. A matched node keeps its own attributes and only has the
// incoming children merged into it. An unmatched node is inserted right before
// the sibling named by its before attribute, or appended when there is no such
// sibling. Keyless nodes match the keyless sibling with the same tag and the
// same ordinal, so separators are not duplicated when a fragment is merged
// twice.
func Merge(dst, fragment *Node) *Node {
	if dst == nil {
		return fragment.Clone()
	}
	out := dst.Clone()
	if fragment == nil {
		return out
	}
	for _, section := range fragment.Children {
		if existing := out.Section(section.Tag); existing != nil {
			mergeChildren(existing, section.Children)
			continue
		}
		out.Children = append(out.Children, section.Clone())
	}
	return out
}

// MergeAll folds fragments left to right into a single tree.
func MergeAll(fragments ...*Node) *Node {
	var out *Node
	for _, f := range fragments {
		out = Merge(out, f)
	}
	return out
}

// mergeChildren merges incoming into target, which must be owned by the
// caller.
func mergeChildren(target *Node, incoming []*Node) {
	ordinals := map[string]int{}
	for _, in := range incoming {
		var match *Node
		if key := in.Key(); key != "" {
			match = target.Child(key)
		} else {
			match = keylessChild(target, in.Tag, ordinals[in.Tag])
			ordinals[in.Tag]++
		}
		if match != nil {
			mergeChildren(match, in.Children)
			continue
		}
		insert(target, in.Clone())
	}
}

func keylessChild(parent *Node, tag string, ordinal int) *Node {
	seen := 0
	for _, c := range parent.Children {
		if c.Key() != "" || c.Tag != tag {
			continue
		}
		if seen == ordinal {
			return c
		}
		seen++
	}
	return nil
}

func insert(parent, n *Node) {
	if before := n.Before(); before != "" {
		idx := slices.IndexFunc(parent.Children, func(c *Node) bool { return c.Key() == before })
		if idx >= 0 {
			parent.Children = slices.Insert(parent.Children, idx, n)
			return
		}
	}
	parent.Children = append(parent.Children, n)
}
