package focus

// Node is a concrete Component used to describe the containment tree of the
// terminal UI. A Node without a role is transparent to classification.
type Node struct {
	Name     string
	role     Kind
	target   func() any
	parent   *Node
	children []*Node
}

// NewNode creates a node. Pass None for containers that do not own a context.
func NewNode(name string, role Kind) *Node {
	return &Node{Name: name, role: role}
}

// WithTarget sets the function returning the node's current target.
func (n *Node) WithTarget(fn func() any) *Node {
	n.target = fn
	return n
}

// Add attaches children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// Parent implements Component.
func (n *Node) Parent() Component {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Role implements RoleHolder.
func (n *Node) Role() Kind {
	return n.role
}

// Target implements TargetHolder.
func (n *Node) Target() any {
	if n.target == nil {
		return nil
	}
	return n.target()
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	return n.children
}

// Leaves returns the leaf nodes below n in depth-first order. These are the
// stops of the focus ring.
func (n *Node) Leaves() []*Node {
	if len(n.children) == 0 {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.children {
		out = append(out, c.Leaves()...)
	}
	return out
}

func (n *Node) String() string {
	return n.Name
}
