package docmodel

// NodeKind represents the kind of documented symbol a node stands for.
type NodeKind string

const (
	KindModule        NodeKind = "module"
	KindPackage       NodeKind = "package"
	KindClass         NodeKind = "class"
	KindInterface     NodeKind = "interface"
	KindObject        NodeKind = "object"
	KindFunction      NodeKind = "function"
	KindConstructor   NodeKind = "constructor"
	KindProperty      NodeKind = "property"
	KindVariable      NodeKind = "variable"
	KindGetter        NodeKind = "getter"
	KindSetter        NodeKind = "setter"
	KindParameter     NodeKind = "parameter"
	KindTypeParameter NodeKind = "type-parameter"
	KindReceiver      NodeKind = "receiver"
	KindScript        NodeKind = "script"
)

// RefKind represents the type of a cross-reference edge between nodes.
type RefKind string

const (
	RefOverrides RefKind = "overrides"
	RefInherits  RefKind = "inherits"
	RefReturns   RefKind = "returns-type"
	RefType      RefKind = "type"
	RefCompanion RefKind = "companion"
	RefLink      RefKind = "link"
)

// Reference is a resolved, typed edge to another node. References are weak:
// the target is owned by its own parent, not by the referencing node.
type Reference struct {
	Kind RefKind
	To   *Node
}

// Node represents one documented symbol. Children are owned by the node;
// references are identity lookups resolved after traversal.
type Node struct {
	Kind     NodeKind
	Name     string
	Identity string // fully qualified identity, unique within a module

	// Source location, used for "view source" links. Zero values mean
	// the symbol has no physical location (e.g. synthetic containers).
	File      string
	StartLine int
	EndLine   int

	Deprecated bool
	Signature  string // display signature for callables

	Content  *Content
	children []*Node
	refs     []Reference
}

// NewNode creates a node with empty content.
func NewNode(kind NodeKind, name, identity string) *Node {
	return &Node{
		Kind:     kind,
		Name:     name,
		Identity: identity,
		Content:  &Content{},
	}
}

// AppendChild attaches child under n, preserving insertion order.
func (n *Node) AppendChild(child *Node) {
	n.children = append(n.children, child)
}

// Children returns the owned child nodes in visitation order.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildrenOfKind returns the owned children matching kind, in order.
func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddReference attaches a resolved reference edge to n.
func (n *Node) AddReference(kind RefKind, to *Node) {
	n.refs = append(n.refs, Reference{Kind: kind, To: to})
}

// References returns all resolved outgoing reference edges.
func (n *Node) References() []Reference {
	return n.refs
}

// ReferencesOfKind returns resolved references of the given kind.
func (n *Node) ReferencesOfKind(kind RefKind) []Reference {
	var out []Reference
	for _, r := range n.refs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Walk visits n and every node reachable through child edges, depth-first
// in child order. Reference edges are not followed.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Module is the root of a documentation tree. It owns one package node per
// top-level package plus module-level prose parsed from include files.
type Module struct {
	*Node
}

// NewModule creates an empty documentation module.
func NewModule(name string) *Module {
	return &Module{Node: NewNode(KindModule, name, name)}
}

// Package returns the package node with the given qualified name, or nil.
func (m *Module) Package(name string) *Node {
	for _, c := range m.Children() {
		if c.Kind == KindPackage && c.Name == name {
			return c
		}
	}
	return nil
}

// Packages returns all package nodes under the module root.
func (m *Module) Packages() []*Node {
	return m.ChildrenOfKind(KindPackage)
}
