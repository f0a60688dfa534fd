package docbuild

import (
	"fmt"

	"github.com/mvp-joe/docsmith/internal/decl"
	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/refgraph"
	"github.com/mvp-joe/docsmith/internal/report"
)

// Builder walks the primary front end's declaration tree exactly once per
// reachable user-code symbol, creating one documentation node per symbol
// and registering each node's qualified identity in the reference graph.
type Builder struct {
	graph    *refgraph.Graph
	reporter report.Reporter
	opts     Options
}

// NewBuilder creates a builder that accumulates into the given graph.
func NewBuilder(g *refgraph.Graph, rep report.Reporter, opts Options) *Builder {
	return &Builder{graph: g, reporter: rep, opts: opts}
}

// Build visits d and attaches the resulting node under parent. It returns
// nil when d is filtered out. A declaration missing a child its kind
// mandates is a fatal input error: skipping it silently would corrupt the
// tree's completeness guarantee.
func (b *Builder) Build(d *decl.Decl, parent *docmodel.Node) (*docmodel.Node, error) {
	if d == nil {
		return nil, nil
	}
	if !b.opts.userCode(d) {
		return nil, nil
	}

	switch d.Kind {
	case decl.KindModule:
		return b.buildModule(d, parent)
	case decl.KindPackage:
		return b.buildPackage(d, parent)
	case decl.KindScript:
		return b.buildScript(d, parent)
	case decl.KindClass:
		return b.buildClass(d, parent)
	case decl.KindFunction:
		return b.buildCallable(d, parent, docmodel.KindFunction)
	case decl.KindConstructor:
		return b.buildCallable(d, parent, docmodel.KindConstructor)
	case decl.KindProperty:
		return b.buildCallable(d, parent, docmodel.KindProperty)
	case decl.KindVariable:
		return b.buildCallable(d, parent, docmodel.KindVariable)
	case decl.KindGetter:
		return b.buildCallable(d, parent, docmodel.KindGetter)
	case decl.KindSetter:
		return b.buildCallable(d, parent, docmodel.KindSetter)
	case decl.KindTypeParameter:
		return b.buildLeaf(d, parent, docmodel.KindTypeParameter)
	case decl.KindValueParameter:
		return b.buildLeaf(d, parent, docmodel.KindParameter)
	case decl.KindReceiver:
		return b.buildLeaf(d, parent, docmodel.KindReceiver)
	default:
		return nil, fmt.Errorf("unknown declaration kind %q for %q", d.Kind, d.QualifiedName)
	}
}

// newNode creates the documentation node for d, registers its identity,
// and attaches it under parent.
func (b *Builder) newNode(d *decl.Decl, parent *docmodel.Node, kind docmodel.NodeKind) *docmodel.Node {
	node := docmodel.NewNode(kind, d.Name, d.QualifiedName)
	node.File = d.File
	node.StartLine = d.StartLine
	node.EndLine = d.EndLine
	node.Deprecated = d.Deprecated
	node.Signature = d.Signature
	if d.Doc != "" {
		node.Content = docmodel.TextContent(d.Doc)
	}

	b.graph.Register(d.QualifiedName, node)
	if parent != nil {
		parent.AppendChild(node)
	}
	return node
}

func (b *Builder) buildModule(d *decl.Decl, parent *docmodel.Node) (*docmodel.Node, error) {
	if len(d.Members) == 0 {
		return nil, fmt.Errorf("module %q has no root package", d.Name)
	}
	node := b.newNode(d, parent, docmodel.KindModule)
	for _, m := range d.Members {
		if _, err := b.Build(m, node); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (b *Builder) buildPackage(d *decl.Decl, parent *docmodel.Node) (*docmodel.Node, error) {
	node := b.newNode(d, parent, docmodel.KindPackage)
	for _, m := range d.Members {
		if _, err := b.Build(m, node); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// buildScript attaches a script's members directly under the parent; the
// script itself has no page of its own.
func (b *Builder) buildScript(d *decl.Decl, parent *docmodel.Node) (*docmodel.Node, error) {
	for _, m := range d.Members {
		if _, err := b.Build(m, parent); err != nil {
			return nil, err
		}
	}
	return parent, nil
}

func (b *Builder) buildClass(d *decl.Decl, parent *docmodel.Node) (*docmodel.Node, error) {
	kind := docmodel.KindClass
	switch d.ClassKind {
	case decl.ClassKindInterface:
		kind = docmodel.KindInterface
	case decl.ClassKindObject:
		kind = docmodel.KindObject
	}

	node := b.newNode(d, parent, kind)

	for _, tp := range d.TypeParams {
		if _, err := b.Build(tp, node); err != nil {
			return nil, err
		}
	}

	for _, m := range d.Members {
		if m.Kind == decl.KindConstructor {
			if _, err := b.Build(m, node); err != nil {
				return nil, err
			}
		}
	}

	// Object members are compiler-synthesized machinery; the companion is
	// only meaningful on ordinary classes.
	if d.ClassKind != decl.ClassKindObject && d.Companion != nil {
		companion, err := b.buildClass(d.Companion, node)
		if err != nil {
			return nil, err
		}
		if companion != nil {
			b.graph.Link(node, d.Companion.QualifiedName, docmodel.RefCompanion)
		}
	}

	for _, m := range d.Members {
		if m.Kind == decl.KindConstructor {
			continue
		}
		if !b.includeClassMember(m) {
			continue
		}
		if m.Kind == decl.KindClass {
			if _, err := b.buildClass(m, node); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := b.Build(m, node); err != nil {
			return nil, err
		}
	}

	for _, st := range d.Supertypes {
		b.graph.Link(node, st, docmodel.RefInherits)
	}

	return node, nil
}

// includeClassMember applies the user-code filter to callable members only.
// Nested types are always included regardless of synthetic status, except
// synthetic singleton objects produced purely for companion machinery.
func (b *Builder) includeClassMember(m *decl.Decl) bool {
	if m.Kind == decl.KindClass {
		return !(m.Synthetic && m.ClassKind == decl.ClassKindObject)
	}
	return b.opts.userCode(m)
}

// buildCallable handles every callable-like kind: functions, constructors,
// properties, variables, and accessors. Children are walked in a fixed
// order: type parameters, the receiver if present, then value parameters.
// Properties additionally own their declared accessors.
func (b *Builder) buildCallable(d *decl.Decl, parent *docmodel.Node, kind docmodel.NodeKind) (*docmodel.Node, error) {
	node := b.newNode(d, parent, kind)

	for _, tp := range d.TypeParams {
		if _, err := b.Build(tp, node); err != nil {
			return nil, err
		}
	}
	if d.Receiver != nil {
		if _, err := b.Build(d.Receiver, node); err != nil {
			return nil, err
		}
	}
	for _, p := range d.Params {
		if _, err := b.Build(p, node); err != nil {
			return nil, err
		}
	}

	if kind == docmodel.KindProperty {
		if d.Getter != nil {
			if _, err := b.Build(d.Getter, node); err != nil {
				return nil, err
			}
		}
		if d.Setter != nil {
			if _, err := b.Build(d.Setter, node); err != nil {
				return nil, err
			}
		}
	}

	if d.ReturnType != "" {
		b.graph.Link(node, d.ReturnType, docmodel.RefReturns)
	}
	if d.Type != "" {
		b.graph.Link(node, d.Type, docmodel.RefType)
	}
	if d.Overrides != "" {
		b.graph.Link(node, d.Overrides, docmodel.RefOverrides)
	}

	return node, nil
}

// buildLeaf handles parameters, type parameters, and receivers.
func (b *Builder) buildLeaf(d *decl.Decl, parent *docmodel.Node, kind docmodel.NodeKind) (*docmodel.Node, error) {
	node := b.newNode(d, parent, kind)
	if d.Type != "" {
		b.graph.Link(node, d.Type, docmodel.RefType)
	}
	return node, nil
}
