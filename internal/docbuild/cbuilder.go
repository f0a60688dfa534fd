package docbuild

import (
	"fmt"

	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/frontend/csrc"
	"github.com/mvp-joe/docsmith/internal/refgraph"
	"github.com/mvp-joe/docsmith/internal/report"
)

// CBuilder walks the host-language (C interop) declaration set into the
// same documentation tree and reference graph as the primary builder, so
// cross-references between the two languages resolve. It is a separate
// implementation of the same contract, not a specialization of Builder:
// the two front ends expose incompatible representations.
type CBuilder struct {
	graph    *refgraph.Graph
	reporter report.Reporter
	pkg      string // qualified package name interop symbols live under
}

// NewCBuilder creates a builder placing C symbols under the given package
// name (conventionally "C", matching cgo's import name).
func NewCBuilder(g *refgraph.Graph, rep report.Reporter, pkg string) *CBuilder {
	if pkg == "" {
		pkg = "C"
	}
	return &CBuilder{graph: g, reporter: rep, pkg: pkg}
}

// PackageName returns the package interop symbols are documented under.
func (b *CBuilder) PackageName() string {
	return b.pkg
}

// Build attaches every declaration in the file under pkgNode.
func (b *CBuilder) Build(f *csrc.File, pkgNode *docmodel.Node) error {
	for _, fn := range f.Functions {
		b.buildFunction(f, fn, pkgNode)
	}
	for _, st := range f.Structs {
		b.buildStruct(f, st, pkgNode)
	}
	for _, td := range f.Typedefs {
		b.buildTypedef(f, td, pkgNode)
	}
	for _, en := range f.Enums {
		b.buildEnum(f, en, pkgNode)
	}
	return nil
}

func (b *CBuilder) identity(name string) string {
	return fmt.Sprintf("%s.%s", b.pkg, name)
}

func (b *CBuilder) newNode(kind docmodel.NodeKind, name, file string, start, end int, parent *docmodel.Node) *docmodel.Node {
	node := docmodel.NewNode(kind, name, b.identity(name))
	node.File = file
	node.StartLine = start
	node.EndLine = end
	b.graph.Register(node.Identity, node)
	parent.AppendChild(node)
	return node
}

func (b *CBuilder) buildFunction(f *csrc.File, fn *csrc.Function, parent *docmodel.Node) {
	node := b.newNode(docmodel.KindFunction, fn.Name, f.Path, fn.StartLine, fn.EndLine, parent)
	node.Signature = fn.Signature
	if fn.Doc != "" {
		node.Content = docmodel.TextContent(fn.Doc)
	}

	for i, p := range fn.Params {
		param := docmodel.NewNode(docmodel.KindParameter, p.Name,
			fmt.Sprintf("%s/%d", node.Identity, i))
		param.File = f.Path
		b.graph.Register(param.Identity, param)
		node.AppendChild(param)
		if p.Type != "" {
			b.graph.Link(param, b.identity(p.Type), docmodel.RefType)
		}
	}

	if fn.ReturnType != "" && fn.ReturnType != "void" {
		b.graph.Link(node, b.identity(fn.ReturnType), docmodel.RefReturns)
	}
}

func (b *CBuilder) buildStruct(f *csrc.File, st *csrc.Struct, parent *docmodel.Node) {
	node := b.newNode(docmodel.KindClass, st.Name, f.Path, st.StartLine, st.EndLine, parent)
	if st.Doc != "" {
		node.Content = docmodel.TextContent(st.Doc)
	}

	for _, field := range st.Fields {
		prop := docmodel.NewNode(docmodel.KindProperty, field.Name,
			fmt.Sprintf("%s.%s", node.Identity, field.Name))
		prop.File = f.Path
		prop.StartLine = field.Line
		b.graph.Register(prop.Identity, prop)
		node.AppendChild(prop)
		if field.Type != "" {
			b.graph.Link(prop, b.identity(field.Type), docmodel.RefType)
		}
	}
}

func (b *CBuilder) buildTypedef(f *csrc.File, td *csrc.Typedef, parent *docmodel.Node) {
	node := b.newNode(docmodel.KindClass, td.Name, f.Path, td.Line, td.Line, parent)
	if td.Underlying != "" {
		b.graph.Link(node, b.identity(td.Underlying), docmodel.RefType)
	}
}

func (b *CBuilder) buildEnum(f *csrc.File, en *csrc.Enum, parent *docmodel.Node) {
	node := b.newNode(docmodel.KindObject, en.Name, f.Path, en.StartLine, en.EndLine, parent)
	for _, c := range en.Constants {
		member := docmodel.NewNode(docmodel.KindProperty, c,
			fmt.Sprintf("%s.%s", node.Identity, c))
		member.File = f.Path
		b.graph.Register(member.Identity, member)
		node.AppendChild(member)
	}
}
