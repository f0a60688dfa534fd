package docbuild

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/docsmith/internal/decl"
	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/refgraph"
	"github.com/mvp-joe/docsmith/internal/report"
)

// Test Plan for the declaration visitor:
// - A module with no root package is a fatal error
// - Synthetic declarations are excluded by default
// - SkipDeprecated removes deprecated declarations but never their siblings
// - Filtering a declaration twice yields the same tree (idempotence)
// - Callable children follow the fixed order: type params, receiver, params
// - Properties own their getter and setter as child nodes
// - Class traversal includes nested types even when synthetic
// - Synthetic singleton objects inside a class are excluded
// - Object-kind classes never attach a companion
// - Companion attachment links a companion reference
// - Script members attach to the parent without a script node
// - Supertypes and return types become pending links that resolve

func testReporter() report.Reporter {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return report.New(log)
}

func newTestBuilder(opts Options) (*Builder, *refgraph.Graph, report.Reporter) {
	rep := testReporter()
	g := refgraph.New(rep)
	return NewBuilder(g, rep, opts), g, rep
}

func fn(name, qname string) *decl.Decl {
	return &decl.Decl{Kind: decl.KindFunction, Name: name, QualifiedName: qname}
}

func TestBuilder_ModuleWithoutRootPackage(t *testing.T) {
	t.Parallel()

	b, _, _ := newTestBuilder(Options{})
	_, err := b.Build(&decl.Decl{Kind: decl.KindModule, Name: "empty", QualifiedName: "empty"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no root package")
}

func TestBuilder_SyntheticExcludedByDefault(t *testing.T) {
	t.Parallel()

	b, _, _ := newTestBuilder(Options{})
	parent := docmodel.NewNode(docmodel.KindPackage, "pkg", "pkg")

	synthetic := fn("gen", "pkg.gen")
	synthetic.Synthetic = true
	node, err := b.Build(synthetic, parent)
	require.NoError(t, err)
	assert.Nil(t, node)
	assert.Empty(t, parent.Children())
}

func TestBuilder_SkipDeprecated_KeepsSiblings(t *testing.T) {
	t.Parallel()

	b, _, _ := newTestBuilder(Options{SkipDeprecated: true})
	parent := docmodel.NewNode(docmodel.KindPackage, "pkg", "pkg")

	old := fn("Old", "pkg.Old")
	old.Deprecated = true
	pkg := &decl.Decl{
		Kind:          decl.KindPackage,
		Name:          "pkg",
		QualifiedName: "pkg",
		Members:       []*decl.Decl{fn("Keep", "pkg.Keep"), old, fn("Also", "pkg.Also")},
	}

	node, err := b.Build(pkg, parent)
	require.NoError(t, err)
	require.NotNil(t, node)

	var names []string
	for _, c := range node.Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Keep", "Also"}, names)
}

func TestBuilder_FilterIdempotent(t *testing.T) {
	t.Parallel()

	// Test: building the same declaration twice with the same options
	// yields structurally identical trees.
	build := func() *docmodel.Node {
		b, _, _ := newTestBuilder(Options{SkipDeprecated: true})
		parent := docmodel.NewNode(docmodel.KindPackage, "pkg", "pkg")
		old := fn("Old", "pkg.Old")
		old.Deprecated = true
		pkg := &decl.Decl{
			Kind:          decl.KindPackage,
			Name:          "pkg",
			QualifiedName: "pkg",
			Members:       []*decl.Decl{fn("Keep", "pkg.Keep"), old},
		}
		node, err := b.Build(pkg, parent)
		require.NoError(t, err)
		return node
	}

	var first, second []string
	build().Walk(func(n *docmodel.Node) { first = append(first, n.Identity) })
	build().Walk(func(n *docmodel.Node) { second = append(second, n.Identity) })
	assert.Equal(t, first, second)
}

func TestBuilder_CallableChildOrder(t *testing.T) {
	t.Parallel()

	b, _, _ := newTestBuilder(Options{})
	parent := docmodel.NewNode(docmodel.KindClass, "Box", "pkg.Box")

	method := &decl.Decl{
		Kind:          decl.KindFunction,
		Name:          "Fill",
		QualifiedName: "pkg.Box.Fill",
		TypeParams: []*decl.Decl{
			{Kind: decl.KindTypeParameter, Name: "T", QualifiedName: "pkg.Box.Fill.T"},
		},
		Receiver: &decl.Decl{Kind: decl.KindReceiver, Name: "b", QualifiedName: "pkg.Box.Fill.b"},
		Params: []*decl.Decl{
			{Kind: decl.KindValueParameter, Name: "item", QualifiedName: "pkg.Box.Fill.item"},
			{Kind: decl.KindValueParameter, Name: "count", QualifiedName: "pkg.Box.Fill.count"},
		},
	}

	node, err := b.Build(method, parent)
	require.NoError(t, err)
	require.NotNil(t, node)

	var kinds []docmodel.NodeKind
	for _, c := range node.Children() {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []docmodel.NodeKind{
		docmodel.KindTypeParameter,
		docmodel.KindReceiver,
		docmodel.KindParameter,
		docmodel.KindParameter,
	}, kinds)
	assert.Equal(t, "item", node.Children()[2].Name)
	assert.Equal(t, "count", node.Children()[3].Name)
}

func TestBuilder_PropertyAccessors(t *testing.T) {
	t.Parallel()

	b, _, _ := newTestBuilder(Options{})
	parent := docmodel.NewNode(docmodel.KindClass, "Box", "pkg.Box")

	prop := &decl.Decl{
		Kind:          decl.KindProperty,
		Name:          "size",
		QualifiedName: "pkg.Box.size",
		Getter:        &decl.Decl{Kind: decl.KindGetter, Name: "Size", QualifiedName: "pkg.Box.size.get"},
		Setter:        &decl.Decl{Kind: decl.KindSetter, Name: "SetSize", QualifiedName: "pkg.Box.size.set"},
	}

	node, err := b.Build(prop, parent)
	require.NoError(t, err)
	require.NotNil(t, node)
	require.Len(t, node.ChildrenOfKind(docmodel.KindGetter), 1)
	require.Len(t, node.ChildrenOfKind(docmodel.KindSetter), 1)
}

func TestBuilder_ClassMembers(t *testing.T) {
	t.Parallel()

	b, g, _ := newTestBuilder(Options{})
	parent := docmodel.NewNode(docmodel.KindPackage, "pkg", "pkg")

	syntheticNested := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindClass,
		Name:          "Inner",
		QualifiedName: "pkg.Outer.Inner",
		Synthetic:     true,
	}
	syntheticObject := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindObject,
		Name:          "Shadow",
		QualifiedName: "pkg.Outer.Shadow",
		Synthetic:     true,
	}
	syntheticMethod := fn("gen", "pkg.Outer.gen")
	syntheticMethod.Synthetic = true

	cls := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindClass,
		Name:          "Outer",
		QualifiedName: "pkg.Outer",
		Supertypes:    []string{"pkg.Base"},
		Members: []*decl.Decl{
			{Kind: decl.KindConstructor, Name: "Outer", QualifiedName: "pkg.Outer.<init>"},
			fn("Do", "pkg.Outer.Do"),
			syntheticMethod,
			syntheticNested,
			syntheticObject,
		},
	}
	base := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindClass,
		Name:          "Base",
		QualifiedName: "pkg.Base",
	}

	node, err := b.Build(cls, parent)
	require.NoError(t, err)
	_, err = b.Build(base, parent)
	require.NoError(t, err)

	// Constructors come first, then surviving members. Nested types stay
	// even when synthetic; synthetic callables and synthetic singleton
	// objects do not.
	var names []string
	for _, c := range node.Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Outer", "Do", "Inner"}, names)

	resolved, dropped := g.ResolveReferences()
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 0, dropped)
	inherits := node.ReferencesOfKind(docmodel.RefInherits)
	require.Len(t, inherits, 1)
	assert.Equal(t, "pkg.Base", inherits[0].To.Identity)
}

func TestBuilder_Companion(t *testing.T) {
	t.Parallel()

	b, g, _ := newTestBuilder(Options{})
	parent := docmodel.NewNode(docmodel.KindPackage, "pkg", "pkg")

	companion := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindObject,
		Name:          "Companion",
		QualifiedName: "pkg.Box.Companion",
		Synthetic:     true,
	}
	cls := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindClass,
		Name:          "Box",
		QualifiedName: "pkg.Box",
		Companion:     companion,
	}

	node, err := b.Build(cls, parent)
	require.NoError(t, err)
	require.NotNil(t, node.Child("Companion"))

	g.ResolveReferences()
	refs := node.ReferencesOfKind(docmodel.RefCompanion)
	require.Len(t, refs, 1)
	assert.Equal(t, "pkg.Box.Companion", refs[0].To.Identity)
}

func TestBuilder_ObjectSkipsCompanion(t *testing.T) {
	t.Parallel()

	b, _, _ := newTestBuilder(Options{})
	parent := docmodel.NewNode(docmodel.KindPackage, "pkg", "pkg")

	obj := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindObject,
		Name:          "Registry",
		QualifiedName: "pkg.Registry",
		Companion: &decl.Decl{
			Kind:          decl.KindClass,
			ClassKind:     decl.ClassKindObject,
			Name:          "Companion",
			QualifiedName: "pkg.Registry.Companion",
		},
	}

	node, err := b.Build(obj, parent)
	require.NoError(t, err)
	assert.Equal(t, docmodel.KindObject, node.Kind)
	assert.Nil(t, node.Child("Companion"))
}

func TestBuilder_ScriptMembersAttachToParent(t *testing.T) {
	t.Parallel()

	b, _, _ := newTestBuilder(Options{})
	moduleNode := docmodel.NewNode(docmodel.KindModule, "mod", "mod")

	script := &decl.Decl{
		Kind:          decl.KindScript,
		Name:          "setup",
		QualifiedName: "setup",
		Members:       []*decl.Decl{fn("Run", "Run")},
	}

	_, err := b.Build(script, moduleNode)
	require.NoError(t, err)

	// The script itself contributes no node.
	require.Len(t, moduleNode.Children(), 1)
	assert.Equal(t, docmodel.KindFunction, moduleNode.Children()[0].Kind)
	assert.Equal(t, "Run", moduleNode.Children()[0].Name)
}

func TestBuilder_ReturnTypeLinkResolves(t *testing.T) {
	t.Parallel()

	b, g, rep := newTestBuilder(Options{})
	parent := docmodel.NewNode(docmodel.KindPackage, "pkg", "pkg")

	widget := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindClass,
		Name:          "Widget",
		QualifiedName: "pkg.Widget",
	}
	maker := fn("New", "pkg.New")
	maker.ReturnType = "pkg.Widget"
	external := fn("Fetch", "pkg.Fetch")
	external.ReturnType = "net/http.Client"

	_, err := b.Build(widget, parent)
	require.NoError(t, err)
	makerNode, err := b.Build(maker, parent)
	require.NoError(t, err)
	_, err = b.Build(external, parent)
	require.NoError(t, err)

	resolved, dropped := g.ResolveReferences()
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, rep.Warnings())

	refs := makerNode.ReferencesOfKind(docmodel.RefReturns)
	require.Len(t, refs, 1)
	assert.Equal(t, "pkg.Widget", refs[0].To.Identity)
}
