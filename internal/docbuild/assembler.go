package docbuild

import (
	"fmt"

	"github.com/mvp-joe/docsmith/internal/decl"
	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/frontend/csrc"
	"github.com/mvp-joe/docsmith/internal/includes"
	"github.com/mvp-joe/docsmith/internal/refgraph"
	"github.com/mvp-joe/docsmith/internal/report"
)

// Assembler orchestrates one full documentation build: it runs the primary
// builder over every fragment, the host-language builder over interop
// files, attaches externally authored package docs, and finally resolves
// the reference graph exactly once.
type Assembler struct {
	module   *docmodel.Module
	graph    *refgraph.Graph
	reporter report.Reporter
	builder  *Builder
	cbuilder *CBuilder
	pkgDocs  *includes.PackageDocs

	visited   map[string]bool // package names that had at least one fragment
	finalized bool
}

// NewAssembler creates an assembler for one module build. pkgDocs may be
// nil when no include files are configured.
func NewAssembler(moduleName string, rep report.Reporter, opts Options, pkgDocs *includes.PackageDocs) *Assembler {
	g := refgraph.New(rep)
	module := docmodel.NewModule(moduleName)
	g.Register(module.Identity, module.Node)

	a := &Assembler{
		module:   module,
		graph:    g,
		reporter: rep,
		builder:  NewBuilder(g, rep, opts),
		cbuilder: NewCBuilder(g, rep, "C"),
		pkgDocs:  pkgDocs,
		visited:  make(map[string]bool),
	}
	if pkgDocs != nil && !pkgDocs.ModuleContent().IsEmpty() {
		module.Content.Append(pkgDocs.ModuleContent().Nodes()...)
	}
	return a
}

// Graph exposes the reference graph accumulated by this build.
func (a *Assembler) Graph() *refgraph.Graph {
	return a.graph
}

// Module returns the documentation module under construction. Before
// Finalize the tree's cross-references are incomplete.
func (a *Assembler) Module() *docmodel.Module {
	return a.module
}

// AddFragment runs the primary builder over one compilation unit's
// declaration set. Fragments sharing a package name accumulate under one
// package node.
func (a *Assembler) AddFragment(frag *decl.Fragment) error {
	if a.finalized {
		return fmt.Errorf("cannot add fragment %q after finalize", frag.File)
	}
	if frag.Root == nil {
		return fmt.Errorf("fragment %q has no root declaration", frag.File)
	}

	if frag.Root.Kind == decl.KindScript {
		_, err := a.builder.Build(frag.Root, a.module.Node)
		return err
	}

	pkgNode := a.packageNode(frag.PackageName)
	for _, m := range frag.Root.Members {
		if _, err := a.builder.Build(m, pkgNode); err != nil {
			return fmt.Errorf("fragment %s: %w", frag.File, err)
		}
	}
	return nil
}

// AddInteropFile runs the host-language builder over one C file. Interop
// symbols share the module and reference graph with primary symbols, so
// references across the language boundary resolve.
func (a *Assembler) AddInteropFile(f *csrc.File) error {
	if a.finalized {
		return fmt.Errorf("cannot add interop file %q after finalize", f.Path)
	}
	pkgNode := a.packageNode(a.cbuilder.PackageName())
	return a.cbuilder.Build(f, pkgNode)
}

// packageNode returns the package node for name, creating and registering
// it on first use. Externally authored content is attached at creation, so
// attachment is insensitive to include-vs-traversal ordering.
func (a *Assembler) packageNode(name string) *docmodel.Node {
	a.visited[name] = true
	if existing := a.module.Package(name); existing != nil {
		return existing
	}
	node := docmodel.NewNode(docmodel.KindPackage, name, name)
	if a.pkgDocs != nil {
		if content := a.pkgDocs.PackageContent(name); content != nil {
			node.Content.Append(content.Nodes()...)
		}
	}
	a.graph.Register(name, node)
	a.module.AppendChild(node)
	return node
}

// Finalize resolves cross-references and reports include headings that
// never matched a visited package. It must be called exactly once, after
// all fragments are added; a second call is a no-op.
func (a *Assembler) Finalize() *docmodel.Module {
	if a.finalized {
		return a.module
	}
	a.finalized = true

	if a.pkgDocs != nil {
		for _, name := range a.pkgDocs.PackageNames() {
			if !a.visited[name] {
				a.reporter.Warningf("include file documents package %q, but no such package was found in sources", name)
			}
		}
	}

	resolved, dropped := a.graph.ResolveReferences()
	a.reporter.Report(report.SeverityInfo,
		fmt.Sprintf("resolved %d references, dropped %d unresolved", resolved, dropped), nil)

	return a.module
}
