// Package refgraph decouples documentation node construction order from
// cross-reference resolution. Nodes register their qualified identity as
// they are built; references may name identities that have not been
// registered yet and are resolved in one pass once traversal completes.
package refgraph

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/report"
)

// pendingRef is a reference recorded during traversal, before its target
// is known to exist.
type pendingRef struct {
	from     *docmodel.Node
	to       string
	kind     docmodel.RefKind
	location *report.Location
}

// Graph maps qualified identities to documentation nodes and accumulates
// pending references until ResolveReferences runs. It is plain state passed
// through a build, never shared between builds.
type Graph struct {
	reporter report.Reporter

	nodes    map[string]*docmodel.Node
	order    []string
	pending  []pendingRef
	resolved bool

	edges graph.Graph[string, *docmodel.Node]
}

// New creates an empty reference graph reporting through rep.
func New(rep report.Reporter) *Graph {
	return &Graph{
		reporter: rep,
		nodes:    make(map[string]*docmodel.Node),
		edges: graph.New(func(n *docmodel.Node) string {
			return n.Identity
		}, graph.Directed()),
	}
}

// Register records identity -> node. Duplicate identities keep the first
// registration and surface a warning: a duplicate indicates an upstream
// resolution ambiguity, not a condition this layer can repair.
func (g *Graph) Register(identity string, node *docmodel.Node) {
	if identity == "" {
		g.reporter.Warningf("refusing to register node %q with empty identity", node.Name)
		return
	}
	if existing, ok := g.nodes[identity]; ok {
		g.reporter.Report(report.SeverityWarning,
			fmt.Sprintf("duplicate qualified identity %q (keeping %s, dropping %s)",
				identity, existing.Kind, node.Kind),
			&report.Location{File: node.File, Line: node.StartLine})
		return
	}
	g.nodes[identity] = node
	g.order = append(g.order, identity)
}

// Node returns the node registered under identity, or nil.
func (g *Graph) Node(identity string) *docmodel.Node {
	return g.nodes[identity]
}

// Link records a pending reference from a node to a target identity. The
// target does not need to be registered yet.
func (g *Graph) Link(from *docmodel.Node, toIdentity string, kind docmodel.RefKind) {
	g.pending = append(g.pending, pendingRef{
		from: from,
		to:   toIdentity,
		kind: kind,
		location: &report.Location{
			File: from.File,
			Line: from.StartLine,
		},
	})
}

// ResolveReferences drains every pending reference, attaching a typed edge
// where the target identity was registered and dropping (with a warning)
// references to identities outside the documented module. It must run
// exactly once, after all traversal; a second call is a no-op.
// Returns the number of resolved and dropped references.
func (g *Graph) ResolveReferences() (resolved, dropped int) {
	if g.resolved {
		return 0, 0
	}
	g.resolved = true

	for _, id := range g.order {
		_ = g.edges.AddVertex(g.nodes[id])
	}

	for _, ref := range g.pending {
		target, ok := g.nodes[ref.to]
		if !ok {
			dropped++
			g.reporter.Report(report.SeverityWarning,
				fmt.Sprintf("unresolved %s reference to %q", ref.kind, ref.to),
				ref.location)
			continue
		}
		ref.from.AddReference(ref.kind, target)
		resolved++

		if ref.from.Identity == "" || ref.from.Identity == ref.to {
			continue
		}
		_ = g.edges.AddVertex(ref.from)
		err := g.edges.AddEdge(ref.from.Identity, ref.to,
			graph.EdgeAttribute("kind", string(ref.kind)))
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			g.reporter.Warningf("reference edge %s -> %s: %v", ref.from.Identity, ref.to, err)
		}
	}

	g.pending = nil
	return resolved, dropped
}

// Resolved reports whether ResolveReferences has run.
func (g *Graph) Resolved() bool {
	return g.resolved
}

// Identities returns all registered identities in registration order.
func (g *Graph) Identities() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Edges exposes the resolved cross-reference graph for consumers such as
// renderers. Only meaningful after ResolveReferences.
func (g *Graph) Edges() graph.Graph[string, *docmodel.Node] {
	return g.edges
}
