// Package generator orchestrates one full documentation build: front ends
// produce declaration fragments, the assembler folds them into one module
// with a shared reference graph, and a renderer writes the output.
package generator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/docsmith/internal/config"
	"github.com/mvp-joe/docsmith/internal/docbuild"
	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/frontend/csrc"
	"github.com/mvp-joe/docsmith/internal/frontend/golang"
	"github.com/mvp-joe/docsmith/internal/includes"
	"github.com/mvp-joe/docsmith/internal/refgraph"
	"github.com/mvp-joe/docsmith/internal/render"
	"github.com/mvp-joe/docsmith/internal/report"
	"github.com/mvp-joe/docsmith/internal/sourcelink"
)

// ProgressReporter reports progress during a build.
type ProgressReporter interface {
	OnBuildStart()
	OnFragmentsDiscovered(total int)
	OnFragmentProcessed(processed, total int, name string)
	OnBuildComplete(packages, symbols, warnings int, duration time.Duration)
}

// Result summarizes one completed build.
type Result struct {
	Module   *docmodel.Module
	Graph    *refgraph.Graph
	Warnings int
	Duration time.Duration
}

// Generator runs documentation builds for one configuration. It may run
// multiple builds (watch mode); parsed interop files are cached across
// rebuilds keyed by path and modification time.
type Generator struct {
	cfg      *config.Config
	reporter report.Reporter
	progress ProgressReporter

	cparser *csrc.Parser
	ccache  otter.Cache[string, *csrc.File]
}

// Option configures a Generator.
type Option func(*Generator)

// WithProgress configures progress reporting.
func WithProgress(progress ProgressReporter) Option {
	return func(g *Generator) {
		g.progress = progress
	}
}

// New creates a generator. The reporter must outlive every build it runs.
func New(cfg *config.Config, rep report.Reporter, opts ...Option) (*Generator, error) {
	cache, err := otter.MustBuilder[string, *csrc.File](256).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create interop cache: %w", err)
	}

	g := &Generator{
		cfg:      cfg,
		reporter: rep,
		cparser:  csrc.NewParser(),
		ccache:   cache,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close releases resources held across builds.
func (g *Generator) Close() {
	g.ccache.Close()
}

// Build runs one full build: traversal, reference resolution, rendering.
// The renderer is resolved first so an unrecognized output format aborts
// before any traversal work happens.
func (g *Generator) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	warningsBefore := g.reporter.Warnings()
	if g.progress != nil {
		g.progress.OnBuildStart()
	}

	renderer, err := render.New(g.cfg.Output.Format, render.Options{
		SourceLinks: sourcelink.ParseAll(g.cfg.Output.SourceLinks, g.reporter),
	})
	if err != nil {
		return nil, err
	}

	includeFile, err := docbuild.SamplesFileFilter(g.cfg.Sources.Samples)
	if err != nil {
		return nil, err
	}

	var pkgDocs *includes.PackageDocs
	if len(g.cfg.Module.Includes) > 0 {
		parser := includes.NewParser(g.cfg.Module.Name)
		pkgDocs, err = parser.Parse(g.cfg.Module.Includes)
		if err != nil {
			return nil, err
		}
	}

	provider := golang.NewProvider(g.cfg.Sources.Root, g.cfg.Sources.Packages, g.reporter, includeFile)
	fragments, err := provider.Fragments(ctx)
	if err != nil {
		return nil, err
	}

	total := len(fragments) + len(g.cfg.Sources.Interop)
	if g.progress != nil {
		g.progress.OnFragmentsDiscovered(total)
	}

	asm := docbuild.NewAssembler(g.cfg.Module.Name, g.reporter, docbuild.Options{
		SkipDeprecated: g.cfg.Filters.SkipDeprecated,
	}, pkgDocs)

	processed := 0
	for _, frag := range fragments {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := asm.AddFragment(frag); err != nil {
			return nil, err
		}
		processed++
		if g.progress != nil {
			g.progress.OnFragmentProcessed(processed, total, frag.PackageName)
		}
	}

	for _, path := range g.cfg.Sources.Interop {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		f, err := g.interopFile(ctx, path)
		if err != nil {
			g.reporter.Warningf("skipping interop file %s: %v", path, err)
			continue
		}
		if err := asm.AddInteropFile(f); err != nil {
			return nil, err
		}
		processed++
		if g.progress != nil {
			g.progress.OnFragmentProcessed(processed, total, path)
		}
	}

	module := asm.Finalize()

	if err := renderer.Render(ctx, module, g.cfg.Output.Dir); err != nil {
		return nil, fmt.Errorf("failed to render %s output: %w", g.cfg.Output.Format, err)
	}

	symbols := 0
	module.Walk(func(*docmodel.Node) { symbols++ })

	result := &Result{
		Module:   module,
		Graph:    asm.Graph(),
		Warnings: g.reporter.Warnings() - warningsBefore,
		Duration: time.Since(start),
	}
	if g.progress != nil {
		g.progress.OnBuildComplete(len(module.Packages()), symbols, result.Warnings, result.Duration)
	}
	return result, nil
}

// interopFile parses a C file, reusing the cached parse when the file has
// not changed since the previous build.
func (g *Generator) interopFile(ctx context.Context, path string) (*csrc.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s@%d", path, info.ModTime().UnixNano())

	if cached, ok := g.ccache.Get(key); ok {
		return cached, nil
	}

	f, err := g.cparser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	g.ccache.Set(key, f)
	return f, nil
}
