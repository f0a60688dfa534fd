// Package render turns a finished, reference-resolved documentation module
// into output artifacts. Renderers are thin consumers: they never mutate
// the tree and rely on module assembly having resolved all references.
package render

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/sourcelink"
)

// Renderer writes one output format for a documentation module.
type Renderer interface {
	// Render writes the module's documentation under outDir.
	Render(ctx context.Context, module *docmodel.Module, outDir string) error
}

// Options carries cross-format rendering configuration.
type Options struct {
	SourceLinks []sourcelink.Definition
}

// Formats lists the supported output format names.
func Formats() []string {
	return []string{"markdown", "html", "json", "search-index", "docset"}
}

// New returns the renderer for the named format. An unrecognized format is
// a fatal build-configuration error surfaced before any traversal output.
func New(format string, opts Options) (Renderer, error) {
	switch format {
	case "markdown":
		return &markdownRenderer{opts: opts}, nil
	case "html":
		return &htmlRenderer{opts: opts}, nil
	case "json":
		return &outlineRenderer{}, nil
	case "search-index":
		return &searchIndexRenderer{}, nil
	case "docset":
		return &docsetRenderer{}, nil
	default:
		return nil, fmt.Errorf("unrecognized output format %q (supported: %s)",
			format, strings.Join(Formats(), ", "))
	}
}

// sortedPackages returns package nodes sorted by name for stable page
// order. Display sorting happens here, never in the core traversal.
func sortedPackages(module *docmodel.Module) []*docmodel.Node {
	pkgs := module.Packages()
	sorted := make([]*docmodel.Node, len(pkgs))
	copy(sorted, pkgs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// packagePath flattens a qualified package name into a file-safe name.
func packagePath(name string) string {
	return strings.NewReplacer("/", "-", ".", "-").Replace(name)
}

// contentMarkdown renders content blocks as markdown: emphasis maps onto
// *...* and paragraphs onto blank-line separation, which is exactly the
// content model's test-string form.
func contentMarkdown(c *docmodel.Content) string {
	return c.TestString()
}
