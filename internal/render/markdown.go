package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/sourcelink"
)

// markdownRenderer writes one index page plus one page per package.
type markdownRenderer struct {
	opts Options
}

func (r *markdownRenderer) Render(ctx context.Context, module *docmodel.Module, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var index strings.Builder
	fmt.Fprintf(&index, "# %s\n\n", module.Name)
	if !module.Content.IsEmpty() {
		index.WriteString(contentMarkdown(module.Content))
		index.WriteString("\n\n")
	}
	index.WriteString("## Packages\n\n")

	for _, pkg := range sortedPackages(module) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		page := packagePath(pkg.Name) + ".md"
		fmt.Fprintf(&index, "- [%s](%s)\n", pkg.Name, page)

		body := r.packagePage(pkg)
		if err := os.WriteFile(filepath.Join(outDir, page), []byte(body), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", page, err)
		}
	}

	if err := os.WriteFile(filepath.Join(outDir, "index.md"), []byte(index.String()), 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

func (r *markdownRenderer) packagePage(pkg *docmodel.Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Package %s\n\n", pkg.Name)
	if !pkg.Content.IsEmpty() {
		sb.WriteString(contentMarkdown(pkg.Content))
		sb.WriteString("\n\n")
	}

	types := collectKinds(pkg, docmodel.KindClass, docmodel.KindInterface, docmodel.KindObject)
	if len(types) > 0 {
		sb.WriteString("## Types\n\n")
		for _, t := range types {
			r.symbol(&sb, t, 3)
		}
	}

	funcs := pkg.ChildrenOfKind(docmodel.KindFunction)
	if len(funcs) > 0 {
		sb.WriteString("## Functions\n\n")
		for _, f := range funcs {
			r.symbol(&sb, f, 3)
		}
	}

	values := collectKinds(pkg, docmodel.KindProperty, docmodel.KindVariable)
	if len(values) > 0 {
		sb.WriteString("## Values\n\n")
		for _, v := range values {
			r.symbol(&sb, v, 3)
		}
	}

	return sb.String()
}

// symbol writes one node followed by its documented members.
func (r *markdownRenderer) symbol(sb *strings.Builder, n *docmodel.Node, level int) {
	fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", level), n.Name)
	if n.Deprecated {
		sb.WriteString("**Deprecated.**\n\n")
	}
	if n.Signature != "" {
		fmt.Fprintf(sb, "```\n%s\n```\n\n", n.Signature)
	}
	if !n.Content.IsEmpty() {
		sb.WriteString(contentMarkdown(n.Content))
		sb.WriteString("\n\n")
	}

	for _, ref := range n.ReferencesOfKind(docmodel.RefInherits) {
		fmt.Fprintf(sb, "Inherits: `%s`\n\n", ref.To.Identity)
	}
	for _, ref := range n.ReferencesOfKind(docmodel.RefOverrides) {
		fmt.Fprintf(sb, "Overrides: `%s`\n\n", ref.To.Identity)
	}

	if url := sourcelink.Resolve(r.opts.SourceLinks, n.File, n.StartLine); url != "" {
		fmt.Fprintf(sb, "[View source](%s)\n\n", url)
	}

	for _, child := range n.Children() {
		switch child.Kind {
		case docmodel.KindFunction, docmodel.KindConstructor, docmodel.KindProperty,
			docmodel.KindClass, docmodel.KindInterface, docmodel.KindObject:
			r.symbol(sb, child, min(level+1, 6))
		case docmodel.KindGetter, docmodel.KindSetter:
			fmt.Fprintf(sb, "- %s `%s`\n\n", child.Kind, child.Signature)
		}
	}
}

func collectKinds(pkg *docmodel.Node, kinds ...docmodel.NodeKind) []*docmodel.Node {
	var out []*docmodel.Node
	for _, c := range pkg.Children() {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
