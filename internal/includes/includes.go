// Package includes parses externally authored documentation include files
// and associates blocks of prose with a package name or with the module
// itself. Level-1 headings name packages; everything else, deeper headings
// included, is prose belonging to the current package.
package includes

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mvp-joe/docsmith/internal/docmodel"
)

// PackageDocs is the transient parse result: per-package prose plus one
// module-level content block. It is consumed once by module assembly.
type PackageDocs struct {
	moduleContent *docmodel.Content
	packages      map[string]*docmodel.Content
	order         []string
}

// ModuleContent returns prose that appeared before any package heading.
func (p *PackageDocs) ModuleContent() *docmodel.Content {
	return p.moduleContent
}

// PackageContent returns the accumulated prose for a package, or nil.
func (p *PackageDocs) PackageContent(name string) *docmodel.Content {
	return p.packages[name]
}

// PackageNames returns the package names seen in headings, in first-seen
// order across all include files.
func (p *PackageDocs) PackageNames() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p *PackageDocs) target(pkg string) *docmodel.Content {
	if pkg == "" {
		return p.moduleContent
	}
	c, ok := p.packages[pkg]
	if !ok {
		c = &docmodel.Content{}
		p.packages[pkg] = c
		p.order = append(p.order, pkg)
	}
	return c
}

// Parser parses include files into PackageDocs.
type Parser struct {
	moduleName string
	md         goldmark.Markdown
}

// NewParser creates an include-file parser. Headings whose text equals
// moduleName contribute to module-level content instead of a package.
func NewParser(moduleName string) *Parser {
	return &Parser{
		moduleName: moduleName,
		md:         goldmark.New(),
	}
}

// Parse reads every include file in order and accumulates content. Multiple
// files may contribute to the same package; content is concatenated in file
// order, never overwritten.
func (p *Parser) Parse(paths []string) (*PackageDocs, error) {
	docs := &PackageDocs{
		moduleContent: &docmodel.Content{},
		packages:      make(map[string]*docmodel.Content),
	}

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read include file: %w", err)
		}
		if err := p.parseFile(docs, src); err != nil {
			return nil, fmt.Errorf("failed to parse include file %s: %w", path, err)
		}
	}

	return docs, nil
}

// parseFile walks one file's block structure. Prose before the first
// level-1 heading is module content; prose after one belongs to the named
// package until the next.
func (p *Parser) parseFile(docs *PackageDocs, src []byte) error {
	root := p.md.Parser().Parse(text.NewReader(src))

	current := "" // "" targets the module content block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			// Only level-1 headings name a package; deeper headings are
			// structure within the current target's prose.
			if node.Level > 1 {
				if block := blockContent(n, src); block != nil {
					docs.target(current).Append(block)
				}
				continue
			}
			name := strings.TrimSpace(string(node.Text(src)))
			name = strings.TrimPrefix(name, "Package ")
			if name == p.moduleName || strings.TrimPrefix(name, "Module ") == p.moduleName {
				current = ""
				continue
			}
			current = name
		default:
			block := blockContent(n, src)
			if block != nil {
				docs.target(current).Append(block)
			}
		}
	}
	return nil
}

// blockContent converts one top-level block into a content node, keeping
// inline emphasis and flattening everything else to plain text.
func blockContent(n ast.Node, src []byte) docmodel.ContentNode {
	para := &docmodel.Paragraph{}
	if n.Type() == ast.TypeBlock && n.ChildCount() > 0 {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			appendInline(para, c, src)
		}
	} else {
		t := strings.TrimSpace(string(n.Text(src)))
		if t == "" {
			return nil
		}
		para.Children = append(para.Children, docmodel.Text(t))
	}
	if len(para.Children) == 0 {
		return nil
	}
	return para
}

// appendInline maps goldmark inline nodes onto the content model.
func appendInline(para *docmodel.Paragraph, n ast.Node, src []byte) {
	switch v := n.(type) {
	case *ast.Emphasis:
		em := &docmodel.Emphasis{}
		for c := v.FirstChild(); c != nil; c = c.NextSibling() {
			em.Children = append(em.Children, docmodel.Text(string(c.Text(src))))
		}
		para.Children = append(para.Children, em)
	case *ast.Text:
		t := string(v.Segment.Value(src))
		if t != "" {
			para.Children = append(para.Children, docmodel.Text(t))
		}
		if v.SoftLineBreak() || v.HardLineBreak() {
			para.Children = append(para.Children, docmodel.Text("\n"))
		}
	default:
		t := string(n.Text(src))
		if t != "" {
			para.Children = append(para.Children, docmodel.Text(t))
		}
	}
}
