// Package golang is the primary semantic front end: it loads resolved Go
// packages and maps their declarations onto the decl model consumed by the
// documentation builder.
package golang

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/mvp-joe/docsmith/internal/decl"
	"github.com/mvp-joe/docsmith/internal/docbuild"
	"github.com/mvp-joe/docsmith/internal/report"
)

// Provider loads Go packages under a root directory and exposes them as
// declaration fragments, one per package.
type Provider struct {
	rootDir     string
	patterns    []string
	reporter    report.Reporter
	includeFile docbuild.FilePredicate
}

// NewProvider creates a provider for the module rooted at rootDir.
// includeFile may be nil; patterns defaults to "./...".
func NewProvider(rootDir string, patterns []string, rep report.Reporter, includeFile docbuild.FilePredicate) *Provider {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	return &Provider{
		rootDir:     rootDir,
		patterns:    patterns,
		reporter:    rep,
		includeFile: includeFile,
	}
}

// Fragments loads and converts every matched package. Package load errors
// are reported as warnings; packages with usable syntax still contribute.
func (p *Provider) Fragments(ctx context.Context) ([]*decl.Fragment, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo,
		Dir:     p.rootDir,
		Context: ctx,
	}

	pkgs, err := packages.Load(cfg, p.patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found under %s", p.rootDir)
	}

	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			p.reporter.Report(report.SeverityWarning, pkgErr.Msg,
				&report.Location{File: pkgErr.Pos})
		}
	}

	var fragments []*decl.Fragment
	for _, pkg := range pkgs {
		if len(pkg.Syntax) == 0 {
			continue
		}
		frag := p.convertPackage(pkg)
		if frag != nil {
			fragments = append(fragments, frag)
		}
	}
	return fragments, nil
}

// convertPackage builds one fragment holding the whole package: methods may
// live in a different file than their receiver type, so conversion works at
// package granularity.
func (p *Provider) convertPackage(pkg *packages.Package) *decl.Fragment {
	conv := &converter{
		pkg:     pkg,
		fset:    pkg.Fset,
		classes: make(map[string]*decl.Decl),
	}

	root := &decl.Decl{
		Kind:          decl.KindPackage,
		Name:          pkg.Name,
		QualifiedName: pkg.PkgPath,
	}

	for _, file := range pkg.Syntax {
		path := p.position(pkg.Fset, file.Pos()).Filename
		if p.includeFile != nil && !p.includeFile(path) {
			continue
		}
		if isGenerated(file) {
			continue
		}
		conv.collectTypes(file)
	}

	for _, file := range pkg.Syntax {
		path := p.position(pkg.Fset, file.Pos()).Filename
		if p.includeFile != nil && !p.includeFile(path) {
			continue
		}
		if isGenerated(file) {
			continue
		}
		conv.collectMembers(file, root)
	}

	conv.attachAccessors()

	if len(root.Members) == 0 {
		return nil
	}
	firstFile := ""
	if len(pkg.GoFiles) > 0 {
		firstFile = pkg.GoFiles[0]
	}
	return &decl.Fragment{
		PackageName: pkg.PkgPath,
		File:        firstFile,
		Root:        root,
	}
}

func (p *Provider) position(fset *token.FileSet, pos token.Pos) token.Position {
	return fset.Position(pos)
}

// isGenerated reports whether a file carries the standard generated-code
// marker. Generated declarations are not user code.
func isGenerated(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			break
		}
		for _, c := range group.List {
			if strings.HasPrefix(c.Text, "// Code generated ") &&
				strings.HasSuffix(strings.TrimSpace(c.Text), "DO NOT EDIT.") {
				return true
			}
		}
	}
	return false
}

// isDeprecated reports whether a doc comment carries a "Deprecated:" line.
func isDeprecated(doc string) bool {
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "Deprecated:") {
			return true
		}
	}
	return false
}
