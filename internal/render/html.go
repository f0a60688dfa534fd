package render

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/sourcelink"
)

const htmlPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{with .Content}}<p>{{.}}</p>{{end}}
{{range .Symbols}}
<section>
<h2 id="{{.Identity}}">{{.Name}} <small>{{.Kind}}</small></h2>
{{if .Deprecated}}<p><strong>Deprecated.</strong></p>{{end}}
{{with .Signature}}<pre><code>{{.}}</code></pre>{{end}}
{{with .Content}}<p>{{.}}</p>{{end}}
{{with .SourceURL}}<p><a href="{{.}}">View source</a></p>{{end}}
{{range .Members}}
<h3 id="{{.Identity}}">{{.Name}} <small>{{.Kind}}</small></h3>
{{if .Deprecated}}<p><strong>Deprecated.</strong></p>{{end}}
{{with .Signature}}<pre><code>{{.}}</code></pre>{{end}}
{{with .Content}}<p>{{.}}</p>{{end}}
{{end}}
</section>
{{end}}
{{with .Packages}}
<h2>Packages</h2>
<ul>
{{range .}}<li><a href="{{.Href}}">{{.Name}}</a></li>{{end}}
</ul>
{{end}}
</body>
</html>
`

type htmlSymbol struct {
	Name       string
	Kind       string
	Identity   string
	Signature  string
	Content    string
	SourceURL  string
	Deprecated bool
	Members    []*htmlSymbol
}

type htmlPageData struct {
	Title    string
	Content  string
	Symbols  []*htmlSymbol
	Packages []struct{ Name, Href string }
}

// htmlRenderer writes one HTML page per package plus an index page.
type htmlRenderer struct {
	opts Options
	tmpl *template.Template
}

func (r *htmlRenderer) Render(ctx context.Context, module *docmodel.Module, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	r.tmpl, err = template.New("page").Parse(htmlPage)
	if err != nil {
		return fmt.Errorf("failed to parse page template: %w", err)
	}

	index := htmlPageData{
		Title:   module.Name,
		Content: module.Content.TestString(),
	}

	for _, pkg := range sortedPackages(module) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		href := packagePath(pkg.Name) + ".html"
		index.Packages = append(index.Packages, struct{ Name, Href string }{pkg.Name, href})

		data := htmlPageData{
			Title:   "Package " + pkg.Name,
			Content: pkg.Content.TestString(),
		}
		for _, child := range pkg.Children() {
			data.Symbols = append(data.Symbols, r.toSymbol(child))
		}
		if err := r.writePage(filepath.Join(outDir, href), data); err != nil {
			return err
		}
	}

	return r.writePage(filepath.Join(outDir, "index.html"), index)
}

func (r *htmlRenderer) writePage(path string, data htmlPageData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := r.tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

func (r *htmlRenderer) toSymbol(n *docmodel.Node) *htmlSymbol {
	s := &htmlSymbol{
		Name:       n.Name,
		Kind:       string(n.Kind),
		Identity:   n.Identity,
		Signature:  n.Signature,
		Content:    n.Content.TestString(),
		SourceURL:  sourcelink.Resolve(r.opts.SourceLinks, n.File, n.StartLine),
		Deprecated: n.Deprecated,
	}
	for _, c := range n.Children() {
		switch c.Kind {
		case docmodel.KindParameter, docmodel.KindTypeParameter, docmodel.KindReceiver:
			continue
		}
		s.Members = append(s.Members, r.toSymbol(c))
	}
	return s
}
