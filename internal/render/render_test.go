package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/sourcelink"
)

// Test Plan for rendering:
// - New fails on an unrecognized format, naming the supported set
// - New returns a renderer for every advertised format
// - Markdown writes an index plus one page per package, sorted by name
// - Markdown pages carry signatures, deprecation markers, and source links
// - JSON outline round-trips the tree shape including reference identities
// - HTML writes an index and per-package pages

func testModule() *docmodel.Module {
	m := docmodel.NewModule("demo")
	m.Content.Append(docmodel.Text("Demo module."))

	pkg := docmodel.NewNode(docmodel.KindPackage, "store", "store")
	m.AppendChild(pkg)

	cls := docmodel.NewNode(docmodel.KindClass, "Widget", "store.Widget")
	cls.File = "src/store/widget.go"
	cls.StartLine = 10
	pkg.AppendChild(cls)

	fn := docmodel.NewNode(docmodel.KindFunction, "Open", "store.Open")
	fn.Signature = "func Open(path string) (*Widget, error)"
	fn.Deprecated = true
	fn.AddReference(docmodel.RefReturns, cls)
	pkg.AppendChild(fn)

	other := docmodel.NewNode(docmodel.KindPackage, "cache", "cache")
	m.AppendChild(other)

	return m
}

func TestNew_UnrecognizedFormat(t *testing.T) {
	t.Parallel()

	_, err := New("pdf", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized output format")
	assert.Contains(t, err.Error(), "markdown")
}

func TestNew_SupportedFormats(t *testing.T) {
	t.Parallel()

	for _, format := range Formats() {
		r, err := New(format, Options{})
		require.NoError(t, err, "format %s", format)
		assert.NotNil(t, r)
	}
}

func TestMarkdown_Render(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	r, err := New("markdown", Options{
		SourceLinks: []sourcelink.Definition{
			{PathPrefix: "src", URL: "https://example.com/blob/main", LineSuffix: "#L"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, r.Render(context.Background(), testModule(), outDir))

	index, err := os.ReadFile(filepath.Join(outDir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "# demo")
	assert.Contains(t, string(index), "Demo module.")
	// Packages sort by name for stable output.
	assert.Less(t,
		strings.Index(string(index), "[cache]"),
		strings.Index(string(index), "[store]"))

	page, err := os.ReadFile(filepath.Join(outDir, "store.md"))
	require.NoError(t, err)
	body := string(page)
	assert.Contains(t, body, "# Package store")
	assert.Contains(t, body, "### Widget")
	assert.Contains(t, body, "func Open(path string) (*Widget, error)")
	assert.Contains(t, body, "**Deprecated.**")
	assert.Contains(t, body, "https://example.com/blob/main/store/widget.go#L10")
}

func TestOutline_Render(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	r, err := New("json", Options{})
	require.NoError(t, err)
	require.NoError(t, r.Render(context.Background(), testModule(), outDir))

	data, err := os.ReadFile(filepath.Join(outDir, "outline.json"))
	require.NoError(t, err)

	var root outlineEntry
	require.NoError(t, json.Unmarshal(data, &root))
	assert.Equal(t, "module", root.Kind)
	assert.Equal(t, "demo", root.Name)
	require.Len(t, root.Children, 2)

	store := root.Children[0]
	require.Equal(t, "store", store.Name)
	require.Len(t, store.Children, 2)
	open := store.Children[1]
	assert.Equal(t, "Open", open.Name)
	assert.True(t, open.Deprecated)
	assert.Equal(t, []string{"store.Widget"}, open.References["returns-type"])
}

func TestHTML_Render(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	r, err := New("html", Options{})
	require.NoError(t, err)
	require.NoError(t, r.Render(context.Background(), testModule(), outDir))

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "demo")

	_, err = os.Stat(filepath.Join(outDir, "store.html"))
	require.NoError(t, err)
}
