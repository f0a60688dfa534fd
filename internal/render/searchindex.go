package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/mvp-joe/docsmith/internal/docmodel"
)

// searchDoc is what gets indexed per documented symbol.
type searchDoc struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Package   string `json:"package"`
	Signature string `json:"signature"`
	Content   string `json:"content"`
}

// searchIndexRenderer writes a bleve full-text index over the finished
// documentation tree so generated sites can serve search.
type searchIndexRenderer struct{}

func (r *searchIndexRenderer) Render(ctx context.Context, module *docmodel.Module, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	indexPath := filepath.Join(outDir, "search.bleve")
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to clear previous index: %w", err)
	}

	index, err := bleve.New(indexPath, buildSearchMapping())
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}
	defer index.Close()

	batch := index.NewBatch()

	for _, pkg := range module.Packages() {
		pkg.Walk(func(n *docmodel.Node) {
			switch n.Kind {
			case docmodel.KindParameter, docmodel.KindTypeParameter, docmodel.KindReceiver:
				return
			}
			doc := searchDoc{
				Name:      n.Name,
				Kind:      string(n.Kind),
				Package:   pkg.Name,
				Signature: n.Signature,
				Content:   n.Content.TestString(),
			}
			_ = batch.Index(n.Identity, doc)
		})
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index documents: %w", err)
	}
	return nil
}

// buildSearchMapping builds the field mapping: names boosted as keywords,
// content analyzed as prose.
func buildSearchMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = "standard"
	docMapping.AddFieldMappingsAt("name", nameField)

	kindField := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("kind", kindField)
	docMapping.AddFieldMappingsAt("package", bleve.NewKeywordFieldMapping())

	contentField := bleve.NewTextFieldMapping()
	docMapping.AddFieldMappingsAt("content", contentField)
	docMapping.AddFieldMappingsAt("signature", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
