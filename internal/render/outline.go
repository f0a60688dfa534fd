package render

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp-joe/docsmith/internal/docmodel"
)

// outlineEntry is the JSON shape of one documentation node.
type outlineEntry struct {
	Kind       string              `json:"kind"`
	Name       string              `json:"name"`
	Identity   string              `json:"identity"`
	Signature  string              `json:"signature,omitempty"`
	Deprecated bool                `json:"deprecated,omitempty"`
	Content    string              `json:"content,omitempty"`
	File       string              `json:"file,omitempty"`
	StartLine  int                 `json:"start_line,omitempty"`
	References map[string][]string `json:"references,omitempty"`
	Children   []*outlineEntry     `json:"children,omitempty"`
}

// outlineRenderer dumps the full tree as one JSON document for downstream
// outline consumers.
type outlineRenderer struct{}

func (r *outlineRenderer) Render(ctx context.Context, module *docmodel.Module, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := toEntry(module.Node)
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}

	path := filepath.Join(outDir, "outline.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write outline: %w", err)
	}
	return nil
}

func toEntry(n *docmodel.Node) *outlineEntry {
	e := &outlineEntry{
		Kind:       string(n.Kind),
		Name:       n.Name,
		Identity:   n.Identity,
		Signature:  n.Signature,
		Deprecated: n.Deprecated,
		Content:    n.Content.TestString(),
		File:       n.File,
		StartLine:  n.StartLine,
	}
	for _, ref := range n.References() {
		if e.References == nil {
			e.References = make(map[string][]string)
		}
		e.References[string(ref.Kind)] = append(e.References[string(ref.Kind)], ref.To.Identity)
	}
	for _, c := range n.Children() {
		e.Children = append(e.Children, toEntry(c))
	}
	return e
}
