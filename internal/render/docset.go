package render

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/docsmith/internal/docmodel"
)

// docsetRenderer writes a Dash-style docset index: markdown pages plus a
// sqlite searchIndex table pointing into them.
type docsetRenderer struct{}

// dashType maps node kinds onto Dash entry types.
var dashType = map[docmodel.NodeKind]string{
	docmodel.KindPackage:     "Package",
	docmodel.KindClass:       "Class",
	docmodel.KindInterface:   "Interface",
	docmodel.KindObject:      "Object",
	docmodel.KindFunction:    "Function",
	docmodel.KindConstructor: "Constructor",
	docmodel.KindProperty:    "Property",
	docmodel.KindVariable:    "Variable",
}

func (r *docsetRenderer) Render(ctx context.Context, module *docmodel.Module, outDir string) error {
	docsDir := filepath.Join(outDir, "Contents", "Resources", "Documents")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		return fmt.Errorf("failed to create docset layout: %w", err)
	}

	md := &markdownRenderer{}
	if err := md.Render(ctx, module, docsDir); err != nil {
		return fmt.Errorf("failed to render docset pages: %w", err)
	}

	dbPath := filepath.Join(outDir, "Contents", "Resources", "docSet.dsidx")
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear previous docset index: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open docset index: %w", err)
	}
	defer db.Close()

	const schema = `
CREATE TABLE searchIndex(id INTEGER PRIMARY KEY, name TEXT, type TEXT, path TEXT);
CREATE UNIQUE INDEX anchor ON searchIndex (name, type, path);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create searchIndex table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin docset transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO searchIndex(name, type, path) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, pkg := range module.Packages() {
		page := packagePath(pkg.Name) + ".md"
		var insertErr error
		pkg.Walk(func(n *docmodel.Node) {
			if insertErr != nil {
				return
			}
			entryType, ok := dashType[n.Kind]
			if !ok {
				return
			}
			if _, err := stmt.ExecContext(ctx, n.Identity, entryType, page); err != nil {
				insertErr = err
			}
		})
		if insertErr != nil {
			return fmt.Errorf("failed to index package %s: %w", pkg.Name, insertErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit docset index: %w", err)
	}
	return nil
}
