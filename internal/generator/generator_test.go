package generator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/docsmith/internal/config"
	"github.com/mvp-joe/docsmith/internal/report"
)

// Test Plan for the generator:
// - A full build produces a module, a resolved graph, and rendered output
// - Interop sources document under the C package and link from Go symbols
// - Include prose lands on module and package nodes
// - An unrecognized output format fails before any traversal or output
// - Unreadable interop files warn and skip instead of failing the build
// - Context cancellation aborts the build

func testReporter() report.Reporter {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return report.New(log)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write(t, filepath.Join(dir, "go.mod"), "module example.com/fixture\n\ngo 1.21\n")
	write(t, filepath.Join(dir, "lib", "lib.go"), `// Package lib is the fixture package.
package lib

// Thing is a fixture type.
type Thing struct{}

// Make creates a Thing.
func Make() *Thing { return &Thing{} }
`)
	write(t, filepath.Join(dir, "native.h"), `// A native buffer.
struct buffer {
	int len;
};
`)
	write(t, filepath.Join(dir, "docs.md"), `Fixture module prose.

# Package example.com/fixture/lib

Fixture package prose.
`)

	cfg := config.Default()
	cfg.Module.Name = "fixture"
	cfg.Sources.Root = dir
	cfg.Sources.Interop = []string{filepath.Join(dir, "native.h")}
	cfg.Module.Includes = []string{filepath.Join(dir, "docs.md")}
	cfg.Output.Dir = filepath.Join(dir, "out")
	return cfg
}

func TestGenerator_Build(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	g, err := New(cfg, testReporter())
	require.NoError(t, err)
	defer g.Close()

	result, err := g.Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Module)
	assert.True(t, result.Graph.Resolved())

	assert.Equal(t, "Fixture module prose.", result.Module.Content.TestString())

	lib := result.Module.Package("example.com/fixture/lib")
	require.NotNil(t, lib)
	assert.Equal(t, "Fixture package prose.", lib.Content.TestString())
	assert.NotNil(t, lib.Child("Thing"))
	assert.NotNil(t, lib.Child("Make"))

	cpkg := result.Module.Package("C")
	require.NotNil(t, cpkg)
	assert.NotNil(t, cpkg.Child("buffer"))

	_, err = os.Stat(filepath.Join(cfg.Output.Dir, "index.md"))
	require.NoError(t, err)
}

func TestGenerator_UnknownFormatFailsEarly(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	cfg.Output.Format = "parchment"

	g, err := New(cfg, testReporter())
	require.NoError(t, err)
	defer g.Close()

	_, err = g.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized output format")

	// Failing before traversal means no output was written.
	_, statErr := os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerator_MissingInteropFileWarns(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	cfg.Sources.Interop = append(cfg.Sources.Interop, filepath.Join(cfg.Sources.Root, "absent.h"))

	rep := testReporter()
	g, err := New(cfg, rep)
	require.NoError(t, err)
	defer g.Close()

	result, err := g.Build(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Warnings, 1)
	assert.NotNil(t, result.Module.Package("C"))
}

func TestGenerator_ContextCancellation(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	g, err := New(cfg, testReporter())
	require.NoError(t, err)
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Build(ctx)
	require.Error(t, err)
}
