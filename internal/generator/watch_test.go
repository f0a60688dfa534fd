package generator

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

// Test Plan for watch filtering:
// - Source, interop, include, and config extensions are relevant
// - Chmod-only events are never relevant
// - Unrelated extensions on non-directories are irrelevant

func TestRelevantChange(t *testing.T) {
	t.Parallel()

	relevant := []string{"main.go", "native.c", "defs.h", "docs.md", "config.yml", "config.yaml"}
	for _, name := range relevant {
		ev := fsnotify.Event{Name: name, Op: fsnotify.Write}
		assert.True(t, relevantChange(ev), "expected %s to trigger a rebuild", name)
	}

	assert.False(t, relevantChange(fsnotify.Event{Name: "main.go", Op: fsnotify.Chmod}))
	assert.False(t, relevantChange(fsnotify.Event{Name: "binary.exe", Op: fsnotify.Write}))
	assert.False(t, relevantChange(fsnotify.Event{Name: "notes.txt", Op: fsnotify.Create}))
}
