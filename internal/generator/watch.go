package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mvp-joe/docsmith/internal/report"
)

// watchDebounce is the quiet period after the last event before a rebuild.
const watchDebounce = 500 * time.Millisecond

// Watch rebuilds documentation whenever a source or include file under the
// configured root changes. It blocks until ctx is cancelled.
func (g *Generator) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirsRecursively(watcher, g.cfg.Sources.Root, g.cfg.Output.Dir); err != nil {
		return err
	}

	if _, err := g.Build(ctx); err != nil {
		g.reporter.Report(report.SeverityError, "build failed: "+err.Error(), nil)
	}

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantChange(event) {
				continue
			}
			// New directories need watching before their files change.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addDirsRecursively(watcher, event.Name, g.cfg.Output.Dir)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.reporter.Warningf("watch error: %v", err)

		case <-rebuild:
			if _, err := g.Build(ctx); err != nil {
				g.reporter.Report(report.SeverityError, "rebuild failed: "+err.Error(), nil)
			}
		}
	}
}

// relevantChange ignores events that cannot affect documentation output.
func relevantChange(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".go", ".c", ".h", ".md", ".yml", ".yaml":
		return true
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

// addDirsRecursively watches dir and every subdirectory, skipping hidden
// directories and the output directory so rebuilds don't retrigger.
func addDirsRecursively(watcher *fsnotify.Watcher, dir, outDir string) error {
	absOut, _ := filepath.Abs(outDir)
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep watching the rest
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != dir {
			return filepath.SkipDir
		}
		if abs, err := filepath.Abs(path); err == nil && abs == absOut {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
