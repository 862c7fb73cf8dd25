package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/maestrohq/maestro/pkg/logger"
)

// Watcher tracks filesystem changes under the sandbox root so cached
// project facts (file counts) stay roughly current between inspections.
type Watcher struct {
	sandbox *Sandbox
	fsw     *fsnotify.Watcher

	mu      sync.Mutex
	changes int
}

// NewWatcher creates a watcher over every directory under the sandbox root.
func NewWatcher(sandbox *Sandbox) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{sandbox: sandbox, fsw: fsw}
	err = filepath.WalkDir(sandbox.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("register watch paths: %w", err)
	}
	return w, nil
}

// Run consumes events until ctx is cancelled. New directories are added to
// the watch set as they appear.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.mu.Lock()
			w.changes++
			w.mu.Unlock()

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDirs[filepath.Base(event.Name)] {
					if err := w.fsw.Add(event.Name); err != nil {
						logger.DebugCF("workspace", "Failed to watch new directory",
							map[string]any{"path": event.Name, "error": err.Error()})
					}
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.WarnCF("workspace", "Watcher error", map[string]any{"error": err.Error()})
		}
	}
}

// Changes returns how many filesystem events have been observed since the
// watcher started.
func (w *Watcher) Changes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changes
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
