package world

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"scene2d/internal/engine"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchFiles watches the files of the scenes opened or saved so far and
// queues a reload whenever one of them is written. Reloads are applied by
// Run on its own goroutine. The watcher stops when ctx is done.
func (w *World) WatchFiles(ctx context.Context) error {
	tracked := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range w.files {
		tracked[path] = true
		dirs[filepath.Dir(path)] = true
	}
	if len(tracked) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch scenes: %w", err)
	}
	// editors often replace files instead of writing them, so watch the
	// directories
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				path, err := filepath.Abs(event.Name)
				if err != nil || !tracked[path] {
					continue
				}
				select {
				case w.reloads <- path:
				default:
					// a reload of this burst is already queued
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("scene watcher", zap.Error(err))
			}
		}
	}()
	w.log.Info("watching scene files", zap.Int("files", len(tracked)))
	return nil
}

// Reload replaces the scene opened from path with the file's current
// content. Nothing happens while playing, when the scene has unsaved edits
// or when the file is byte-identical to what was last saved or loaded.
func (w *World) Reload(path string) (bool, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	var old *engine.Scene
	for scene, p := range w.files {
		if p == path {
			old = scene
			break
		}
	}
	if old == nil {
		return false, fmt.Errorf("%w: no scene from %s", ErrUnknownScene, path)
	}
	if w.mode == Playing {
		w.log.Debug("reload skipped while playing", zap.String("path", path))
		return false, nil
	}
	if w.dirty(old) {
		w.log.Warn("reload skipped, scene has unsaved changes",
			zap.String("scene", old.Name), zap.String("path", path))
		return false, nil
	}

	sum, err := fileSum(path)
	if err != nil {
		return false, err
	}
	if sum == w.fileSums[path] {
		return false, nil
	}

	scene, err := w.Serializer.LoadFile(path)
	if err != nil {
		return false, err
	}

	if err := w.Scenes.Replace(old, scene); err != nil {
		destroyAll(scene)
		return false, err
	}
	destroyAll(old)
	delete(w.savedSums, old)
	delete(w.files, old)
	w.files[scene] = path
	w.fileSums[path] = sum
	w.markClean(scene)
	w.log.Info("scene reloaded", zap.String("scene", scene.Name), zap.String("path", path))
	return true, nil
}

func (w *World) reload(path string) {
	if _, err := w.Reload(path); err != nil {
		w.log.Warn("scene reload failed", zap.String("path", path), zap.Error(err))
	}
}

// track remembers the file scene was read from or written to.
func (w *World) track(scene *engine.Scene, path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.files[scene] = abs
	if sum, err := fileSum(abs); err == nil {
		w.fileSums[abs] = sum
	}
}

func fileSum(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read scene: %w", err)
	}
	return xxhash.Sum64(data), nil
}
