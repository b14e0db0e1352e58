package world

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"scene2d/internal/engine"
	"scene2d/internal/log"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownScene is returned for scenes the manager does not hold.
var ErrUnknownScene = errors.New("unknown scene")

// maxParallelReads bounds the files read at once by LoadFiles.
const maxParallelReads = 4

// SceneManager holds the loaded scenes and the active one. Every scene it
// holds is driven by the same world.
type SceneManager struct {
	ActiveChanged engine.Event[*engine.Scene]

	scenes     []*engine.Scene
	active     *engine.Scene
	access     engine.WorldAccess
	serializer *Serializer
	log        *zap.Logger
}

func NewSceneManager(serializer *Serializer, access engine.WorldAccess, logger *zap.Logger) *SceneManager {
	return &SceneManager{serializer: serializer, access: access, log: log.OrNop(logger)}
}

// Add starts managing scene. The first scene added becomes active.
func (m *SceneManager) Add(scene *engine.Scene) {
	if m.index(scene) >= 0 {
		return
	}
	m.scenes = append(m.scenes, scene)
	if m.access != nil {
		scene.SetWorld(m.access)
	}
	if m.active == nil {
		m.setActive(scene)
	}
}

// Remove stops managing scene. If it was active, the first remaining scene
// becomes active.
func (m *SceneManager) Remove(scene *engine.Scene) bool {
	i := m.index(scene)
	if i < 0 {
		return false
	}
	m.scenes = append(m.scenes[:i], m.scenes[i+1:]...)
	scene.SetWorld(nil)
	if m.active == scene {
		var next *engine.Scene
		if len(m.scenes) > 0 {
			next = m.scenes[0]
		}
		m.setActive(next)
	}
	return true
}

// Replace swaps old for scene in place, keeping the active selection.
func (m *SceneManager) Replace(old, scene *engine.Scene) error {
	i := m.index(old)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownScene, old.Name)
	}
	m.scenes[i] = scene
	old.SetWorld(nil)
	if m.access != nil {
		scene.SetWorld(m.access)
	}
	if m.active == old {
		m.setActive(scene)
	}
	return nil
}

// SetActive selects the scene the world loop drives.
func (m *SceneManager) SetActive(scene *engine.Scene) error {
	if m.index(scene) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownScene, scene.Name)
	}
	m.setActive(scene)
	return nil
}

func (m *SceneManager) setActive(scene *engine.Scene) {
	if m.active == scene {
		return
	}
	m.active = scene
	m.ActiveChanged.Invoke(scene)
}

// Active returns the active scene, or nil.
func (m *SceneManager) Active() *engine.Scene {
	return m.active
}

// Get finds a scene by name.
func (m *SceneManager) Get(name string) *engine.Scene {
	for _, s := range m.scenes {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Scenes returns the managed scenes in the order they were added.
func (m *SceneManager) Scenes() []*engine.Scene {
	out := make([]*engine.Scene, len(m.scenes))
	copy(out, m.scenes)
	return out
}

func (m *SceneManager) index(scene *engine.Scene) int {
	for i, s := range m.scenes {
		if s == scene {
			return i
		}
	}
	return -1
}

// LoadFiles reads and decodes paths concurrently, then builds the scenes on
// the calling goroutine and adds them in path order. Nothing is added if
// any file fails.
func (m *SceneManager) LoadFiles(ctx context.Context, paths []string) ([]*engine.Scene, error) {
	docs := make([]*SceneDocument, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := ReadFile(path)
			if err != nil {
				return err
			}
			if doc.Name == "" {
				doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scenes := make([]*engine.Scene, 0, len(docs))
	for i, doc := range docs {
		scene, err := m.serializer.Load(doc)
		if err != nil {
			for _, s := range scenes {
				destroyAll(s)
			}
			return nil, fmt.Errorf("load scene %s: %w", paths[i], err)
		}
		scenes = append(scenes, scene)
	}
	for _, s := range scenes {
		m.Add(s)
	}
	m.log.Info("scenes loaded", zap.Int("count", len(scenes)))
	return scenes, nil
}

// destroyAll tears down every entity of scene.
func destroyAll(scene *engine.Scene) {
	for _, r := range scene.Roots() {
		r.Destroy()
	}
}
