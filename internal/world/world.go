package world

import (
	"context"
	"errors"
	"time"

	"scene2d/internal/components"
	"scene2d/internal/config"
	"scene2d/internal/engine"
	"scene2d/internal/log"
	"scene2d/internal/scripts"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// ErrNoScene is returned by operations that need an active scene.
var ErrNoScene = errors.New("no active scene")

// Mode is the editor state of the world.
type Mode int

const (
	Editing Mode = iota // scenes are edited; no component updates run
	Playing             // the active scene is simulated
)

func (m Mode) String() string {
	if m == Playing {
		return "playing"
	}
	return "editing"
}

// World is the top-level application state: the registries, the loaded
// scenes and the frame loop that drives the active one.
type World struct {
	Registry    *engine.ComponentRegistry
	Layers      *engine.LayerManager
	Dispatcher  *engine.Dispatcher
	Serializer  *Serializer
	Scenes      *SceneManager
	ModeChanged engine.Event[Mode]

	cfg       config.Config
	log       *zap.Logger
	clock     *engine.Time
	gravity   rl.Vector2
	contacts  *components.Contacts
	mode      Mode
	snapshot  *SceneDocument
	wasDirty  bool
	savedSums map[*engine.Scene]uint64
	files     map[*engine.Scene]string
	fileSums  map[string]uint64
	reloads   chan string
}

var _ engine.WorldAccess = (*World)(nil)

func New(cfg config.Config, logger *zap.Logger) *World {
	logger = log.OrNop(logger)

	reg := engine.NewComponentRegistry()
	components.RegisterBuiltins(reg)
	scripts.Register(reg)

	clock := engine.NewTime()
	if cfg.FixedDelta > 0 {
		clock.FixedDelta = cfg.FixedDelta
	}
	clock.MaxFixedSteps = cfg.MaxFixedSteps
	clock.TimeScale = cfg.TimeScale

	w := &World{
		Registry:   reg,
		Layers:     engine.NewLayerManager(),
		Dispatcher: engine.NewDispatcher(),
		cfg:        cfg,
		log:        logger,
		clock:      clock,
		gravity:    rl.Vector2{X: cfg.Gravity[0], Y: cfg.Gravity[1]},
		contacts:   components.NewContacts(),
		savedSums:  make(map[*engine.Scene]uint64),
		files:      make(map[*engine.Scene]string),
		fileSums:   make(map[string]uint64),
		reloads:    make(chan string, 8),
	}
	w.Serializer = NewSerializer(reg, w.Layers, logger)
	w.Scenes = NewSceneManager(w.Serializer, w, logger)
	return w
}

func (w *World) Config() config.Config { return w.cfg }

func (w *World) Mode() Mode { return w.mode }

// Time implements engine.WorldAccess.
func (w *World) Time() *engine.Time { return w.clock }

// Gravity implements engine.WorldAccess.
func (w *World) Gravity() rl.Vector2 { return w.gravity }

func (w *World) SetGravity(g rl.Vector2) { w.gravity = g }

// Contacts returns the collision tracker of the running scene.
func (w *World) Contacts() *components.Contacts { return w.contacts }

// Spawn implements engine.WorldAccess.
func (w *World) Spawn(e *engine.Entity, parent *engine.Entity) error {
	scene := w.Scenes.Active()
	if scene == nil {
		return ErrNoScene
	}
	return scene.AddEntity(e, parent)
}

// Destroy implements engine.WorldAccess. Entities in a scene are removed at
// the end of the frame, detached ones immediately.
func (w *World) Destroy(e *engine.Entity) {
	if scene := e.Scene(); scene != nil {
		scene.QueueRemove(e)
		return
	}
	e.Destroy()
}

// NewScene creates an empty scene and makes it active.
func (w *World) NewScene(name string) *engine.Scene {
	scene := engine.NewScene(name)
	w.Scenes.Add(scene)
	_ = w.Scenes.SetActive(scene)
	w.markClean(scene)
	return scene
}

// Frame advances the clock by dt seconds and runs one frame.
func (w *World) Frame(dt float32) {
	w.clock.Advance(dt)
	w.step()
}

// step runs one frame on the active scene. Component hooks only run while
// playing; removals and deferred notifications are flushed in both modes.
func (w *World) step() {
	scene := w.Scenes.Active()
	if scene != nil && w.mode == Playing {
		scene.Start()
		scene.Update(w.clock.Delta)
		for n := w.clock.FixedSteps(); n > 0; n-- {
			scene.FixedUpdate(w.clock.FixedDelta)
			w.contacts.Step(scene)
		}
		scene.LateUpdate(w.clock.Delta)
	}
	if scene != nil {
		scene.FlushRemovals()
	}
	w.Dispatcher.EmitAll()
}

// Run drives frames from a ticker at the configured tick rate until ctx is
// done.
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.TickInterval())
	defer ticker.Stop()

	w.log.Info("world running", zap.Duration("tick", w.cfg.TickInterval()), zap.Stringer("mode", w.mode))
	w.clock.Tick(time.Now())
	for {
		select {
		case <-ctx.Done():
			w.log.Info("world stopped", zap.Uint64("frames", w.clock.FrameCount))
			return nil
		case now := <-ticker.C:
			w.clock.Tick(now)
			w.step()
		case path := <-w.reloads:
			w.reload(path)
		}
	}
}

// Play snapshots the active scene and starts simulating it.
func (w *World) Play() error {
	if w.mode == Playing {
		return nil
	}
	scene := w.Scenes.Active()
	if scene == nil {
		return ErrNoScene
	}
	snapshot, err := w.Serializer.Save(scene)
	if err != nil {
		return err
	}
	w.wasDirty = w.Dirty()
	w.snapshot = snapshot
	w.clock.Reset()
	w.contacts.Reset()
	w.setMode(Playing)
	return nil
}

// Stop ends the simulation and restores the scene saved by Play.
func (w *World) Stop() error {
	if w.mode != Playing {
		return nil
	}
	old := w.Scenes.Active()
	restored, err := w.Serializer.Load(w.snapshot)
	if err != nil {
		return err
	}
	restored.Name = old.Name
	if err := w.Scenes.Replace(old, restored); err != nil {
		return err
	}
	destroyAll(old)
	delete(w.savedSums, old)
	if path, ok := w.files[old]; ok {
		delete(w.files, old)
		w.files[restored] = path
	}
	if w.wasDirty {
		w.savedSums[restored] = 0
	} else {
		w.markClean(restored)
	}

	w.snapshot = nil
	w.contacts.Reset()
	w.setMode(Editing)
	return nil
}

func (w *World) setMode(m Mode) {
	w.mode = m
	w.log.Info("mode changed", zap.Stringer("mode", m))
	w.ModeChanged.Invoke(m)
}

// Open loads a scene file and makes it active.
func (w *World) Open(path string) (*engine.Scene, error) {
	scene, err := w.Serializer.LoadFile(path)
	if err != nil {
		return nil, err
	}
	w.Scenes.Add(scene)
	if err := w.Scenes.SetActive(scene); err != nil {
		return nil, err
	}
	w.markClean(scene)
	w.track(scene, path)
	return scene, nil
}

// Save writes the active scene to path.
func (w *World) Save(path string) error {
	scene := w.Scenes.Active()
	if scene == nil {
		return ErrNoScene
	}
	if err := w.Serializer.SaveFile(scene, path); err != nil {
		return err
	}
	w.markClean(scene)
	w.track(scene, path)
	return nil
}

func (w *World) markClean(scene *engine.Scene) {
	sum, err := w.Serializer.Checksum(scene)
	if err != nil {
		w.log.Warn("checksum failed", zap.String("scene", scene.Name), zap.Error(err))
		return
	}
	w.savedSums[scene] = sum
}

// Dirty reports whether the active scene changed since it was created,
// loaded or saved.
func (w *World) Dirty() bool {
	scene := w.Scenes.Active()
	if scene == nil {
		return false
	}
	return w.dirty(scene)
}

func (w *World) dirty(scene *engine.Scene) bool {
	sum, err := w.Serializer.Checksum(scene)
	if err != nil {
		return true
	}
	saved, ok := w.savedSums[scene]
	return !ok || saved != sum
}

// AddComponentByName creates a registered component and attaches it to e.
func (w *World) AddComponentByName(e *engine.Entity, name string) (engine.Component, error) {
	c, err := w.Registry.Create(name)
	if err != nil {
		return nil, err
	}
	return e.AddComponent(c, false)
}

// Duplicate copies e and its subtree next to it in the active scene.
func (w *World) Duplicate(e *engine.Entity) (*engine.Entity, error) {
	scene := w.Scenes.Active()
	if scene == nil {
		return nil, ErrNoScene
	}
	return scene.Duplicate(e)
}

// Watch subscribes fn to obj's changes, delivered once per frame at the end
// of the frame.
func (w *World) Watch(obj engine.Serializable, fn func(), opts ...engine.SubscribeOption) engine.Subscription {
	opts = append(opts, engine.Deferred(w.Dispatcher))
	return obj.Changed().Subscribe(fn, opts...)
}
