package components

import (
	"testing"

	"scene2d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"
)

// recorder collects collision callbacks.
type recorder struct {
	engine.BaseComponent
	entered []string
	exited  []string
}

var recorderSchema = engine.NewSchema("Recorder", engine.ComponentSchema)

func (r *recorder) Schema() *engine.Schema { return recorderSchema }

func (r *recorder) OnCollisionEnter(other *engine.Entity) {
	r.entered = append(r.entered, other.Name)
}

func (r *recorder) OnCollisionExit(other *engine.Entity) {
	r.exited = append(r.exited, other.Name)
}

func newRecorder() *recorder {
	r := &recorder{}
	engine.MustConstruct(r, nil)
	return r
}

func spawn(t *testing.T, scene *engine.Scene, name string, pos rl.Vector2, comps ...engine.Component) *engine.Entity {
	t.Helper()
	e := engine.NewEntity(name)
	e.Transform().SetPosition(pos)
	for _, c := range comps {
		_, err := e.AddComponent(c, false)
		require.NoError(t, err)
	}
	if scene != nil {
		require.NoError(t, scene.AddEntity(e, nil))
	}
	return e
}
