package world

import (
	"testing"

	"scene2d/internal/components"
	"scene2d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"
)

// gauge is a plain data component.
type gauge struct {
	engine.BaseComponent
	X      float32
	Target engine.EntityRef
}

var gaugeSchema = engine.NewSchema("Gauge", engine.ComponentSchema).With(
	engine.Prop("x", float32(0), func(g *gauge) *float32 { return &g.X }),
	engine.Prop("target", engine.EntityRef{}, func(g *gauge) *engine.EntityRef { return &g.Target }),
)

func (g *gauge) Schema() *engine.Schema { return gaugeSchema }

func newGauge(x float32) *gauge {
	g := &gauge{}
	engine.MustConstruct(g, map[string]any{"x": x})
	return g
}

func newTestSerializer() *Serializer {
	reg := engine.NewComponentRegistry()
	components.RegisterBuiltins(reg)
	engine.RegisterType[gauge](reg, "Gauge")
	return NewSerializer(reg, engine.NewLayerManager(), nil)
}

func entity(t *testing.T, scene *engine.Scene, parent *engine.Entity, name string, pos rl.Vector2, comps ...engine.Component) *engine.Entity {
	t.Helper()
	e := engine.NewEntity(name)
	e.Transform().SetPosition(pos)
	for _, c := range comps {
		_, err := e.AddComponent(c, false)
		require.NoError(t, err)
	}
	require.NoError(t, scene.AddEntity(e, parent))
	return e
}
