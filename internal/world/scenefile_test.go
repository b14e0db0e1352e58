package world

import (
	"os"
	"path/filepath"
	"testing"

	"scene2d/internal/components"
	"scene2d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadCustomComponent(t *testing.T) {
	s := newTestSerializer()
	scene := engine.NewScene("Level")
	entity(t, scene, nil, "root", rl.Vector2{}, newGauge(3.5))

	doc, err := s.Save(scene)
	require.NoError(t, err)
	loaded, err := s.Load(doc)
	require.NoError(t, err)

	require.Len(t, loaded.Roots(), 1)
	g := engine.GetComponent[*gauge](loaded.Roots()[0])
	require.NotNil(t, g)
	assert.Equal(t, float32(3.5), g.X)
	assert.True(t, g.Enabled())
	assert.NotNil(t, loaded.Roots()[0].Transform())
}

func TestRoundTripHierarchy(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			s := newTestSerializer()
			scene := engine.NewScene("Level")
			root := entity(t, scene, nil, "root", rl.Vector2{})
			root.Tag = "world"
			body := components.NewRigidBody()
			body.Mass = 4
			mover := entity(t, scene, root, "mover", rl.Vector2{X: 2, Y: -1}, body, components.NewCircleCollider(0.5))
			mover.Transform().SetAngle(30)
			hidden := entity(t, scene, mover, "hidden", rl.Vector2{X: 1})
			hidden.SetActive(false)
			entity(t, scene, nil, "second", rl.Vector2{X: 9})

			doc, err := s.Save(scene)
			require.NoError(t, err)
			data, err := Encode(doc, format)
			require.NoError(t, err)
			decoded, err := Decode(data, format)
			require.NoError(t, err)
			loaded, err := s.Load(decoded)
			require.NoError(t, err)

			assert.Equal(t, "Level", loaded.Name)
			assert.Equal(t, 4, loaded.Len())
			require.Len(t, loaded.Roots(), 2)

			lroot := loaded.FindByName("root")
			require.NotNil(t, lroot)
			assert.Equal(t, "world", lroot.Tag)
			assert.NotEqual(t, root.ID(), lroot.ID())

			lmover := loaded.FindByName("mover")
			require.NotNil(t, lmover)
			assert.Same(t, lroot, lmover.Parent())
			assert.Equal(t, rl.Vector2{X: 2, Y: -1}, lmover.Transform().Position())
			assert.InDelta(t, 30, lmover.Transform().Angle(), 1e-4)
			lbody := engine.GetComponent[*components.RigidBody](lmover)
			require.NotNil(t, lbody)
			assert.Equal(t, float32(4), lbody.Mass)
			lcircle := engine.GetComponent[*components.CircleCollider](lmover)
			require.NotNil(t, lcircle)
			assert.Equal(t, float32(0.5), lcircle.Radius)

			lhidden := loaded.FindByName("hidden")
			require.NotNil(t, lhidden)
			assert.Same(t, lmover, lhidden.Parent())
			assert.False(t, lhidden.ActiveSelf())
			assert.True(t, lmover.ActiveSelf())
		})
	}
}

func TestLoadUnknownComponentLeavesSceneUntouched(t *testing.T) {
	s := newTestSerializer()
	scene := engine.NewScene("Level")
	existing := entity(t, scene, nil, "existing", rl.Vector2{})

	good := engine.NewDocument()
	good.Set("name", "good")
	bad := engine.NewDocument()
	bad.Set("name", "bad")
	doc := &SceneDocument{
		Version: FormatVersion,
		Entities: []*EntityNode{
			{Fields: good},
			{Fields: bad, Components: []ComponentNode{{Type: "Nonexistent", Data: engine.NewDocument()}}},
		},
	}

	err := s.LoadInto(scene, doc)
	assert.ErrorIs(t, err, engine.ErrUnknownComponentType)
	assert.Equal(t, 1, scene.Len())
	assert.Equal(t, []*engine.Entity{existing}, scene.Roots())
	assert.Nil(t, scene.FindByName("good"))
}

func TestLoadNestedUnknownComponentFails(t *testing.T) {
	s := newTestSerializer()
	src := `
version: "1.0.0"
name: Level
entities:
  - name: parent
    components: []
    children:
      - name: child
        components:
          - type: Nonexistent
            data: {}
`
	doc, err := Decode([]byte(src), FormatYAML)
	require.NoError(t, err)

	scene := engine.NewScene("Level")
	assert.ErrorIs(t, s.LoadInto(scene, doc), engine.ErrUnknownComponentType)
	assert.Equal(t, 0, scene.Len())
}

func TestDecodeHandWrittenYAML(t *testing.T) {
	s := newTestSerializer()
	src := `
version: "1.2.0"
name: Arena
entities:
  - name: Player
    tag: Player
    layer: Heroes
    components:
      - type: Transform
        data:
          position: [1, 2]
          angle: 90
      - type: BoxCollider
        data:
          width: 2
          height: 0.5
      - type: RigidBody
        data:
          body_type: kinematic
          velocity: [3, 0]
`
	doc, err := Decode([]byte(src), FormatYAML)
	require.NoError(t, err)
	scene, err := s.Load(doc)
	require.NoError(t, err)

	player := scene.FindByName("Player")
	require.NotNil(t, player)
	assert.Equal(t, "Player", player.Tag)
	assert.Equal(t, rl.Vector2{X: 1, Y: 2}, player.Transform().Position())
	assert.InDelta(t, 90, player.Transform().Angle(), 1e-4)

	box := engine.GetComponent[*components.BoxCollider](player)
	require.NotNil(t, box)
	assert.Equal(t, float32(2), box.Width)
	assert.Equal(t, float32(0.5), box.Height)
	assert.Equal(t, float32(0.5), box.Friction, "missing fields keep their defaults")

	body := engine.GetComponent[*components.RigidBody](player)
	require.NotNil(t, body)
	assert.Equal(t, "Kinematic", body.BodyType.String())
	assert.Equal(t, rl.Vector2{X: 3}, body.Velocity)

	assert.NotNil(t, s.Layers.Get("Heroes"), "unknown layers are registered")
}

func TestLoadNullEntityFails(t *testing.T) {
	s := newTestSerializer()
	cases := []struct {
		name   string
		format Format
		src    string
	}{
		{"yaml root", FormatYAML, "version: 1.0.0\nentities:\n  - ~\n"},
		{"yaml child", FormatYAML, "version: 1.0.0\nentities:\n  - name: parent\n    children:\n      - name: ok\n      - null\n"},
		{"json root", FormatJSON, `{"version": "1.0.0", "entities": [{"name": "ok"}, null]}`},
		{"json child", FormatJSON, `{"version": "1.0.0", "entities": [{"name": "parent", "children": [null]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Decode([]byte(tc.src), tc.format)
			require.NoError(t, err)

			scene := engine.NewScene("Level")
			existing := entity(t, scene, nil, "existing", rl.Vector2{})
			assert.ErrorIs(t, s.LoadInto(scene, doc), ErrMalformed)
			assert.Equal(t, []*engine.Entity{existing}, scene.Roots())
			assert.Equal(t, 1, scene.Len())
		})
	}
}

func TestLoadRemapsReferences(t *testing.T) {
	s := newTestSerializer()
	scene := engine.NewScene("Level")
	target := entity(t, scene, nil, "target", rl.Vector2{})
	g := newGauge(1)
	entity(t, scene, target, "pointer", rl.Vector2{}, g)
	g.Target = engine.RefTo(target)

	outside := newGauge(2)
	outside.Target = engine.EntityRef{ID: engine.NewEntity("elsewhere").ID()}
	entity(t, scene, nil, "dangling", rl.Vector2{}, outside)

	doc, err := s.Save(scene)
	require.NoError(t, err)
	loaded, err := s.Load(doc)
	require.NoError(t, err)

	ltarget := loaded.FindByName("target")
	lg := engine.GetComponent[*gauge](loaded.FindByName("pointer"))
	assert.Equal(t, ltarget.ID(), lg.Target.ID)
	assert.Same(t, ltarget, lg.Target.Get(loaded))

	ld := engine.GetComponent[*gauge](loaded.FindByName("dangling"))
	assert.Equal(t, outside.Target.ID, ld.Target.ID, "references outside the document are kept")
	assert.Nil(t, ld.Target.Get(loaded))
}

func TestCheckVersion(t *testing.T) {
	s := newTestSerializer()

	for _, v := range []string{"", "1.0.0", "1.9.3"} {
		_, err := s.Load(&SceneDocument{Version: v})
		assert.NoError(t, err, v)
	}
	for _, v := range []string{"2.0.0", "0.9.0", "latest"} {
		_, err := s.Load(&SceneDocument{Version: v})
		assert.ErrorIs(t, err, ErrUnsupportedVersion, v)
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("scenes/main.YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = FormatFromPath("main.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = FormatFromPath("main.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = FormatFromPath("main.toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Encode(&SceneDocument{}, Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSaveFileLoadFile(t *testing.T) {
	s := newTestSerializer()
	scene := engine.NewScene("Level")
	entity(t, scene, nil, "a", rl.Vector2{X: 1}, newGauge(7))

	dir := t.TempDir()
	for _, name := range []string{"level.yaml", "level.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, s.SaveFile(scene, path))

		loaded, err := s.LoadFile(path)
		require.NoError(t, err)
		a := loaded.FindByName("a")
		require.NotNil(t, a)
		assert.Equal(t, float32(7), engine.GetComponent[*gauge](a).X)
	}

	data, err := os.ReadFile(filepath.Join(dir, "level.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1.0.0")
	assert.Contains(t, string(data), "type: Gauge")

	_, err = s.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestChecksum(t *testing.T) {
	s := newTestSerializer()
	scene := engine.NewScene("Level")
	e := entity(t, scene, nil, "a", rl.Vector2{}, newGauge(1))

	first, err := s.Checksum(scene)
	require.NoError(t, err)
	again, err := s.Checksum(scene)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	e.Transform().SetPosition(rl.Vector2{X: 1})
	moved, err := s.Checksum(scene)
	require.NoError(t, err)
	assert.NotEqual(t, first, moved)
}
