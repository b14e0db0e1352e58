package engine

// DefaultLayer is the layer every entity starts on.
const DefaultLayer = "Default"

// Layer is a named collision layer.
type Layer struct {
	Observable
	name          string
	collisionMask int
}

var LayerSchema = NewSchema("Layer").With(
	Prop("name", "", func(l *Layer) *string { return &l.name }),
	Prop("collision_mask", 0, func(l *Layer) *int { return &l.collisionMask }),
)

func (l *Layer) Schema() *Schema { return LayerSchema }

func (l *Layer) Name() string { return l.name }

func (l *Layer) CollisionMask() int { return l.collisionMask }

// LayerManager holds the layers known to the editor. Layers are never
// removed; entities refer to them by name.
type LayerManager struct {
	Observable
	layers []*Layer
	byName map[string]*Layer
}

func NewLayerManager() *LayerManager {
	m := &LayerManager{byName: make(map[string]*Layer)}
	m.Add(DefaultLayer)
	return m
}

// Add returns the layer called name, creating it if needed. A new layer's
// collision mask is its insertion index.
func (m *LayerManager) Add(name string) *Layer {
	if l, ok := m.byName[name]; ok {
		return l
	}
	l := &Layer{}
	MustConstruct(l, map[string]any{"name": name, "collision_mask": len(m.layers)})
	m.layers = append(m.layers, l)
	m.byName[name] = l
	m.Changed().Notify()
	return l
}

// Get returns the layer called name, or nil.
func (m *LayerManager) Get(name string) *Layer {
	return m.byName[name]
}

// Names returns the layer names in insertion order.
func (m *LayerManager) Names() []string {
	out := make([]string, len(m.layers))
	for i, l := range m.layers {
		out[i] = l.name
	}
	return out
}

// Layers returns the layers in insertion order.
func (m *LayerManager) Layers() []*Layer {
	out := make([]*Layer, len(m.layers))
	copy(out, m.layers)
	return out
}
