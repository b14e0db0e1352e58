package engine

// tracker records the hooks it receives.
type tracker struct {
	BaseComponent
	X      float32
	Items  []string
	Target EntityRef
	Secret string
	Note   string

	calls []string
}

var trackerSchema = NewSchema("Tracker", ComponentSchema).With(
	Prop("x", float32(0), func(p *tracker) *float32 { return &p.X }),
	Prop("items", []string{"a"}, func(p *tracker) *[]string { return &p.Items }),
	Prop("target", EntityRef{}, func(p *tracker) *EntityRef { return &p.Target }),
	Prop("secret", "s", func(p *tracker) *string { return &p.Secret }, NotPersisted()),
	Prop("note", "n", func(p *tracker) *string { return &p.Note }, UIHidden()),
)

func newTracker() *tracker {
	p := &tracker{}
	MustConstruct(p, nil)
	return p
}

func (p *tracker) Schema() *Schema { return trackerSchema }

func (p *tracker) Awake()                 { p.calls = append(p.calls, "awake") }
func (p *tracker) Start()                 { p.calls = append(p.calls, "start") }
func (p *tracker) Update(dt float32)      { p.calls = append(p.calls, "update") }
func (p *tracker) FixedUpdate(dt float32) { p.calls = append(p.calls, "fixed") }
func (p *tracker) LateUpdate(dt float32)  { p.calls = append(p.calls, "late") }
func (p *tracker) OnEnable()              { p.calls = append(p.calls, "enable") }
func (p *tracker) OnDisable()             { p.calls = append(p.calls, "disable") }
func (p *tracker) OnDestroy()             { p.calls = append(p.calls, "destroy") }

func (p *tracker) count(hook string) int {
	n := 0
	for _, c := range p.calls {
		if c == hook {
			n++
		}
	}
	return n
}

// marker is a second component type with no hooks.
type marker struct {
	BaseComponent
	Label string
}

var markerSchema = NewSchema("Marker", ComponentSchema).With(
	Prop("label", "", func(m *marker) *string { return &m.Label }),
)

func (m *marker) Schema() *Schema { return markerSchema }

func newMarker(label string) *marker {
	m := &marker{}
	MustConstruct(m, map[string]any{"label": label})
	return m
}

// settings nests a layer to exercise nested documents.
type settings struct {
	Observable
	Title string
	Main  *Layer
	Tags  map[string]int
}

var settingsSchema = NewSchema("Settings").With(
	Prop("title", "untitled", func(s *settings) *string { return &s.Title }),
	Prop("main", (*Layer)(nil), func(s *settings) **Layer { return &s.Main }),
	Prop("tags", map[string]int{"x": 1}, func(s *settings) *map[string]int { return &s.Tags }),
)

func (s *settings) Schema() *Schema { return settingsSchema }
