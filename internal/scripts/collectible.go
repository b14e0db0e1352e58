package scripts

import "scene2d/internal/engine"

// Collectible removes its entity the first time something tagged TargetTag
// touches it. Add it next to a collider.
type Collectible struct {
	engine.BaseComponent
	Points    int    `default:"10"`
	TargetTag string `default:"Player"`

	// Collected fires once with Points.
	Collected engine.Event[int]

	collected bool
}

func (c *Collectible) IsCollected() bool { return c.collected }

func (c *Collectible) OnCollisionEnter(other *engine.Entity) {
	if c.collected || other == nil || !other.HasTag(c.TargetTag) {
		return
	}
	c.collected = true
	c.Collected.Invoke(c.Points)

	e := c.Entity()
	if w := engine.WorldOf(e); w != nil {
		w.Destroy(e)
	}
}

func (c *Collectible) OnCollisionExit(other *engine.Entity) {}

// --- Generated boilerplate below ---

var CollectibleSchema = engine.NewSchema("Collectible", engine.ComponentSchema).With(
	engine.Prop("points", int(10), func(c *Collectible) *int { return &c.Points }),
	engine.Prop("target_tag", "Player", func(c *Collectible) *string { return &c.TargetTag }),
)

func (c *Collectible) Schema() *engine.Schema { return CollectibleSchema }
