package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scene2d/internal/engine"
	"scene2d/internal/log"

	"github.com/Masterminds/semver/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written to every saved scene. Documents with a different
// major version are rejected.
const FormatVersion = "1.0.0"

var (
	ErrUnsupportedVersion = errors.New("unsupported scene version")
	ErrUnknownFormat      = errors.New("unknown scene format")
	ErrMalformed          = errors.New("malformed scene document")
)

// Format is a textual scene encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// --- document types ---

type SceneDocument struct {
	Version  string        `yaml:"version" json:"version"`
	Name     string        `yaml:"name" json:"name"`
	Entities []*EntityNode `yaml:"entities" json:"entities"`
}

// EntityNode is one saved entity: its declared fields side by side with its
// components and children.
type EntityNode struct {
	Fields     *engine.Document
	Components []ComponentNode
	Children   []*EntityNode
}

type ComponentNode struct {
	Type string           `yaml:"type" json:"type"`
	Data *engine.Document `yaml:"data" json:"data"`
}

func (n *EntityNode) document() *engine.Document {
	doc := engine.NewDocument()
	for _, k := range n.Fields.Keys() {
		v, _ := n.Fields.Get(k)
		doc.Set(k, v)
	}
	components := n.Components
	if components == nil {
		components = []ComponentNode{}
	}
	doc.Set("components", components)
	if len(n.Children) > 0 {
		doc.Set("children", n.Children)
	}
	return doc
}

func (n *EntityNode) MarshalYAML() (any, error) {
	return n.document(), nil
}

func (n *EntityNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.document())
}

type nestedNodes struct {
	Components []ComponentNode `yaml:"components" json:"components"`
	Children   []*EntityNode   `yaml:"children" json:"children"`
}

func (n *EntityNode) UnmarshalYAML(node *yaml.Node) error {
	var fields engine.Document
	if err := node.Decode(&fields); err != nil {
		return err
	}
	var nested nestedNodes
	if err := node.Decode(&nested); err != nil {
		return err
	}
	n.set(&fields, nested)
	return nil
}

func (n *EntityNode) UnmarshalJSON(data []byte) error {
	var fields engine.Document
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var nested nestedNodes
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	n.set(&fields, nested)
	return nil
}

func (n *EntityNode) set(fields *engine.Document, nested nestedNodes) {
	fields.Delete("components")
	fields.Delete("children")
	*n = EntityNode{Fields: fields, Components: nested.Components, Children: nested.Children}
}

// Encode writes doc in the given format.
func Encode(doc *SceneDocument, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*SceneDocument, error) {
	var doc SceneDocument
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadFile reads and decodes a scene document.
func ReadFile(path string) (*SceneDocument, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return doc, nil
}

// WriteFile encodes doc in the format named by path's extension.
func WriteFile(doc *SceneDocument, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(doc, format)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	got, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedVersion, v, err)
	}
	want := semver.MustParse(FormatVersion)
	if got.Major() != want.Major() {
		return fmt.Errorf("%w: %s (supported %d.x)", ErrUnsupportedVersion, v, want.Major())
	}
	return nil
}

// Serializer converts scenes to documents and back, resolving component
// types through Registry.
type Serializer struct {
	Registry *engine.ComponentRegistry
	Layers   *engine.LayerManager
	log      *zap.Logger
}

func NewSerializer(reg *engine.ComponentRegistry, layers *engine.LayerManager, logger *zap.Logger) *Serializer {
	return &Serializer{Registry: reg, Layers: layers, log: log.OrNop(logger)}
}

// Save builds the document of scene.
func (s *Serializer) Save(scene *engine.Scene) (*SceneDocument, error) {
	doc := &SceneDocument{Version: FormatVersion, Name: scene.Name}
	for _, root := range scene.Roots() {
		node, err := s.SaveEntity(root)
		if err != nil {
			return nil, err
		}
		doc.Entities = append(doc.Entities, node)
	}
	return doc, nil
}

// SaveEntity builds the node of e and its descendants.
func (s *Serializer) SaveEntity(e *engine.Entity) (*EntityNode, error) {
	fields, err := engine.ToDocument(e)
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", e.Name, err)
	}
	node := &EntityNode{Fields: fields, Components: []ComponentNode{}}
	for _, c := range e.Components() {
		name, data, err := s.Registry.Serialize(c)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", e.Name, err)
		}
		node.Components = append(node.Components, ComponentNode{Type: name, Data: data})
	}
	for _, child := range e.Children() {
		cn, err := s.SaveEntity(child)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, cn)
	}
	return node, nil
}

// Load builds a new scene from doc.
func (s *Serializer) Load(doc *SceneDocument) (*engine.Scene, error) {
	scene := engine.NewScene(doc.Name)
	if err := s.LoadInto(scene, doc); err != nil {
		return nil, err
	}
	return scene, nil
}

// LoadInto adds the entities of doc to scene. Every entity is built and
// awoken before the first one is added, so a failing document leaves scene
// untouched. Entities receive fresh ids and references between them are
// rewritten to match.
func (s *Serializer) LoadInto(scene *engine.Scene, doc *SceneDocument) error {
	if err := checkVersion(doc.Version); err != nil {
		return err
	}

	l := loader{s: s, ids: make(map[engine.EntityID]engine.EntityID)}
	var roots []*engine.Entity
	for _, node := range doc.Entities {
		e, err := l.build(node)
		if err != nil {
			for _, r := range roots {
				r.Destroy()
			}
			return err
		}
		roots = append(roots, e)
	}

	for _, e := range l.built {
		for _, c := range e.Components() {
			engine.RemapRefs(c, l.ids)
		}
		if e.Layer != "" && s.Layers != nil && s.Layers.Get(e.Layer) == nil {
			s.Layers.Add(e.Layer)
		}
	}

	if scene.Name == "" {
		scene.Name = doc.Name
	}
	for _, r := range roots {
		if err := scene.AddEntity(r, nil); err != nil {
			return err
		}
	}
	s.log.Debug("scene loaded",
		zap.String("scene", scene.Name),
		zap.Int("roots", len(roots)),
		zap.Int("entities", len(l.built)))
	return nil
}

type loader struct {
	s     *Serializer
	ids   map[engine.EntityID]engine.EntityID
	built []*engine.Entity
}

func (l *loader) build(node *EntityNode) (*engine.Entity, error) {
	if node == nil {
		return nil, fmt.Errorf("entity: %w: null entity node", ErrMalformed)
	}
	fields := node.Fields.Map()
	fresh := uuid.New()
	e, err := engine.LoadEntity(fields, map[string]any{"id": fresh})
	if err != nil {
		return nil, fmt.Errorf("entity: %w", err)
	}
	if raw, ok := fields["id"].(string); ok {
		if saved, err := uuid.Parse(raw); err == nil {
			l.ids[saved] = fresh
		}
	}

	for _, cn := range node.Components {
		c, err := l.s.Registry.Deserialize(cn.Type, cn.Data.Map())
		if err == nil {
			_, err = e.AddComponent(c, true)
		}
		if err != nil {
			e.Destroy()
			return nil, fmt.Errorf("entity %q: %w", e.Name, err)
		}
	}
	l.built = append(l.built, e)

	for _, cn := range node.Children {
		child, err := l.build(cn)
		if err == nil {
			err = child.SetParent(e, false)
		}
		if err != nil {
			e.Destroy()
			return nil, err
		}
	}
	return e, nil
}

// Checksum hashes the canonical YAML encoding of scene.
func (s *Serializer) Checksum(scene *engine.Scene) (uint64, error) {
	doc, err := s.Save(scene)
	if err != nil {
		return 0, err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// SaveFile writes scene to path.
func (s *Serializer) SaveFile(scene *engine.Scene, path string) error {
	doc, err := s.Save(scene)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	if err := WriteFile(doc, path); err != nil {
		return err
	}
	s.log.Info("scene saved", zap.String("scene", scene.Name), zap.String("path", path))
	return nil
}

// LoadFile reads a scene from path.
func (s *Serializer) LoadFile(path string) (*engine.Scene, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene, err := s.Load(doc)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return scene, nil
}
