package engine

// Schema is the ordered field registry of one serializable type. It is
// built once, at package initialization, and shared by every instance.
type Schema struct {
	name   string
	fields []*Field
	index  map[string]int
}

// NewSchema creates a schema that starts with the fields of its parents.
// Parents are merged in order; a field reached through more than one parent
// is registered once, at its first position.
func NewSchema(name string, parents ...*Schema) *Schema {
	s := &Schema{name: name, index: make(map[string]int)}
	for _, p := range parents {
		if p == nil {
			continue
		}
		for _, f := range p.fields {
			s.put(f)
		}
	}
	return s
}

// With declares fields on s and returns it. Redeclaring an inherited field
// keeps the inherited position and replaces its behaviour.
func (s *Schema) With(fields ...*Field) *Schema {
	for _, f := range fields {
		s.put(f)
	}
	return s
}

func (s *Schema) put(f *Field) {
	if i, ok := s.index[f.Name]; ok {
		s.fields[i] = f
		return
	}
	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
}

// Name returns the type name the schema was declared with.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns every declared field, ancestors first.
func (s *Schema) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks a field up by name.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Visible returns the fields shown in the property grid.
func (s *Schema) Visible() []*Field {
	var out []*Field
	for _, f := range s.fields {
		if !f.UIHidden {
			out = append(out, f)
		}
	}
	return out
}

// Persisted returns the fields written to documents.
func (s *Schema) Persisted() []*Field {
	var out []*Field
	for _, f := range s.fields {
		if !f.NotPersisted {
			out = append(out, f)
		}
	}
	return out
}
