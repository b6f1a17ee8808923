package listing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrFieldIsNotDeclared = errors.New("field is not declared in schema")
	ErrFieldIsDuplicated  = errors.New("field is declared twice in schema")
)

// Field is a named accessor of an entity attribute. Value must return a
// JSON-encodable value in the entity's canonical representation.
type Field[T any] struct {
	Name  string
	Value func(T) any
}

// FieldSet describes which fields of an entity a response may carry.
type FieldSet struct {
	// AlwaysIncluded fields are emitted first, in this order, on every response.
	AlwaysIncluded []string
	// AllowedOptional fields may be requested by name.
	AllowedOptional []string
	// Sortable fields may be used in a sort specification.
	Sortable []string
}

// Schema is the static descriptor of an entity type used to project it into
// responses and to parse sort specifications against it.
type Schema[T any] struct {
	fields   map[string]func(T) any
	set      FieldSet
	sortSpec SortSpecParser
}

// NewSchema validates that every name referenced by set has an accessor.
func NewSchema[T any](fields []Field[T], set FieldSet) (Schema[T], error) {
	accessors := make(map[string]func(T) any, len(fields))
	for _, field := range fields {
		if _, ok := accessors[field.Name]; ok {
			return Schema[T]{}, fmt.Errorf("%w: %s", ErrFieldIsDuplicated, field.Name)
		}
		accessors[field.Name] = field.Value
	}

	var problems []error
	for _, names := range [][]string{set.AlwaysIncluded, set.AllowedOptional, set.Sortable} {
		for _, name := range names {
			if _, ok := accessors[name]; !ok {
				problems = append(problems, fmt.Errorf("%w: %s", ErrFieldIsNotDeclared, name))
			}
		}
	}
	if len(problems) > 0 {
		return Schema[T]{}, errors.Join(problems...)
	}

	return Schema[T]{
		fields: accessors,
		set: FieldSet{
			AlwaysIncluded:  slices.Clone(set.AlwaysIncluded),
			AllowedOptional: slices.Clone(set.AllowedOptional),
			Sortable:        slices.Clone(set.Sortable),
		},
		sortSpec: NewSortSpecParser(set.Sortable),
	}, nil
}

// MustNewSchema is NewSchema for package-level schema declarations.
func MustNewSchema[T any](fields []Field[T], set FieldSet) Schema[T] {
	schema, err := NewSchema(fields, set)
	if err != nil {
		panic(err)
	}
	return schema
}

// FieldSet returns a copy of the schema's field set.
func (s Schema[T]) FieldSet() FieldSet {
	return FieldSet{
		AlwaysIncluded:  slices.Clone(s.set.AlwaysIncluded),
		AllowedOptional: slices.Clone(s.set.AllowedOptional),
		Sortable:        slices.Clone(s.set.Sortable),
	}
}

// ParseSort parses spec against the schema's sortable fields.
func (s Schema[T]) ParseSort(spec string, fallback SortCriteria) SortCriteria {
	return s.sortSpec.Parse(spec, fallback)
}

// Project renders entity with the always-included fields followed by the
// requested optional ones.
func (s Schema[T]) Project(entity T, requested string) Projection {
	return s.ProjectWith(entity, requested, s.set.AllowedOptional, s.set.AlwaysIncluded)
}

// ProjectWith is Project with explicit lists, for operations that narrow the
// schema defaults. Names without an accessor are skipped.
//
// requested is a comma-separated list; each name is trimmed. Names not in
// allowedOptional, repeated names, and names already emitted as
// always-included are dropped silently.
func (s Schema[T]) ProjectWith(entity T, requested string, allowedOptional, alwaysIncluded []string) Projection {
	p := Projection{values: make(map[string]any, len(alwaysIncluded))}

	for _, name := range alwaysIncluded {
		s.put(&p, entity, name)
	}

	if requested == "" || len(allowedOptional) == 0 {
		return p
	}
	for _, name := range strings.Split(requested, ",") {
		name = strings.TrimSpace(name)
		if name == "" || !slices.Contains(allowedOptional, name) {
			continue
		}
		s.put(&p, entity, name)
	}

	return p
}

func (s Schema[T]) put(p *Projection, entity T, name string) {
	if _, seen := p.values[name]; seen {
		return
	}
	accessor, ok := s.fields[name]
	if !ok {
		return
	}
	p.keys = append(p.keys, name)
	p.values[name] = accessor(entity)
}

// Projection is an insertion-ordered field name to value mapping. It
// marshals to a JSON object whose keys keep that order.
type Projection struct {
	keys   []string
	values map[string]any
}

// Keys returns the field names in emission order.
func (p Projection) Keys() []string {
	return slices.Clone(p.keys)
}

// Get returns the value for name and whether it was projected.
func (p Projection) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

func (p Projection) Len() int {
	return len(p.keys)
}

// Map returns the projection as a plain map. Key order is lost.
func (p Projection) Map() map[string]any {
	m := make(map[string]any, len(p.keys))
	for _, k := range p.keys {
		m[k] = p.values[k]
	}
	return m
}

func (p Projection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
