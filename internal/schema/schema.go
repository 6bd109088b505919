package schema

import (
	"fmt"
	"strings"

	"github.com/danmuck/rowcodec/internal/attr"
	"github.com/rs/zerolog/log"
)

const unnamed = "anonymous"

// FieldSpec declares one attribute in a schema description.
type FieldSpec struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
}

// Format is an ordered schema description. Order fixes wire tags, so
// reordering breaks previously encoded data; only append.
type Format []FieldSpec

// Attribute is a named attribute codec.
type Attribute struct {
	Name  string
	Codec attr.Codec
}

// Schema is an immutable ordered attribute list. Safe for concurrent use.
type Schema struct {
	name        string
	attributes  []Attribute
	index       map[string]int
	strictOrder bool
}

// Option configures a Schema at construction.
type Option func(*Schema)

// WithName labels the schema in logs, errors and metrics.
func WithName(name string) Option {
	return func(s *Schema) {
		if n := strings.TrimSpace(name); n != "" {
			s.name = n
		}
	}
}

// WithStrictTagOrder makes Deserialize reject tags that are not strictly
// ascending. Serialize always produces ascending tags.
func WithStrictTagOrder() Option {
	return func(s *Schema) {
		s.strictOrder = true
	}
}

// New builds a schema from format. Any unresolvable type or bad name fails
// the whole construction.
func New(format Format, opts ...Option) (*Schema, error) {
	s := &Schema{
		name:       unnamed,
		attributes: make([]Attribute, 0, len(format)),
		index:      make(map[string]int, len(format)),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i, spec := range format {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, FormatError{Index: i, Name: spec.Name, Type: spec.Type,
				Err: fmt.Errorf("%w: empty attribute name", ErrInvalidFormat)}
		}
		if _, dup := s.index[name]; dup {
			return nil, FormatError{Index: i, Name: spec.Name, Type: spec.Type,
				Err: fmt.Errorf("%w: duplicate attribute name", ErrInvalidFormat)}
		}
		codec, err := attr.Lookup(spec.Type)
		if err != nil {
			log.Warn().Str("schema", s.name).Int("index", i).Str("type", spec.Type).Msg("schema.New unknown type")
			return nil, FormatError{Index: i, Name: spec.Name, Type: spec.Type, Err: err}
		}
		s.index[name] = i
		s.attributes = append(s.attributes, Attribute{Name: name, Codec: codec})
	}
	log.Debug().Str("schema", s.name).Int("attributes", len(s.attributes)).Bool("strict", s.strictOrder).Msg("schema.New ok")
	return s, nil
}

// MustNew is New for schemas known at compile time. It panics on error.
func MustNew(format Format, opts ...Option) *Schema {
	s, err := New(format, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// Len returns the attribute count N; valid tags are 1..N.
func (s *Schema) Len() int { return len(s.attributes) }

// Attributes returns a copy of the attribute list in tag order.
func (s *Schema) Attributes() []Attribute {
	return append([]Attribute(nil), s.attributes...)
}

// Attribute returns the attribute addressed by tag.
func (s *Schema) Attribute(tag uint64) (Attribute, bool) {
	if tag == 0 || tag > uint64(len(s.attributes)) {
		return Attribute{}, false
	}
	return s.attributes[tag-1], true
}

// Lookup returns the attribute and tag for name.
func (s *Schema) Lookup(name string) (Attribute, uint64, bool) {
	i, ok := s.index[name]
	if !ok {
		return Attribute{}, 0, false
	}
	return s.attributes[i], uint64(i + 1), true
}

// Format returns the description the schema was built from.
func (s *Schema) Format() Format {
	out := make(Format, len(s.attributes))
	for i, a := range s.attributes {
		out[i] = FieldSpec{Name: a.Name, Type: a.Codec.TypeName()}
	}
	return out
}
