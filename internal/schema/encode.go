package schema

import (
	"fmt"
	"sort"

	"github.com/danmuck/rowcodec/internal/observability"
	"github.com/danmuck/rowcodec/internal/wire"
	"github.com/rs/zerolog/log"
)

var terminator = wire.PackUint(0)

// Serialize encodes rec. Attributes are emitted in ascending schema order,
// absent ones are skipped entirely, and a zero terminator closes the record.
// Keys that are not schema attributes fail with ErrUnknownAttribute.
func (s *Schema) Serialize(rec Record) ([]byte, error) {
	out, err := s.serialize(rec)
	observability.RecordCodecOp(s.name, "encode", resultLabel(err), len(out))
	if err != nil {
		log.Warn().Err(err).Str("schema", s.name).Msg("schema.Serialize failed")
		return nil, err
	}
	log.Debug().Str("schema", s.name).Int("attributes", len(rec)).Int("bytes", len(out)).Msg("schema.Serialize ok")
	return out, nil
}

func (s *Schema) serialize(rec Record) ([]byte, error) {
	if err := s.checkKeys(rec); err != nil {
		return nil, err
	}
	out := make([]byte, 0, 16)
	for i, a := range s.attributes {
		v, ok := rec[a.Name]
		if !ok || v == nil {
			continue
		}
		b, err := a.Codec.Serialize(v)
		if err != nil {
			return nil, EncodeError{Schema: s.name, Attribute: a.Name, Err: err}
		}
		out = append(out, wire.PackUint(uint64(i+1))...)
		out = append(out, b...)
	}
	return append(out, terminator...), nil
}

// SerializeNative coerces plain Go values (from JSON, YAML, literals) with
// each attribute's codec and serializes the result. nil values are absent.
func (s *Schema) SerializeNative(obj map[string]any) ([]byte, error) {
	rec, err := s.Coerce(obj)
	if err != nil {
		observability.RecordCodecOp(s.name, "encode", resultLabel(err), 0)
		return nil, err
	}
	return s.Serialize(rec)
}

// Coerce converts plain Go values into a typed record.
func (s *Schema) Coerce(obj map[string]any) (Record, error) {
	rec := make(Record, len(obj))
	for _, name := range sortedKeys(obj) {
		raw := obj[name]
		if raw == nil {
			continue
		}
		a, _, ok := s.Lookup(name)
		if !ok {
			return nil, EncodeError{Schema: s.name, Attribute: name, Err: ErrUnknownAttribute}
		}
		v, err := a.Codec.Coerce(raw)
		if err != nil {
			return nil, EncodeError{Schema: s.name, Attribute: name, Err: err}
		}
		rec[name] = v
	}
	return rec, nil
}

func (s *Schema) checkKeys(rec Record) error {
	for _, name := range sortedKeys(rec) {
		if _, ok := s.index[name]; !ok {
			return EncodeError{Schema: s.name, Attribute: name,
				Err: fmt.Errorf("%w: not declared in schema", ErrUnknownAttribute)}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
