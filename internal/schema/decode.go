package schema

import (
	"github.com/danmuck/rowcodec/internal/observability"
	"github.com/danmuck/rowcodec/internal/wire"
	"github.com/rs/zerolog/log"
)

// Deserialize reads one record from c. It stops after a zero terminator or
// at the end of the buffer, whichever comes first. On failure no record is
// returned and the cursor position is unspecified.
func (s *Schema) Deserialize(c *wire.Cursor) (Record, error) {
	start := c.Pos()
	rec, err := s.deserialize(c)
	observability.RecordCodecOp(s.name, "decode", resultLabel(err), c.Pos()-start)
	if err != nil {
		log.Warn().Err(err).Str("schema", s.name).Int("offset", c.Pos()).Msg("schema.Deserialize failed")
		return nil, err
	}
	log.Debug().Str("schema", s.name).Int("attributes", len(rec)).Int("bytes", c.Pos()-start).Msg("schema.Deserialize ok")
	return rec, nil
}

// Decode deserializes a record from data.
func (s *Schema) Decode(data []byte) (Record, error) {
	return s.Deserialize(wire.NewCursor(data))
}

func (s *Schema) deserialize(c *wire.Cursor) (Record, error) {
	rec := make(Record)
	var last uint64
	for !c.Done() {
		offset := c.Pos()
		n, err := wire.Unpack(c)
		if err != nil {
			return nil, DecodeError{Schema: s.name, Offset: offset, Err: err}
		}
		if n.Sign() == 0 {
			break
		}
		if !n.IsUint64() {
			return nil, DecodeError{Schema: s.name, Offset: offset, Err: ErrUnknownAttribute}
		}
		tag := n.Uint64()
		a, ok := s.Attribute(tag)
		if !ok {
			// The encoder's schema has more attributes than ours.
			return nil, DecodeError{Schema: s.name, Offset: offset, Tag: tag, Err: ErrUnknownAttribute}
		}
		if s.strictOrder && tag <= last {
			return nil, DecodeError{Schema: s.name, Offset: offset, Tag: tag, Attribute: a.Name, Err: ErrTagOrder}
		}
		last = tag
		v, err := a.Codec.Deserialize(c)
		if err != nil {
			return nil, DecodeError{Schema: s.name, Offset: offset, Tag: tag, Attribute: a.Name, Err: err}
		}
		rec[a.Name] = v
	}
	return rec, nil
}
