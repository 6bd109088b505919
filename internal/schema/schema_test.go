package schema

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/danmuck/rowcodec/internal/attr"
	"github.com/danmuck/rowcodec/internal/testutil/testlog"
	"github.com/danmuck/rowcodec/internal/wire"
	"github.com/maxatome/go-testdeep/td"
)

var heroFormat = Format{
	{Name: "name", Type: "string"},
	{Name: "img", Type: "ipfs"},
	{Name: "level", Type: "uint16"},
	{Name: "power", Type: "int64"},
	{Name: "serial", Type: "uint64"},
	{Name: "weight", Type: "double"},
	{Name: "alive", Type: "bool"},
	{Name: "tags", Type: "string[]"},
	{Name: "checksum", Type: "fixed32"},
	{Name: "blob", Type: "bytes"},
}

func heroSchema(t *testing.T, opts ...Option) *Schema {
	t.Helper()
	s, err := New(heroFormat, append([]Option{WithName("heroes")}, opts...)...)
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	return s
}

func TestConcreteScenarioSparseString(t *testing.T) {
	testlog.Start(t)
	s, err := New(Format{{Name: "a", Type: "bool"}, {Name: "b", Type: "string"}})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	got, err := s.Serialize(Record{"b": attr.String("hi")})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := append(append(wire.PackUint(2), 0x02, 'h', 'i'), wire.PackUint(0)...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x want %x", got, want)
	}

	rec, err := s.Decode(want)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := rec["a"]; ok {
		t.Fatalf("absent attribute decoded: %v", rec.Native())
	}
	td.Cmp(t, rec.Native(), map[string]any{"b": "hi"})
}

func TestRoundTripPartialRecords(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	huge, _ := attr.ParseInt("18446744073709551615")
	full := Record{
		"name":     attr.String("Ayla"),
		"img":      attr.String("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"),
		"level":    attr.NewUint(42),
		"power":    attr.NewInt(-9000),
		"serial":   huge,
		"weight":   attr.Float(72.25),
		"alive":    attr.Bool(false),
		"tags":     attr.Array{attr.String("rare"), attr.String("gold")},
		"checksum": attr.NewUint(0xcafebabe),
		"blob":     attr.Bytes{0x00, 0x01},
	}
	subsets := []Record{
		{},
		full,
		{"serial": huge},
		{"alive": attr.Bool(true), "blob": attr.Bytes{}},
		{"name": attr.String("x"), "checksum": attr.NewUint(0)},
	}
	for _, rec := range subsets {
		b, err := s.Serialize(rec)
		if err != nil {
			t.Fatalf("serialize %v: %v", rec.Native(), err)
		}
		got, err := s.Decode(b)
		if err != nil {
			t.Fatalf("decode %x: %v", b, err)
		}
		if !got.Equal(rec) {
			t.Fatalf("round-trip mismatch: got %v want %v", got.Native(), rec.Native())
		}
	}
}

func TestEmptyRecordIsSingleTerminator(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	for _, rec := range []Record{nil, {}, {"name": nil}} {
		b, err := s.Serialize(rec)
		if err != nil {
			t.Fatalf("serialize: %v", err)
		}
		if !bytes.Equal(b, []byte{0x00}) {
			t.Fatalf("expected single 0x00, got %x", b)
		}
	}
}

func TestSerializeDeterministicAndSized(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	rec := Record{
		"tags":  attr.Array{attr.String("a")},
		"name":  attr.String("n"),
		"level": attr.NewUint(300),
	}
	first, err := s.Serialize(rec)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := s.Serialize(rec)
		if err != nil {
			t.Fatalf("serialize: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("non-deterministic output: %x vs %x", first, again)
		}
	}
	// name (1+2) + level (1+2) + tags (1+3) + terminator
	if len(first) != 3+3+4+1 {
		t.Fatalf("unexpected encoded size %d: %x", len(first), first)
	}
	want := []byte{0x01, 0x01, 'n', 0x03, 0xac, 0x02, 0x08, 0x01, 0x01, 'a', 0x00}
	if !bytes.Equal(first, want) {
		t.Fatalf("got %x want %x", first, want)
	}
}

func TestDecodeTagBeyondSchema(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	buf := append(wire.PackUint(uint64(s.Len()+1)), 0x00, 0x00)
	_, err := s.Decode(buf)
	if !errors.Is(err, ErrUnknownAttribute) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}
	var de DecodeError
	if !errors.As(err, &de) || de.Tag != uint64(s.Len()+1) || de.Offset != 0 {
		t.Fatalf("unexpected decode error: %+v", err)
	}
}

func TestDecodeHugeTagIsUnknownAttribute(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	tag, err := wire.Pack(new(big.Int).Lsh(big.NewInt(1), 80))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if _, err := s.Decode(tag); !errors.Is(err, ErrUnknownAttribute) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestDecodeTruncatedValue(t *testing.T) {
	testlog.Start(t)
	s, err := New(Format{{Name: "big", Type: "fixed64"}, {Name: "d", Type: "double"}})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	for _, buf := range [][]byte{
		{0x01, 0xaa, 0xbb, 0xcc},
		{0x02, 0x00, 0x00, 0x00},
	} {
		rec, err := s.Decode(buf)
		if !errors.Is(err, wire.ErrUnexpectedEndOfBuffer) {
			t.Fatalf("%x: expected ErrUnexpectedEndOfBuffer, got %v", buf, err)
		}
		if rec != nil {
			t.Fatalf("%x: partial record returned: %v", buf, rec.Native())
		}
		var de DecodeError
		if !errors.As(err, &de) || de.Attribute == "" {
			t.Fatalf("expected DecodeError naming the attribute, got %v", err)
		}
	}
}

func TestDecodeMalformedTag(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	if _, err := s.Decode([]byte{0x01, 0x01, 'x', 0x80}); !errors.Is(err, wire.ErrMalformedVarint) {
		t.Fatalf("expected ErrMalformedVarint, got %v", err)
	}
}

func TestDecodeStopsAtTerminatorOrEnd(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)

	// No terminator: decoding ends with the buffer.
	rec, err := s.Decode([]byte{0x07, 0x01})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	td.Cmp(t, rec.Native(), map[string]any{"alive": true})

	// Two records back to back share one cursor.
	c := wire.NewCursor([]byte{0x07, 0x01, 0x00, 0x03, 0x05, 0x00})
	first, err := s.Deserialize(c)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := s.Deserialize(c)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	td.Cmp(t, first.Native(), map[string]any{"alive": true})
	td.Cmp(t, second.Native(), map[string]any{"level": int64(5)})
	if !c.Done() {
		t.Fatalf("expected cursor at end, %d left", c.Remaining())
	}
}

func TestDecodeAcceptsOutOfOrderTagsByDefault(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	buf := []byte{0x07, 0x01, 0x01, 0x01, 'z', 0x00}
	rec, err := s.Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	td.Cmp(t, rec.Native(), map[string]any{"alive": true, "name": "z"})

	strict := heroSchema(t, WithStrictTagOrder())
	if _, err := strict.Decode(buf); !errors.Is(err, ErrTagOrder) {
		t.Fatalf("expected ErrTagOrder, got %v", err)
	}
	ordered, err := strict.Serialize(rec)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if _, err := strict.Decode(ordered); err != nil {
		t.Fatalf("strict decode of encoder output: %v", err)
	}
}

func TestNewUnknownTypeYieldsNoSchema(t *testing.T) {
	testlog.Start(t)
	s, err := New(Format{{Name: "a", Type: "string"}, {Name: "b", Type: "uint128"}})
	if s != nil {
		t.Fatalf("partial schema returned")
	}
	if !errors.Is(err, attr.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	var fe FormatError
	if !errors.As(err, &fe) || fe.Index != 1 || fe.Type != "uint128" {
		t.Fatalf("unexpected format error: %+v", err)
	}
}

func TestNewRejectsBadNames(t *testing.T) {
	testlog.Start(t)
	for _, f := range []Format{
		{{Name: " ", Type: "string"}},
		{{Name: "a", Type: "string"}, {Name: "a", Type: "bool"}},
	} {
		if _, err := New(f); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("format %+v: expected ErrInvalidFormat, got %v", f, err)
		}
	}
}

func TestSerializeErrors(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)

	_, err := s.Serialize(Record{"nope": attr.String("x")})
	if !errors.Is(err, ErrUnknownAttribute) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}

	_, err = s.Serialize(Record{"level": attr.NewUint(70000)})
	if !errors.Is(err, attr.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	var ee EncodeError
	if !errors.As(err, &ee) || ee.Attribute != "level" {
		t.Fatalf("expected EncodeError for level, got %v", err)
	}
}

func TestSerializeNative(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	b, err := s.SerializeNative(map[string]any{
		"name":   "Ayla",
		"level":  float64(3),
		"serial": "18446744073709551616",
		"tags":   []any{"x"},
		"alive":  nil,
	})
	if !errors.Is(err, attr.ErrInvalidValue) {
		t.Fatalf("expected uint64 overflow to fail, got %v (%x)", err, b)
	}

	b, err = s.SerializeNative(map[string]any{
		"name":   "Ayla",
		"level":  float64(3),
		"serial": "18446744073709551615",
		"tags":   []any{"x"},
		"alive":  nil,
	})
	if err != nil {
		t.Fatalf("serialize native: %v", err)
	}
	rec, err := s.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	td.Cmp(t, rec.Native(), map[string]any{
		"name":   "Ayla",
		"level":  int64(3),
		"serial": uint64(18446744073709551615),
		"tags":   []any{"x"},
	})

	if _, err := s.SerializeNative(map[string]any{"ghost": 1}); !errors.Is(err, ErrUnknownAttribute) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestSchemaAccessors(t *testing.T) {
	testlog.Start(t)
	s := heroSchema(t)
	if s.Name() != "heroes" || s.Len() != len(heroFormat) {
		t.Fatalf("unexpected name/len: %s %d", s.Name(), s.Len())
	}
	td.Cmp(t, s.Format(), heroFormat)
	if _, ok := s.Attribute(0); ok {
		t.Fatalf("tag 0 must not resolve")
	}
	a, ok := s.Attribute(2)
	if !ok || a.Name != "img" {
		t.Fatalf("tag 2: got %+v ok=%v", a, ok)
	}
	_, tag, ok := s.Lookup("blob")
	if !ok || tag != 10 {
		t.Fatalf("lookup blob: tag=%d ok=%v", tag, ok)
	}
}

func TestRecordMerge(t *testing.T) {
	testlog.Start(t)
	base := Record{"name": attr.String("a"), "level": attr.NewUint(1)}
	merged := base.Merge(Record{"level": attr.NewUint(2)}, Record{"alive": attr.Bool(true), "name": nil})
	td.Cmp(t, merged.Native(), map[string]any{"name": "a", "level": int64(2), "alive": true})
	td.Cmp(t, base.Native(), map[string]any{"name": "a", "level": int64(1)})
}
