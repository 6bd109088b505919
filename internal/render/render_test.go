package render

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/maxatome/go-testdeep/td"
	"gopkg.in/yaml.v3"
)

var sample = map[string]any{"name": "Ayla", "level": int64(3), "tags": []any{"a"}}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "json", sample); err != nil {
		t.Fatalf("write json: %v", err)
	}
	want := "{\n  \"level\": 3,\n  \"name\": \"Ayla\",\n  \"tags\": [\n    \"a\"\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("unexpected json:\n%s", buf.String())
	}
}

func TestWriteYAMLRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "yaml", sample); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	td.Cmp(t, back, map[string]any{"name": "Ayla", "level": 3, "tags": []any{"a"}})
}

func TestWriteCBORDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	if err := Write(&first, "cbor", sample); err != nil {
		t.Fatalf("write cbor: %v", err)
	}
	if err := Write(&second, "CBOR", sample); err != nil {
		t.Fatalf("write cbor: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("cbor output not deterministic")
	}
	raw, err := hex.DecodeString(strings.TrimSpace(first.String()))
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	var back map[string]any
	if err := cbor.Unmarshal(raw, &back); err != nil {
		t.Fatalf("parse cbor: %v", err)
	}
	if back["name"] != "Ayla" {
		t.Fatalf("unexpected cbor contents: %v", back)
	}

	var diag bytes.Buffer
	if err := Write(&diag, "cbor-diag", sample); err != nil {
		t.Fatalf("write cbor-diag: %v", err)
	}
	if !strings.Contains(diag.String(), `"name": "Ayla"`) {
		t.Fatalf("unexpected diagnostic output: %s", diag.String())
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "xml", sample); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
