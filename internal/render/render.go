// Package render writes decoded records for humans and downstream tools.
package render

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("render: unknown output format")

// Formats lists the accepted output format names.
var Formats = []string{"json", "yaml", "cbor", "cbor-diag"}

// encMode uses Core Deterministic Encoding so the same record always
// renders to the same CBOR bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}
}

// Write renders v to w in the named format. CBOR is written as hex.
func Write(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		b, err := encMode.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, hex.EncodeToString(b))
		return err
	case "cbor-diag":
		b, err := encMode.Marshal(v)
		if err != nil {
			return err
		}
		diag, err := cbor.Diagnose(b)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, diag)
		return err
	default:
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}
