// Package schemafile loads schema descriptions from disk.
//
// Supported encodings, chosen by file extension:
//
//	.json .jsonc   [{"name": "...", "type": "..."}, ...]   (comments allowed)
//	.yaml .yml     - name: ...
//	                 type: ...
//	.toml          [[attributes]]
//	               name = "..."
//	               type = "..."
package schemafile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/rowcodec/internal/schema"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("schemafile: unsupported file format")

type tomlFile struct {
	Attributes schema.Format `toml:"attributes"`
}

// Load reads and parses the schema description at path.
func Load(path string) (schema.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile load failed (%s): %w", path, err)
	}
	format, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("schemafile parse failed (%s): %w", path, err)
	}
	log.Debug().Str("path", path).Int("attributes", len(format)).Msg("schemafile.Load ok")
	return format, nil
}

// LoadSchema loads path and builds the schema, named after the file unless
// opts override it.
func LoadSchema(path string, opts ...schema.Option) (*schema.Schema, error) {
	format, err := Load(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return schema.New(format, append([]schema.Option{schema.WithName(name)}, opts...)...)
}

// Parse decodes data according to ext (with or without the leading dot).
func Parse(data []byte, ext string) (schema.Format, error) {
	var format schema.Format
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json", "jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&format); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&format); err != nil {
			return nil, err
		}
	case "toml":
		var file tomlFile
		meta, err := toml.Decode(string(data), &file)
		if err != nil {
			return nil, err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
		format = file.Attributes
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return format, nil
}
