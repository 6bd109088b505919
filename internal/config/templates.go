package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "config":
		return configTemplate, nil
	case "schema":
		return schemaTemplate, nil
	default:
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const configTemplate = `log_level = "info"
log_timestamp = true
strict_tag_order = false
cache_ttl = "15m"
cache_fresh_window = "5s"

[schemas]
heroes = "heroes.toml"
`

const schemaTemplate = `[[attributes]]
name = "name"
type = "string"

[[attributes]]
name = "img"
type = "ipfs"

[[attributes]]
name = "level"
type = "uint16"

[[attributes]]
name = "tags"
type = "string[]"
`
