package main

import (
	"os"

	"github.com/danmuck/rowcodec/internal/config"
	"github.com/danmuck/rowcodec/internal/logging"
	"github.com/danmuck/rowcodec/internal/schemafile"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func defaultPath(kind string) string {
	switch kind {
	case "config":
		return "config.toml"
	case "schema":
		return "schema.toml"
	default:
		log.Fatal().Str("kind", kind).Msg("unknown kind")
		return ""
	}
}

func main() {
	kind := flag.String("kind", "config", "template kind: config|schema")
	output := flag.String("output", "", "output path for the template")
	validate := flag.Bool("validate", false, "validate an existing file")
	input := flag.String("input", "", "path for validation (defaults to the per-kind path)")
	force := flag.Bool("force", false, "overwrite an existing file")
	flag.Parse()

	logging.ConfigureRuntime("configgen")

	if *validate {
		path := *input
		if path == "" {
			path = defaultPath(*kind)
		}
		var err error
		switch *kind {
		case "config":
			_, err = config.Load(path)
		case "schema":
			_, err = schemafile.LoadSchema(path)
		}
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("validation failed")
			os.Exit(1)
		}
		log.Info().Str("kind", *kind).Str("path", path).Msg("validated")
		return
	}

	target := *output
	if target == "" {
		target = defaultPath(*kind)
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal().Err(err).Msg("write template")
	}
	log.Info().Str("kind", *kind).Str("path", target).Msg("wrote template")
}
