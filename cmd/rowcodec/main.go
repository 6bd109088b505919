package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("rowcodec failed")
		os.Exit(1)
	}
}
