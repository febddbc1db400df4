package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/indoorgis/mvfkit/internal/export"
	"github.com/indoorgis/mvfkit/internal/logger"
	"github.com/indoorgis/mvfkit/internal/mvf"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Output string `short:"o" long:"output" env:"OUTPUT_DIR" description:"Directory to write layer files to" default:"layers"`
	Minify bool   `short:"m" long:"minify" description:"Minify exported GeoJSON"`

	Args struct {
		Packages []string `positional-arg-name:"package" required:"1" description:"MVF package files (.mvf or .zip)"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	writer := export.NewWriter(opts.Output, opts.Minify)

	failed := 0
	for _, path := range opts.Args.Packages {
		venue, err := mvf.Parse(path)
		if err != nil {
			log.Error().Err(err).Str("package", path).Msg("Failed to parse package")
			failed++
			continue
		}

		if err := writer.WriteVenue(venue, ""); err != nil {
			log.Error().Err(err).Str("venue", venue.Name).Msg("Failed to write layers")
			failed++
			continue
		}

		log.Info().
			Str("venue", venue.Name).
			Int("layers", len(venue.Layers)).
			Str("output", opts.Output).
			Msg("Package imported")
	}

	if failed > 0 {
		os.Exit(1)
	}
}
