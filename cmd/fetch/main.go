package main

import (
	"context"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/indoorgis/mvfkit/internal/api"
	"github.com/indoorgis/mvfkit/internal/config"
	"github.com/indoorgis/mvfkit/internal/export"
	"github.com/indoorgis/mvfkit/internal/logger"
	"github.com/indoorgis/mvfkit/internal/mvf"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Limit      []string `short:"l" long:"limit"  env:"LIMIT_IDS"   description:"Limit fetching to specific venue ids"`
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

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client, err := api.NewClient(cfg.API.URL, cfg.API.Key, cfg.API.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid API credentials")
	}

	venues := cfg.Venues
	if len(opts.Limit) > 0 {
		venues = filterVenues(cfg.Venues, opts.Limit)
	}

	log.Info().
		Int("venues_total", len(cfg.Venues)).
		Int("venues_queued", len(venues)).
		Msg("Starting fetch")

	writer := export.NewWriter(cfg.Output, cfg.Minify)
	ctx := context.Background()

	failed := 0
	for _, v := range venues {
		if err := fetchVenue(ctx, client, writer, v); err != nil {
			log.Error().Err(err).Str("venue_id", v.ID).Msg("Failed to fetch venue")
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
	log.Info().Msg("Fetch finished successfully")
}

func fetchVenue(ctx context.Context, client *api.Client, writer *export.Writer, v config.Venue) error {
	lastLogged := -10.0
	progress := func(percent float64) {
		if percent-lastLogged >= 10 {
			lastLogged = percent
			log.Debug().Str("venue_id", v.ID).Int("percent", int(percent)).Msg("Downloading package")
		}
	}

	path, meta, err := client.FetchPackage(ctx, v.ID, progress)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(path) }()

	if meta != nil {
		log.Debug().
			Str("venue_id", v.ID).
			Str("updated_at", meta.UpdatedAt).
			Msg("Package downloaded")
	}

	venue, err := mvf.Parse(path)
	if err != nil {
		return err
	}

	if err := writer.WriteVenue(venue, v.Name); err != nil {
		return err
	}

	log.Info().
		Str("venue", venue.Name).
		Int("layers", len(venue.Layers)).
		Msg("Venue imported")

	return nil
}

func filterVenues(venues []config.Venue, limit []string) []config.Venue {
	byID := make(map[string]config.Venue, len(venues))
	for _, v := range venues {
		byID[v.ID] = v
	}

	seen := make(map[string]bool, len(limit))
	out := make([]config.Venue, 0, len(limit))
	for _, id := range limit {
		if seen[id] {
			continue
		}
		seen[id] = true

		if v, ok := byID[id]; ok {
			out = append(out, v)
		} else {
			log.Error().Str("id", id).Msg("Venue specified in --limit not found in configuration")
		}
	}

	return out
}
