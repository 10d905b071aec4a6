// Command pcttracker syncs a Strava athlete's recent activities, keeps those
// near the Pacific Crest Trail and writes a renderable GeoJSON track with
// per-activity elevation profiles. It is meant to be run periodically from a
// scheduler; every run rebuilds the outputs from scratch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"pcttracker/internal/auth"
	"pcttracker/internal/config"
	"pcttracker/internal/service"
	"pcttracker/internal/state"
	"pcttracker/internal/store"
	"pcttracker/internal/strava"
	"pcttracker/internal/trail"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	envFile := flag.String("env", "", "env file to load (defaults to ./.env when present)")
	preview := flag.Bool("preview", false, "print the newest activity's elevation profile after syncing")
	noCache := flag.Bool("no-cache", false, "fetch every stream from the provider instead of the local cache")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	stateStore := state.NewStore(cfg.StatePath())

	// Prefer the rotated refresh token from the last run over the
	// configured baseline.
	saved, err := stateStore.Load()
	if err != nil {
		return fmt.Errorf("loading sync state: %w", err)
	}
	refreshToken := cfg.RefreshToken
	if saved.RefreshToken != "" {
		refreshToken = saved.RefreshToken
	}

	tokens := auth.NewTokenSource(auth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}, refreshToken, stateStore.SetRefreshToken)

	client := strava.NewClient(tokens)

	var cache *store.Cache
	if !*noCache {
		cache, err = store.Open(cfg.CachePath())
		if err != nil {
			// The cache is an optimization; a run without it is just slower.
			log.Printf("stream cache unavailable: %v", err)
		} else {
			defer cache.Close()
		}
	}

	svc := service.New(tokens, client, trail.PCT(), stateStore, cache, service.Options{
		TrackPath:  cfg.TrackPath(),
		LatestPath: cfg.LatestPath(),
		Preview:    *preview,
	})

	_, err = svc.Run(context.Background())
	return err
}
