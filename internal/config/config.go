// Package config loads the tracker's environment-sourced configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds everything a sync run needs.
type Config struct {
	// Strava API credentials. All three are mandatory; the refresh token is
	// the baseline credential used until the provider rotates it.
	ClientID     string
	ClientSecret string
	RefreshToken string

	// DataDir is where outputs, state and the stream cache live.
	DataDir string
}

// Load reads configuration from the environment. When envFile is non-empty
// it must exist; otherwise a ./.env file is loaded if present. Values already
// set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else {
		// Optional; a missing .env just means the environment is the source.
		_ = godotenv.Load()
	}

	cfg := &Config{
		ClientID:     os.Getenv("STRAVA_CLIENT_ID"),
		ClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
		RefreshToken: os.Getenv("STRAVA_REFRESH_TOKEN"),
		DataDir:      "data",
	}
	if dir := os.Getenv("PCT_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	return cfg, nil
}

// Validate checks that the mandatory credentials are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("STRAVA_CLIENT_ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("STRAVA_CLIENT_SECRET is required")
	}
	if c.RefreshToken == "" {
		return errors.New("STRAVA_REFRESH_TOKEN is required")
	}
	return nil
}

// TrackPath is the GeoJSON track output file.
func (c *Config) TrackPath() string {
	return filepath.Join(c.DataDir, "track.geojson")
}

// LatestPath is the latest-position output file.
func (c *Config) LatestPath() string {
	return filepath.Join(c.DataDir, "latest.json")
}

// StatePath is the sync state document.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "strava_state.json")
}

// CachePath is the stream cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "streams.db")
}
