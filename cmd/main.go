package main

import (
	"context"
	"os"
	"strings"

	"github.com/desertthunder/airlift/internal/services"
	"github.com/desertthunder/airlift/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService *services.SpotifyService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(map[string]string{
			"client_id":     config.Credentials.Spotify.ClientID,
			"client_secret": config.Credentials.Spotify.ClientSecret,
			"redirect_uri":  config.Credentials.Spotify.RedirectURI,
			"user_id":       config.Credentials.Spotify.UserID,
			"scopes":        strings.Join(config.Credentials.Spotify.Scopes, " "),
		}); err == nil {
			spotifyService = svc
		}
	}

	var source services.Source
	if svc, err := services.NewStationService(services.StationOpts{
		URL:          config.Station.URL,
		ArtistMarker: config.Station.ArtistMarker,
		TitleMarker:  config.Station.TitleMarker,
		FetchTimeout: config.Station.FetchTimeout(),
	}); err == nil {
		source = svc
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Source:  source,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "airlift",
		Usage:    "Curate a Spotify playlist from a radio station's now-playing feed",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
