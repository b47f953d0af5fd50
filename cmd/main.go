package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibelist/internal/extract"
	"github.com/desertthunder/vibelist/internal/services"
	"github.com/desertthunder/vibelist/internal/shared"
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

	opts := RunnerOpts{
		Config:    config,
		Logger:    logger,
		Extractor: extract.NewFFmpeg("ffmpeg", config.Pipeline.ClipSeconds),
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify, config.Pipeline.Market); err == nil {
			opts.Spotify = svc
		}
	}

	if config.Credentials.ACRCloud.AccessKey != "" && config.Credentials.ACRCloud.SecretKey != "" {
		if svc, err := services.NewACRCloudService(config.Credentials.ACRCloud); err == nil {
			opts.Identifier = svc
		}
	}

	if config.Credentials.OpenAI.APIKey != "" {
		if svc, err := services.NewOpenAIService(config.Credentials.OpenAI); err == nil {
			opts.Generator = svc
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:    "vibelist",
		Usage:   "Turn a video clip into a Spotify playlist that matches its vibe",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
