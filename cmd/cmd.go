// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Spotify authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2 + PKCE",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check stored authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored Spotify token",
				Action: r.AuthLogout,
			},
		},
	}
}

// identifyCommand recognizes the song in a clip without building a playlist.
func identifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "identify",
		Usage: "Identify the song playing in a video clip",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "video"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Identify,
	}
}

// playlistCommand runs the full clip-to-playlist pipeline.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"run"},
		Usage:   "Build a vibe playlist from a video clip",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "video"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "context",
				Usage: "Free-text description of the clip's visual content",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Number of recommendations to assemble",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name (default: '<seed track> Vibes')",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the created playlist public",
			},
			&cli.BoolFlag{
				Name:  "no-create",
				Usage: "Print the recommendations without creating a playlist",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export results to a file (format from extension: .csv, .md, .txt)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Playlist,
	}
}

// tuiCommand returns the top-level TUI command for interactive pipeline runs.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for a clip-to-playlist run",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "video"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "context",
				Usage: "Free-text description of the clip's visual content",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Number of recommendations to assemble",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name",
			},
		},
		Action: r.TUI,
	}
}
