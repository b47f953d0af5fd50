package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/vibelist/internal/formatter"
	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/shared"
	"github.com/desertthunder/vibelist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Identify recognizes the song playing in a video clip and prints its metadata.
func (r *Runner) Identify(ctx context.Context, cmd *cli.Command) error {
	videoPath := cmd.StringArg("video")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if videoPath == "" {
		return fmt.Errorf("%w: video path", shared.ErrMissingArgument)
	}

	song, err := r.engine.Identify(ctx, nil, videoPath)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(song, pretty)
	}

	r.writePlain("Song: %s - %s\n", song.Artists, song.Title)
	if song.Album != "" {
		r.writePlain("Album: %s\n", song.Album)
	}
	if len(song.Genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(song.Genres, ", "))
	}

	return nil
}

// Playlist runs the full clip-to-playlist pipeline and, unless --no-create is
// set, publishes the result as a Spotify playlist.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	videoPath := cmd.StringArg("video")
	editContext := cmd.String("context")
	limit := cmd.Int("limit")
	name := cmd.String("name")
	public := cmd.Bool("public")
	noCreate := cmd.Bool("no-create")
	outputFile := cmd.String("output")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if videoPath == "" {
		return fmt.Errorf("%w: video path", shared.ErrMissingArgument)
	}

	if r.spotify != nil {
		if err := r.ensureSpotifyAuth(ctx); err != nil {
			return err
		}
	} else {
		r.logger.Warn("Spotify credentials not configured, identification only")
	}

	progress, done := r.logProgress()
	result, err := r.engine.Run(ctx, progress, videoPath, editContext, limit)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	var playlist *models.PlaylistResult
	if !noCreate && result.SeedTrack != nil {
		progress, done = r.logProgress()
		playlist, err = r.engine.Publish(ctx, progress, result, name, public)
		close(progress)
		<-done
		if err != nil {
			return err
		}
	}

	if outputFile != "" {
		if err := r.exportResult(result, outputFile); err != nil {
			return err
		}
		r.writePlain("✓ Results exported to %s\n", outputFile)
	}

	if useJSON {
		out := struct {
			*models.PipelineResult
			Playlist *models.PlaylistResult `json:"playlist,omitempty"`
		}{result, playlist}
		return r.writeJSON(out, pretty)
	}

	r.printResult(result, playlist)
	return nil
}

// logProgress consumes pipeline progress updates on a logger until the
// returned channel is closed, signalling completion on the done channel.
func (r *Runner) logProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			if update.Total > 0 {
				r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
			} else {
				r.logger.Info(update.Message, "phase", update.Phase.String())
			}
		}
	}()

	return progress, done
}

// exportResult writes the pipeline result to a file, picking the format from
// the file extension (.csv, .md, anything else is plain text).
func (r *Runner) exportResult(result *models.PipelineResult, path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = formatter.ExportToCSV(result)
	case ".md", ".markdown":
		data, err = formatter.ExportToMarkdown(result)
	case ".json":
		data, err = formatter.ToResultJSON(result)
	default:
		data, err = formatter.ExportToText(result)
	}
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (r *Runner) printResult(result *models.PipelineResult, playlist *models.PlaylistResult) {
	r.writePlainHeader(fmt.Sprintf("%s - %s", result.Song.Artists, result.Song.Title))

	if result.Vibe != nil {
		r.writePlain("Vibe: %s\n", result.Vibe.Name)
	}
	if result.SeedTrack == nil {
		r.writePlain("\nSong identified but not found on Spotify.\n")
		return
	}

	r.writePlain("\nRecommendations (%d):\n", len(result.Recommendations))
	for i, track := range result.Recommendations {
		r.writePlain("%d. %s - %s\n", i+1, track.Artists, track.Name)
	}

	if playlist != nil {
		r.writePlainln("✓ Playlist created: %s", playlist.Name)
		r.writePlain("  Tracks: %d\n", playlist.TrackCount)
		if playlist.URL != "" {
			r.writePlain("  URL: %s\n", playlist.URL)
		}
	}
}
