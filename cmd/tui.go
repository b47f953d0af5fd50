package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vibelist/internal/shared"
	"github.com/desertthunder/vibelist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for a clip-to-playlist run.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	videoPath := cmd.StringArg("video")
	if videoPath == "" {
		return fmt.Errorf("%w: video path", shared.ErrMissingArgument)
	}

	if r.spotify != nil {
		if err := r.ensureSpotifyAuth(ctx); err != nil {
			return err
		}
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/vibelist-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, videoPath, cmd.String("context"), cmd.String("name"), cmd.Int("limit"))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
