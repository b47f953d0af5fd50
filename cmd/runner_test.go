package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/shared"
	"github.com/desertthunder/vibelist/internal/tasks"
	tu "github.com/desertthunder/vibelist/internal/testing"
)

func testRunner(output *bytes.Buffer, opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = output
	}
	return NewRunner(opts)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			identifier := &tu.MockIdentifier{}
			generator := &tu.MockGenerator{}
			extractor := &tu.MockExtractor{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Identifier: identifier,
				Generator:  generator,
				Extractor:  extractor,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.identifier != identifier {
				t.Error("expected identifier to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 5 {
			t.Errorf("expected 5 top-level commands, got %d", len(commands))
		}

		names := map[string]bool{}
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "identify", "playlist", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := testRunner(output, RunnerOpts{})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := testRunner(output, RunnerOpts{})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})

		t.Run("write failure surfaces", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := testRunner(output, RunnerOpts{})

		if err := runner.writePlain("track %d: %s\n", 1, "Perfect"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "track 1: Perfect\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("logProgress", func(t *testing.T) {
		logOutput := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(logOutput), Output: &bytes.Buffer{}})

		progress, done := runner.logProgress()
		progress <- tasks.ProgressUpdate{Phase: tasks.Classify, Message: "classifying vibe"}
		progress <- tasks.ProgressUpdate{Phase: tasks.SearchCandidates, Message: "searching", Step: 3, Total: 19}
		close(progress)
		<-done

		logged := logOutput.String()
		if !strings.Contains(logged, "classifying vibe") {
			t.Errorf("expected progress message in log, got %q", logged)
		}
		if !strings.Contains(logged, "total") {
			t.Errorf("expected step accounting for counted phases, got %q", logged)
		}
	})

	t.Run("ensureSpotifyAuth", func(t *testing.T) {
		t.Run("without spotify service", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			err := runner.ensureSpotifyAuth(context.Background())
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("exportResult", func(t *testing.T) {
		result := &models.PipelineResult{
			Song:      models.SongMetadata{Title: "Perfect", Artists: "Ed Sheeran", Genres: []string{"pop"}},
			SeedTrack: &models.ResolvedTrack{ID: "seed", URI: "spotify:track:seed", Name: "Perfect", Artists: "Ed Sheeran"},
			Recommendations: models.RecommendationSet{
				{ID: "t1", URI: "spotify:track:t1", Name: "Photograph", Artists: "Ed Sheeran"},
			},
		}

		runner := testRunner(&bytes.Buffer{}, RunnerOpts{})

		t.Run("csv", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.csv")
			if err := runner.exportResult(result, path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			content := tu.MustReadFile(t, path)
			if !strings.Contains(content, "Position,ID,Name,Artists,URI") {
				t.Error("expected CSV header")
			}
			if !strings.Contains(content, "0,seed,Perfect") {
				t.Error("expected seed at position 0")
			}
		})

		t.Run("markdown", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.md")
			if err := runner.exportResult(result, path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(tu.MustReadFile(t, path), "# Ed Sheeran - Perfect") {
				t.Error("expected markdown heading")
			}
		})

		t.Run("text fallback", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.dat")
			if err := runner.exportResult(result, path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(tu.MustReadFile(t, path), "Song: Ed Sheeran - Perfect") {
				t.Error("expected plain text export")
			}
		})
	})

	t.Run("printResult", func(t *testing.T) {
		t.Run("unresolved seed", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := testRunner(output, RunnerOpts{})

			runner.printResult(&models.PipelineResult{
				Song: models.SongMetadata{Title: "Obscure", Artists: "Nobody"},
			}, nil)

			if !strings.Contains(output.String(), "not found on Spotify") {
				t.Errorf("expected not-found message, got %s", output.String())
			}
		})

		t.Run("with playlist", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := testRunner(output, RunnerOpts{})

			runner.printResult(&models.PipelineResult{
				Song:      models.SongMetadata{Title: "Perfect", Artists: "Ed Sheeran"},
				Vibe:      &models.Vibe{Name: "Romantic"},
				SeedTrack: &models.ResolvedTrack{ID: "seed", Name: "Perfect"},
				Recommendations: models.RecommendationSet{
					{ID: "t1", Name: "Photograph", Artists: "Ed Sheeran"},
				},
			}, &models.PlaylistResult{Name: "Perfect Vibes", TrackCount: 2, URL: "https://open.spotify.com/playlist/pl1"})

			out := output.String()
			for _, want := range []string{"Vibe: Romantic", "1. Ed Sheeran - Photograph", "Playlist created: Perfect Vibes"} {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got %s", want, out)
				}
			}
		})
	})
}
