package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vibelist/internal/models"
)

func fullResult() *models.PipelineResult {
	return &models.PipelineResult{
		Song: models.SongMetadata{
			Title:   "Perfect",
			Artists: "Ed Sheeran",
			Album:   "Divide",
			Genres:  []string{"pop", "acoustic"},
		},
		Vibe: &models.Vibe{Name: "Romantic", TargetGenres: []string{"pop", "acoustic"}},
		SeedTrack: &models.ResolvedTrack{
			ID:      "seed1",
			URI:     "spotify:track:seed1",
			Name:    "Perfect",
			Artists: "Ed Sheeran",
		},
		Recommendations: models.RecommendationSet{
			{ID: "t1", URI: "spotify:track:t1", Name: "Photograph", Artists: "Ed Sheeran"},
			{ID: "t2", URI: "spotify:track:t2", Name: "All of Me", Artists: "John Legend"},
		},
	}
}

func degradedResult() *models.PipelineResult {
	return &models.PipelineResult{
		Song: models.SongMetadata{Title: "Obscure", Artists: "Nobody"},
		Vibe: &models.Vibe{Name: "Feel-Good"},
	}
}

func TestFormatter(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		t.Run("seed occupies position zero", func(t *testing.T) {
			data, err := ExportToCSV(fullResult())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != 4 {
				t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
			}

			if lines[0] != "Position,ID,Name,Artists,URI" {
				t.Errorf("unexpected header %q", lines[0])
			}
			if !strings.HasPrefix(lines[1], "0,seed1,Perfect") {
				t.Errorf("expected seed at position 0, got %q", lines[1])
			}
			if !strings.HasPrefix(lines[2], "1,t1,Photograph") {
				t.Errorf("expected first recommendation at position 1, got %q", lines[2])
			}
			if !strings.HasPrefix(lines[3], "2,t2,All of Me") {
				t.Errorf("expected second recommendation at position 2, got %q", lines[3])
			}
		})

		t.Run("no seed skips position zero", func(t *testing.T) {
			data, err := ExportToCSV(degradedResult())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != 1 {
				t.Errorf("expected header only, got %d lines", len(lines))
			}
		})
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("full result", func(t *testing.T) {
			data, err := ExportToMarkdown(fullResult())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Ed Sheeran - Perfect",
				"**Album**: Divide",
				"**Genres**: pop, acoustic",
				"**Vibe**: Romantic",
				"**Seed track**: [Perfect](spotify:track:seed1)",
				"## Recommendations (2)",
				"1. Ed Sheeran - Photograph",
				"2. John Legend - All of Me",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("expected markdown to contain %q:\n%s", want, output)
				}
			}
		})

		t.Run("unresolved seed", func(t *testing.T) {
			data, err := ExportToMarkdown(degradedResult())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			output := string(data)
			if !strings.Contains(output, "_Not found on Spotify._") {
				t.Errorf("expected not-found marker:\n%s", output)
			}
			if strings.Contains(output, "## Recommendations") {
				t.Error("expected no recommendations section without a seed")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(fullResult())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Song: Ed Sheeran - Perfect",
			"Vibe: Romantic",
			"Recommendations: 2",
			"1. Ed Sheeran - Photograph",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected text to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("ToResultJSON", func(t *testing.T) {
		data, err := ToResultJSON(fullResult())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded models.PipelineResult
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if decoded.Song.Title != "Perfect" {
			t.Errorf("expected song title to round trip, got %s", decoded.Song.Title)
		}
		if len(decoded.Recommendations) != 2 {
			t.Errorf("expected 2 recommendations, got %d", len(decoded.Recommendations))
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		t.Run("explicit path", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "export.txt")

			written, err := WriteTextExport(fullResult(), path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if written != path {
				t.Errorf("expected path %s, got %s", path, written)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected file to exist: %v", err)
			}
			if !strings.Contains(string(data), "Song: Ed Sheeran - Perfect") {
				t.Error("expected exported text content")
			}
		})

		t.Run("default filename uses seed ID", func(t *testing.T) {
			tmpDir := t.TempDir()
			cwd, _ := os.Getwd()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			t.Cleanup(func() { os.Chdir(cwd) })

			written, err := WriteTextExport(fullResult(), "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if written != "seed1_tracks.txt" {
				t.Errorf("expected seed1_tracks.txt, got %s", written)
			}
		})

		t.Run("default filename without seed", func(t *testing.T) {
			tmpDir := t.TempDir()
			cwd, _ := os.Getwd()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			t.Cleanup(func() { os.Chdir(cwd) })

			written, err := WriteTextExport(degradedResult(), "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if written != "vibelist_tracks.txt" {
				t.Errorf("expected vibelist_tracks.txt, got %s", written)
			}
		})
	})
}
