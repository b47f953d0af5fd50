package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/desertthunder/vibelist/internal/models"
)

func reviewedResult() *models.PipelineResult {
	return &models.PipelineResult{
		Song:      models.SongMetadata{Title: "Perfect", Artists: "Ed Sheeran"},
		Vibe:      &models.Vibe{Name: "Romantic"},
		SeedTrack: &models.ResolvedTrack{ID: "seed", Name: "Perfect", Artists: "Ed Sheeran"},
		Recommendations: models.RecommendationSet{
			{ID: "t1", Name: "Photograph", Artists: "Ed Sheeran"},
		},
	}
}

func TestTrackItem(t *testing.T) {
	track := models.ResolvedTrack{ID: "t1", Name: "Photograph", Artists: "Ed Sheeran"}

	t.Run("seed is starred", func(t *testing.T) {
		item := trackItem{track: track, seed: true}
		if item.Title() != "★ Photograph" {
			t.Errorf("expected starred title, got %q", item.Title())
		}
	})

	t.Run("recommendation", func(t *testing.T) {
		item := trackItem{track: track}
		if item.Title() != "Photograph" {
			t.Errorf("expected plain title, got %q", item.Title())
		}
		if item.Description() != "Ed Sheeran" {
			t.Errorf("expected artists as description, got %q", item.Description())
		}
		if item.FilterValue() != "Photograph" {
			t.Errorf("expected name as filter value, got %q", item.FilterValue())
		}
	})
}

func TestKeyMap(t *testing.T) {
	keys := newKeyMap()

	t.Run("ShortHelp", func(t *testing.T) {
		short := keys.ShortHelp()
		if len(short) != 1 {
			t.Fatalf("expected quit only, got %d bindings", len(short))
		}
		if short[0].Help().Key != "q" {
			t.Errorf("expected quit binding, got %q", short[0].Help().Key)
		}
	})

	t.Run("FullHelp covers only workflow keys", func(t *testing.T) {
		surfaced := map[string]bool{}
		for _, row := range keys.FullHelp() {
			for _, binding := range row {
				for _, k := range binding.Keys() {
					surfaced[k] = true
				}
			}
		}

		for _, want := range []string{"enter", "y", "n", "r", "q"} {
			if !surfaced[want] {
				t.Errorf("expected %q to be surfaced in help", want)
			}
		}
		for _, navigation := range []string{"up", "down", "esc"} {
			if surfaced[navigation] {
				t.Errorf("list navigation key %q should not be duplicated in help", navigation)
			}
		}
	})
}

func TestModel(t *testing.T) {
	t.Run("NewModel starts in run view", func(t *testing.T) {
		m := NewModel(context.Background(), nil, "clip.mp4", "", "", 0)
		if m.view != RunView {
			t.Errorf("expected RunView, got %d", m.view)
		}
	})

	t.Run("confirm view defaults name from seed track", func(t *testing.T) {
		m := NewModel(context.Background(), nil, "clip.mp4", "", "", 0)
		m.result = reviewedResult()
		m.view = ConfirmView

		if !strings.Contains(m.renderConfirm(), "Perfect Vibes") {
			t.Errorf("expected default playlist name, got %q", m.renderConfirm())
		}
	})

	t.Run("confirm view honors explicit name", func(t *testing.T) {
		m := NewModel(context.Background(), nil, "clip.mp4", "", "Date Night", 0)
		m.result = reviewedResult()
		m.view = ConfirmView

		if !strings.Contains(m.renderConfirm(), "Date Night") {
			t.Errorf("expected explicit playlist name, got %q", m.renderConfirm())
		}
	})

	t.Run("review view without seed explains degradation", func(t *testing.T) {
		m := NewModel(context.Background(), nil, "clip.mp4", "", "", 0)
		m.result = &models.PipelineResult{Song: models.SongMetadata{Title: "Obscure", Artists: "Nobody"}}
		m.view = ReviewView

		if !strings.Contains(m.renderReview(), "Not found on Spotify") {
			t.Errorf("expected not-found explanation, got %q", m.renderReview())
		}
	})
}
