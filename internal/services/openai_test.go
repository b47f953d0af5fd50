package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/shared"
)

func completionBody(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(payload)
}

func testGenerator(t *testing.T, baseURL string) *OpenAIService {
	t.Helper()

	srv, err := NewOpenAIService(shared.OpenAIConfig{
		APIKey:  "test_api_key",
		Model:   "gpt-4o-mini",
		BaseURL: baseURL,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv
}

func TestOpenAIService(t *testing.T) {
	seed := models.SongMetadata{
		Title:   "Perfect",
		Artists: "Ed Sheeran",
		Genres:  []string{"pop"},
	}

	t.Run("NewOpenAIService", func(t *testing.T) {
		t.Run("Missing API Key", func(t *testing.T) {
			if _, err := NewOpenAIService(shared.OpenAIConfig{}); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			srv, err := NewOpenAIService(shared.OpenAIConfig{APIKey: "key"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.baseURL != defaultOpenAIBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.model != "gpt-4o-mini" {
				t.Errorf("expected default model, got %s", srv.model)
			}
			var _ Generator = srv
		})
	})

	t.Run("Suggest", func(t *testing.T) {
		t.Run("Parses Suggestions", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/chat/completions" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test_api_key" {
					t.Errorf("unexpected authorization header %q", got)
				}

				var req chatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				if req.Model != "gpt-4o-mini" {
					t.Errorf("expected configured model, got %s", req.Model)
				}
				if len(req.Messages) != 1 {
					t.Fatalf("expected a single message, got %d", len(req.Messages))
				}

				fmt.Fprint(w, completionBody(`[{"title":"Photograph","artist":"Ed Sheeran"},{"title":"All of Me","artist":"John Legend"}]`))
			}))
			defer server.Close()

			suggestions, err := testGenerator(t, server.URL).Suggest(context.Background(), seed, "Romantic", "", 2)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(suggestions) != 2 {
				t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
			}
			if suggestions[0].Title != "Photograph" || suggestions[1].Artist != "John Legend" {
				t.Errorf("unexpected suggestions %+v", suggestions)
			}
		})

		t.Run("Strips Code Fences", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, completionBody("```json\n[{\"title\":\"Photograph\",\"artist\":\"Ed Sheeran\"}]\n```"))
			}))
			defer server.Close()

			suggestions, err := testGenerator(t, server.URL).Suggest(context.Background(), seed, "Romantic", "", 1)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(suggestions) != 1 {
				t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
			}
		})

		t.Run("Malformed Output", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, completionBody("Sure! Here are some songs you might like: ..."))
			}))
			defer server.Close()

			_, err := testGenerator(t, server.URL).Suggest(context.Background(), seed, "Romantic", "", 5)
			if !errors.Is(err, shared.ErrGenerationFailed) {
				t.Errorf("expected ErrGenerationFailed, got %v", err)
			}
		})

		t.Run("Upstream Error Status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
			}))
			defer server.Close()

			_, err := testGenerator(t, server.URL).Suggest(context.Background(), seed, "Romantic", "", 5)
			if !errors.Is(err, shared.ErrGenerationFailed) {
				t.Errorf("expected ErrGenerationFailed, got %v", err)
			}
		})

		t.Run("Empty Choices", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"choices":[]}`)
			}))
			defer server.Close()

			_, err := testGenerator(t, server.URL).Suggest(context.Background(), seed, "Romantic", "", 5)
			if !errors.Is(err, shared.ErrGenerationFailed) {
				t.Errorf("expected ErrGenerationFailed, got %v", err)
			}
		})

		t.Run("Invalid Count", func(t *testing.T) {
			_, err := testGenerator(t, "http://unused").Suggest(context.Background(), seed, "Romantic", "", 0)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("buildPrompt", func(t *testing.T) {
		t.Run("Embeds Seed And Vibe", func(t *testing.T) {
			prompt := buildPrompt(seed, "Romantic", "", 19)

			for _, want := range []string{`"Perfect"`, "Ed Sheeran", "pop", "Romantic", "exactly 19 songs"} {
				if !strings.Contains(prompt, want) {
					t.Errorf("prompt missing %q", want)
				}
			}
			if strings.Contains(prompt, "Video Edit Context") {
				t.Error("prompt should omit edit context section when none given")
			}
		})

		t.Run("Edit Context Is Secondary", func(t *testing.T) {
			prompt := buildPrompt(seed, "Romantic", "wedding slideshow of the couple", 10)

			if !strings.Contains(prompt, "wedding slideshow of the couple") {
				t.Error("prompt missing edit context")
			}
			if !strings.Contains(prompt, "SECONDARY") {
				t.Error("prompt must frame edit context as secondary to the audio style")
			}
		})

		t.Run("Unknown Genres", func(t *testing.T) {
			bare := models.SongMetadata{Title: "Song", Artists: "Artist"}
			if !strings.Contains(buildPrompt(bare, "Chill", "", 5), "Genres: Unknown") {
				t.Error("expected Unknown genre placeholder")
			}
		})
	})

	t.Run("stripCodeFence", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			want    string
		}{
			{"no fence", `[{"title":"A"}]`, `[{"title":"A"}]`},
			{"json fence", "```json\n[1]\n```", "[1]"},
			{"bare fence", "```\n[1]\n```", "[1]"},
			{"whitespace", "  [1]  ", "[1]"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := stripCodeFence(tt.content); got != tt.want {
					t.Errorf("stripCodeFence(%q) = %q, want %q", tt.content, got, tt.want)
				}
			})
		}
	})
}
