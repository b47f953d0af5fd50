// OpenAI chat completions implementation of [Generator]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/shared"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// chatMessage is one message in a chat completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the /chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the subset of the /chat/completions response we read.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIService implements [Generator] against the chat completions API.
type OpenAIService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIService creates a generation client for the configured model.
func NewOpenAIService(cfg shared.OpenAIConfig) (*OpenAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing openai api_key", shared.ErrMissingCredentials)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIService{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (o *OpenAIService) Name() string {
	return "OpenAI"
}

// Suggest asks the model for count title/artist suggestions as a raw JSON array.
//
// Malformed output and upstream failures surface as [shared.ErrGenerationFailed];
// the pipeline treats that as non-fatal and continues with no suggestions.
func (o *OpenAIService) Suggest(ctx context.Context, seed models.SongMetadata, vibeName, editContext string, count int) ([]models.CandidateSuggestion, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: suggestion count must be positive", shared.ErrInvalidInput)
	}

	prompt := buildPrompt(seed, vibeName, editContext, count)

	body := chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.8,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: openai status %d: %s", shared.ErrGenerationFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGenerationFailed, err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", shared.ErrGenerationFailed)
	}

	return parseSuggestions(response.Choices[0].Message.Content)
}

// parseSuggestions parses a completion into suggestion records, stripping any
// markdown code fence the model wrapped around the JSON array.
func parseSuggestions(content string) ([]models.CandidateSuggestion, error) {
	cleaned := stripCodeFence(content)

	var suggestions []models.CandidateSuggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGenerationFailed, err)
	}

	return suggestions, nil
}

// stripCodeFence removes a surrounding ```json / ``` fence, if present.
func stripCodeFence(content string) string {
	cleaned := strings.TrimSpace(content)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// buildPrompt embeds the seed metadata, detected vibe, and optional edit
// context into the generation prompt.
//
// The edit context describes the video's visual content and is explicitly
// framed as secondary: suggestions must match the seed song's audio style
// first and only then lean toward the visual theme.
func buildPrompt(seed models.SongMetadata, vibeName, editContext string, count int) string {
	genres := strings.Join(seed.Genres, ", ")
	if genres == "" {
		genres = "Unknown"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "You are a music expert and video editor who understands internet culture, TikTok/Instagram edit trends, and how music matches visual content.\n\n")
	fmt.Fprintf(&b, "Song Detected: %q by %s\n", seed.Title, seed.Artists)
	fmt.Fprintf(&b, "Genres: %s\n", genres)
	fmt.Fprintf(&b, "Detected Vibe: %s\n", vibeName)

	if trimmed := strings.TrimSpace(editContext); trimmed != "" {
		fmt.Fprintf(&b, "\nVideo Edit Context: %s\n\n", trimmed)
		b.WriteString(`IMPORTANT: The edit context describes the VISUAL content of the video, not the music to recommend:
- If it mentions celebrities or artists, that is the visual aesthetic of the edit. Match the detected song's style first, then consider the aesthetic.
- If it mentions content type (gaming, anime, gym), tailor the energy to that use case while keeping the detected song's genre.
- If it mentions moods, adjust the energy level but keep the detected song's core style.
- The detected song is the PRIMARY guide; the edit context is SECONDARY fine-tuning and must never override the audio style.
`)
	}

	fmt.Fprintf(&b, "\nSuggest exactly %d songs that:\n", count)
	b.WriteString(`1. MUST be musically similar to the detected song (genre, tempo, style, artist)
2. MUST also fit the edit's visual theme or mood, where one was provided
3. Find the INTERSECTION between audio style and visual content when both are present
4. Include a variety of artists (maximum 2 songs from any single artist)
5. Are popular enough to be found on Spotify

Respond ONLY with a JSON array in this exact format:
[
  {"title": "Song Title", "artist": "Artist Name"},
  {"title": "Song Title 2", "artist": "Artist Name 2"}
]

Do not include any explanations, markdown formatting, or code blocks - JUST the raw JSON array.`)

	return b.String()
}
