// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/vibelist/internal/models"
)

// MockCatalog is a test double for [services.Catalog] with overridable behavior.
type MockCatalog struct {
	SearchTrackFunc     func(ctx context.Context, title, artist string) (*models.ResolvedTrack, error)
	PrimaryArtistIDFunc func(ctx context.Context, trackID string) (string, error)
	ArtistTopTracksFunc func(ctx context.Context, artistID string) ([]models.ResolvedTrack, error)
}

func (m *MockCatalog) SearchTrack(ctx context.Context, title, artist string) (*models.ResolvedTrack, error) {
	if m.SearchTrackFunc != nil {
		return m.SearchTrackFunc(ctx, title, artist)
	}
	return nil, nil
}

func (m *MockCatalog) PrimaryArtistID(ctx context.Context, trackID string) (string, error) {
	if m.PrimaryArtistIDFunc != nil {
		return m.PrimaryArtistIDFunc(ctx, trackID)
	}
	return "", nil
}

func (m *MockCatalog) ArtistTopTracks(ctx context.Context, artistID string) ([]models.ResolvedTrack, error) {
	if m.ArtistTopTracksFunc != nil {
		return m.ArtistTopTracksFunc(ctx, artistID)
	}
	return nil, nil
}

// MockPublisher is a test double for [services.Publisher].
type MockPublisher struct {
	CreatePlaylistFunc func(ctx context.Context, name, description string, public bool) (*models.PlaylistResult, error)
	AddTracksFunc      func(ctx context.Context, playlistID string, uris []string) error
	Added              [][]string
}

func (m *MockPublisher) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.PlaylistResult, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name, description, public)
	}
	return &models.PlaylistResult{ID: "playlist_1", Name: name}, nil
}

func (m *MockPublisher) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	m.Added = append(m.Added, uris)
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, uris)
	}
	return nil
}

// MockIdentifier is a test double for [services.Identifier].
type MockIdentifier struct {
	IdentifyFunc func(ctx context.Context, sample []byte) (*models.SongMetadata, error)
}

func (m *MockIdentifier) Identify(ctx context.Context, sample []byte) (*models.SongMetadata, error) {
	if m.IdentifyFunc != nil {
		return m.IdentifyFunc(ctx, sample)
	}
	return nil, nil
}

// MockGenerator is a test double for [services.Generator].
type MockGenerator struct {
	SuggestFunc func(ctx context.Context, seed models.SongMetadata, vibeName, editContext string, count int) ([]models.CandidateSuggestion, error)
}

func (m *MockGenerator) Suggest(ctx context.Context, seed models.SongMetadata, vibeName, editContext string, count int) ([]models.CandidateSuggestion, error) {
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, seed, vibeName, editContext, count)
	}
	return nil, nil
}

// MockExtractor is a test double for [tasks.SampleExtractor].
type MockExtractor struct {
	SampleFunc func(ctx context.Context, videoPath string) ([]byte, error)
}

func (m *MockExtractor) Sample(ctx context.Context, videoPath string) ([]byte, error) {
	if m.SampleFunc != nil {
		return m.SampleFunc(ctx, videoPath)
	}
	return []byte("audio"), nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
