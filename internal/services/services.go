// package services defines interfaces for the external collaborators
//
// Spotify (catalog + playlists), ACRCloud (identification), OpenAI (generation)
package services

import (
	"context"

	"github.com/desertthunder/vibelist/internal/models"
)

// Catalog resolves tracks against a remote music catalog.
type Catalog interface {
	// SearchTrack searches for a track by exact title and artist.
	// Returns (nil, nil) when nothing matches; an error only on request failure.
	SearchTrack(ctx context.Context, title, artist string) (*models.ResolvedTrack, error)

	// PrimaryArtistID returns the catalog ID of the track's first-listed artist.
	PrimaryArtistID(ctx context.Context, trackID string) (string, error)

	// ArtistTopTracks returns the artist's top tracks in catalog order.
	ArtistTopTracks(ctx context.Context, artistID string) ([]models.ResolvedTrack, error)
}

// Publisher creates playlists on the remote catalog.
type Publisher interface {
	// CreatePlaylist creates an empty playlist for the authenticated user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.PlaylistResult, error)

	// AddTracks appends the given track URIs to a playlist in order.
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}

// Identifier recognizes a song from a short audio sample.
type Identifier interface {
	// Identify fingerprints the sample and returns the recognized song.
	// Returns (nil, nil) when the service reports no match.
	Identify(ctx context.Context, sample []byte) (*models.SongMetadata, error)
}

// Generator produces candidate song suggestions for a seed track.
type Generator interface {
	// Suggest asks the generation service for count suggestions matching the
	// seed's style, the detected vibe, and the optional edit context.
	Suggest(ctx context.Context, seed models.SongMetadata, vibeName, editContext string, count int) ([]models.CandidateSuggestion, error)
}
