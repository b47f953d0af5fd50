package models

import (
	"fmt"
	"strings"
)

// SongMetadata is the identification service's description of a recognized song.
// Artists is a comma-joined, order-preserving string. Genres may be empty.
// Immutable once created.
type SongMetadata struct {
	Title   string   `json:"title"`
	Artists string   `json:"artists"`
	Album   string   `json:"album"`
	Genres  []string `json:"genres"`
}

// PrimaryArtist returns the first artist from the comma-joined Artists string.
func (s SongMetadata) PrimaryArtist() string {
	if i := strings.Index(s.Artists, ","); i >= 0 {
		return strings.TrimSpace(s.Artists[:i])
	}
	return strings.TrimSpace(s.Artists)
}

// Validate checks that the metadata identifies a playable song.
func (s SongMetadata) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("song metadata missing title")
	}
	return nil
}

// Vibe is a named mood category assigned to a song based on its genre tags.
// Name is always non-empty. TargetGenres carries the input genres through to
// the generation prompt unchanged.
type Vibe struct {
	Name         string   `json:"name"`
	TargetGenres []string `json:"target_genres"`
}

// CandidateSuggestion is an unvalidated, unresolved song suggestion produced
// by the generation service. It exists only between generation and resolution.
type CandidateSuggestion struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// ResolvedTrack is a catalog track resolved from a suggestion or from the
// seed artist's top tracks. ID is catalog-unique and is the dedupe key.
type ResolvedTrack struct {
	ID       string `json:"id"`
	URI      string `json:"uri"`
	Name     string `json:"name"`
	Artists  string `json:"artists"`
	AlbumArt string `json:"album_art,omitempty"`
}

// RecommendationSet is an ordered sequence of resolved tracks. A well-formed
// set never exceeds the requested limit, never contains duplicate IDs, and
// never contains the seed track.
type RecommendationSet []ResolvedTrack

// URIs returns the catalog URIs in set order for playlist insertion.
func (r RecommendationSet) URIs() []string {
	uris := make([]string, 0, len(r))
	for _, t := range r {
		uris = append(uris, t.URI)
	}
	return uris
}

// Contains reports whether the set already holds a track with the given ID.
func (r RecommendationSet) Contains(id string) bool {
	for _, t := range r {
		if t.ID == id {
			return true
		}
	}
	return false
}

// PipelineResult captures what each pipeline stage produced for one request.
// Stages after identification may fail without aborting the pipeline, so
// Vibe, SeedTrack and Recommendations can be zero-valued on degraded runs.
type PipelineResult struct {
	Song            SongMetadata      `json:"song"`
	Vibe            *Vibe             `json:"vibe,omitempty"`
	SeedTrack       *ResolvedTrack    `json:"seed_track,omitempty"`
	Recommendations RecommendationSet `json:"recommendations"`
}

// Degraded reports whether any stage after identification failed to produce output.
func (p PipelineResult) Degraded() bool {
	return p.SeedTrack == nil || len(p.Recommendations) == 0
}

// PlaylistResult summarizes a playlist created on the remote catalog.
type PlaylistResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	TrackCount int    `json:"track_count"`
}
