package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/services"
	"github.com/desertthunder/vibelist/internal/shared"
	"github.com/desertthunder/vibelist/internal/vibe"
)

// DefaultLimit is the recommendation quota when the caller does not set one.
const DefaultLimit = 19

// SampleExtractor produces a short audio sample from a video file.
// Implemented by the ffmpeg wrapper in the extract package.
type SampleExtractor interface {
	Sample(ctx context.Context, videoPath string) ([]byte, error)
}

// PipelineEngine orchestrates one clip-to-playlist request.
//
// Collaborators are optional except the identifier: a nil catalog skips
// everything after identification, a nil generator skips straight to backfill,
// and a nil publisher disables playlist creation.
type PipelineEngine struct {
	extractor  SampleExtractor
	identifier services.Identifier
	catalog    services.Catalog
	generator  services.Generator
	publisher  services.Publisher
	logger     *log.Logger
}

// EngineOpts contains the collaborators for a PipelineEngine.
type EngineOpts struct {
	Extractor  SampleExtractor
	Identifier services.Identifier
	Catalog    services.Catalog
	Generator  services.Generator
	Publisher  services.Publisher
	Logger     *log.Logger
}

// NewPipelineEngine creates a PipelineEngine with the provided collaborators.
func NewPipelineEngine(opts EngineOpts) *PipelineEngine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &PipelineEngine{
		extractor:  opts.Extractor,
		identifier: opts.Identifier,
		catalog:    opts.Catalog,
		generator:  opts.Generator,
		publisher:  opts.Publisher,
		logger:     opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PipelineEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Identify extracts a sample from the video and identifies the song.
//
// This is the only fatal stage of the pipeline: an unreachable identification
// service or an unusable input aborts the request, and a clean "no match"
// surfaces as [shared.ErrNoMatch].
func (e *PipelineEngine) Identify(ctx context.Context, progress chan<- ProgressUpdate, videoPath string) (*models.SongMetadata, error) {
	if e.extractor == nil || e.identifier == nil {
		return nil, fmt.Errorf("%w: identification not configured", shared.ErrServiceUnavailable)
	}
	if videoPath == "" {
		return nil, fmt.Errorf("%w: no video path", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, extractUpdate(videoPath))
	sample, err := e.extractor.Sample(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("audio extraction failed: %w", err)
	}

	e.sendProgress(progress, identifyUpdate())
	song, err := e.identifier.Identify(ctx, sample)
	if err != nil {
		return nil, fmt.Errorf("identification failed: %w", err)
	}
	if song == nil {
		return nil, shared.ErrNoMatch
	}

	e.sendProgress(progress, identifiedUpdate(song))
	return song, nil
}

// Recommend assembles a recommendation set for the resolved seed track.
//
// Suggestions are resolved against the catalog in order; unresolvable,
// seed-equal, and already-collected tracks are skipped without counting
// against the limit. When suggestions run out before the quota is met, the
// remainder is backfilled from the seed artist's top tracks. Per-suggestion
// failures are logged, never propagated.
func (e *PipelineEngine) Recommend(ctx context.Context, progress chan<- ProgressUpdate, seed models.SongMetadata, seedTrack models.ResolvedTrack, vibeName, editContext string, limit int) (models.RecommendationSet, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if seedTrack.ID == "" {
		return nil, fmt.Errorf("%w: no seed track id", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	suggestions := e.generateSuggestions(ctx, progress, seed, vibeName, editContext, limit)

	tracks := make(models.RecommendationSet, 0, limit)
	for i, suggestion := range suggestions {
		if len(tracks) >= limit {
			break
		}

		e.sendProgress(progress, searchCandidateUpdate(i+1, len(suggestions), suggestion))

		found, err := e.catalog.SearchTrack(ctx, suggestion.Title, suggestion.Artist)
		if err != nil {
			e.logger.Warn("candidate search failed", "title", suggestion.Title, "artist", suggestion.Artist, "err", err)
			continue
		}
		if found == nil || found.ID == seedTrack.ID || tracks.Contains(found.ID) {
			continue
		}

		tracks = append(tracks, *found)
	}

	if len(tracks) < limit {
		tracks = e.backfill(ctx, progress, seedTrack.ID, tracks, limit)
	}

	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// generateSuggestions asks the generator for candidates, tolerating failure.
// A nil generator or a generation error yields an empty list so assembly can
// continue as pure backfill.
func (e *PipelineEngine) generateSuggestions(ctx context.Context, progress chan<- ProgressUpdate, seed models.SongMetadata, vibeName, editContext string, limit int) []models.CandidateSuggestion {
	if e.generator == nil {
		return nil
	}

	e.sendProgress(progress, generateUpdate(limit))
	suggestions, err := e.generator.Suggest(ctx, seed, vibeName, editContext, limit)
	if err != nil {
		e.logger.Warn("suggestion generation failed", "err", err)
		e.sendProgress(progress, generationDegradedUpdate(err))
		return nil
	}

	e.logger.Info("generated suggestions", "count", len(suggestions))
	return suggestions
}

// backfill fills the remaining quota from the seed artist's top tracks,
// in the catalog's given order, excluding the seed and collected tracks.
// Backfill failures leave the partial set intact.
func (e *PipelineEngine) backfill(ctx context.Context, progress chan<- ProgressUpdate, seedTrackID string, tracks models.RecommendationSet, limit int) models.RecommendationSet {
	e.sendProgress(progress, backfillUpdate(limit-len(tracks)))

	artistID, err := e.catalog.PrimaryArtistID(ctx, seedTrackID)
	if err != nil {
		e.logger.Warn("backfill: failed to resolve seed artist", "err", err)
		return tracks
	}

	topTracks, err := e.catalog.ArtistTopTracks(ctx, artistID)
	if err != nil {
		e.logger.Warn("backfill: failed to fetch artist top tracks", "artist_id", artistID, "err", err)
		return tracks
	}

	for _, t := range topTracks {
		if len(tracks) >= limit {
			break
		}
		if t.ID == seedTrackID || tracks.Contains(t.ID) {
			continue
		}
		tracks = append(tracks, t)
	}

	return tracks
}

// Run performs the full pipeline for one video clip.
//
// Identification failure is the only fatal outcome. Without a catalog the
// result carries song metadata only; a missed seed search returns metadata
// and vibe with no recommendations; a failed recommendation step returns the
// resolved seed with an empty set.
func (e *PipelineEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, videoPath, editContext string, limit int) (*models.PipelineResult, error) {
	song, err := e.Identify(ctx, progress, videoPath)
	if err != nil {
		return nil, err
	}

	result := &models.PipelineResult{Song: *song, Recommendations: models.RecommendationSet{}}

	if e.catalog == nil {
		e.logger.Warn("no catalog credential, returning song metadata only")
		return result, nil
	}

	detected := vibe.Classify(song.Genres, song.Title, song.PrimaryArtist())
	result.Vibe = &detected
	e.sendProgress(progress, classifiedUpdate(detected))

	e.sendProgress(progress, resolveSeedUpdate(*song))
	seedTrack, err := e.catalog.SearchTrack(ctx, song.Title, song.PrimaryArtist())
	if err != nil {
		e.logger.Warn("seed track search failed", "err", err)
		return result, nil
	}
	if seedTrack == nil {
		e.logger.Info("seed track not found in catalog", "title", song.Title)
		return result, nil
	}
	result.SeedTrack = seedTrack

	recommendations, err := e.Recommend(ctx, progress, *song, *seedTrack, detected.Name, editContext, limit)
	if err != nil {
		e.logger.Warn("recommendation assembly failed", "err", err)
		return result, nil
	}
	result.Recommendations = recommendations

	return result, nil
}

// Publish creates a playlist from the pipeline result and inserts the seed
// track followed by the recommendations, in order.
func (e *PipelineEngine) Publish(ctx context.Context, progress chan<- ProgressUpdate, result *models.PipelineResult, name string, public bool) (*models.PlaylistResult, error) {
	if e.publisher == nil {
		return nil, fmt.Errorf("%w: publisher not initialized", shared.ErrServiceUnavailable)
	}
	if result == nil || result.SeedTrack == nil {
		return nil, fmt.Errorf("%w: no seed track to publish", shared.ErrInvalidInput)
	}

	if name == "" {
		name = fmt.Sprintf("%s Vibes", result.SeedTrack.Name)
	}
	description := fmt.Sprintf("A playlist inspired by %s by %s. Created with vibelist.", result.SeedTrack.Name, result.SeedTrack.Artists)

	e.sendProgress(progress, publishUpdate(name))

	playlist, err := e.publisher.CreatePlaylist(ctx, name, description, public)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	uris := append([]string{result.SeedTrack.URI}, result.Recommendations.URIs()...)
	if err := e.publisher.AddTracks(ctx, playlist.ID, uris); err != nil {
		return nil, fmt.Errorf("failed to add tracks: %w", err)
	}

	playlist.TrackCount = len(uris)
	e.sendProgress(progress, publishedUpdate(playlist))
	return playlist, nil
}
