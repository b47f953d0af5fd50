package tasks

import (
	"fmt"

	"github.com/desertthunder/vibelist/internal/models"
)

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Pipeline phase enumeration
type Phase int

const (
	Extract Phase = iota
	Identify
	Classify
	ResolveSeed
	Generate
	SearchCandidates
	Backfill
	Publish
)

func (p Phase) String() string {
	switch p {
	case Extract:
		return "extract"
	case Identify:
		return "identify"
	case Classify:
		return "classify"
	case ResolveSeed:
		return "resolve_seed"
	case Generate:
		return "generate"
	case SearchCandidates:
		return "search_candidates"
	case Backfill:
		return "backfill"
	case Publish:
		return "publish"
	default:
		return ""
	}
}

func extractUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Extract,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Extracting audio sample from %s...", path),
	}
}

func identifyUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Identify,
		Step:    1,
		Total:   1,
		Message: "Identifying song from audio sample...",
	}
}

func identifiedUpdate(song *models.SongMetadata) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Identify,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Identified: %s - %s", song.Artists, song.Title),
		Data:    song,
	}
}

func classifiedUpdate(v models.Vibe) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Classify,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Detected vibe: %s", v.Name),
		Data:    v,
	}
}

func resolveSeedUpdate(song models.SongMetadata) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSeed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Searching catalog for %s - %s...", song.Artists, song.Title),
	}
}

func generateUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Generate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Generating %d candidate suggestions...", count),
	}
}

func generationDegradedUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Generate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Suggestion generation failed, falling back to artist top tracks: %v", err),
	}
}

func searchCandidateUpdate(step, total int, s models.CandidateSuggestion) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchCandidates,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, s.Artist, s.Title),
	}
}

func backfillUpdate(needed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Backfill,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Backfilling %d tracks from the seed artist...", needed),
	}
}

func publishUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Publish,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func publishedUpdate(pl *models.PlaylistResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Publish,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (%d tracks)", pl.Name, pl.TrackCount),
		Data:    pl,
	}
}
