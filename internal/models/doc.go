// Package models defines the domain entities flowing through the vibelist pipeline.
//
// Types fall into three groups:
//
// 1. Identification output:
//   - [SongMetadata] : title/artists/album/genres returned by the fingerprinting service
//
// 2. Recommendation pipeline values:
//   - [Vibe] : named mood category derived from genre tags
//   - [CandidateSuggestion] : unresolved title/artist pair from the generation service
//   - [ResolvedTrack] : catalog track resolved from a suggestion; ID is the dedupe key
//   - [RecommendationSet] : ordered, deduplicated, limit-bounded track list
//
// 3. Pipeline results:
//   - [PipelineResult] : what each stage produced; later stages may be empty on degraded runs
//   - [PlaylistResult] : created playlist summary handed back to the caller
//
// All types are plain values. Nothing in this package performs I/O or holds
// state between requests.
package models
