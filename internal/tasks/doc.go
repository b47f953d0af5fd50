// Package tasks implements the clip-to-playlist pipeline.
//
// The core abstraction is [PipelineEngine], which sequences extraction,
// identification, vibe classification, recommendation assembly, and playlist
// publication. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
//
// # Degradation policy
//
// Identification failure is fatal; every later stage is caught at its own
// boundary and degrades the result instead of aborting:
//
//   - no catalog credential: song metadata only
//   - seed track not found: metadata + vibe, no recommendations
//   - generation failure: recommendations assembled from backfill only
//   - per-suggestion search failure: logged and skipped, batch continues
//
// A [models.PipelineResult] therefore always reports what succeeded, with
// empty fields for what did not.
package tasks
