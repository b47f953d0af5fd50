// Package services implements clients for the external collaborators of the
// vibelist pipeline.
//
// # Interfaces
//
// Each collaborator is consumed through a narrow interface so the pipeline
// engine can be tested against doubles:
//   - [Catalog] : track search, track lookup, artist top tracks (Spotify)
//   - [Publisher] : playlist creation and track insertion (Spotify)
//   - [Identifier] : audio fingerprint identification (ACRCloud)
//   - [Generator] : AI candidate suggestion generation (OpenAI)
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 (authorization code + PKCE) for authentication
// with automatic token refresh. The [oauth2] client refreshes expired tokens
// using the refresh token; a refresh callback lets the CLI persist rotated
// tokens. Search calls are paced by a [rate.Limiter] since the assembler
// issues one search per suggestion.
//
// # Identification Implementation
//
// [ACRCloudService] uploads a short mono audio sample with an HMAC-SHA1
// signed multipart request and maps the response to [models.SongMetadata].
// A "no result" status is a nil result, not an error.
//
// # Generation Implementation
//
// [OpenAIService] posts a single structured prompt to the chat completions
// endpoint and parses the reply as a raw JSON array of title/artist pairs.
// Markdown code fences are stripped before parsing; anything else that fails
// to parse is a [shared.ErrGenerationFailed].
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAPIRequest] : HTTP request returned a non-success status
//   - [shared.ErrGenerationFailed] : generation output could not be parsed
//
// "Nothing found" is never an error: search and identification return nil
// results for misses so callers can distinguish absence from failure.
package services
