// Package repositories provides the CLI's persistence layer.
//
// Only OAuth tokens are persisted: recognized songs, vibes, and generated
// playlists live exclusively on the remote catalog. The token repository lets
// `vibelist auth` run once and later commands reuse (and transparently
// refresh) the stored credential.
package repositories
