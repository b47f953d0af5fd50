// Package server provides HTTP routing, middleware, and OAuth callback handling for the CLI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code + PKCE callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens using the PKCE verifier, and sends the result
// through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `vibelist auth`, a temporary HTTP server starts on the
// configured host/port, handles the callback, and shuts down after the OAuth
// token is received. The token is then persisted by the repositories package.
package server
