package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/vibelist/internal/repositories"
	"github.com/desertthunder/vibelist/internal/server"
	"github.com/desertthunder/vibelist/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 authorization code + PKCE flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization,
// exchanges the auth code for tokens, and persists them.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth("authorization")
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewTokenRepository(db).Save(tokenService, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", r.config.Database.Path)
	r.writePlain("You can now use: vibelist playlist <clip.mp4>\n")

	return nil
}

// AuthStatus reports whether a Spotify token is stored and when it expires.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	token, err := repositories.NewTokenRepository(db).Get(tokenService)
	if err != nil {
		return err
	}

	if token == nil {
		r.writePlain("✗ Not authenticated\n")
		r.writePlain("Run 'vibelist auth login' to authorize Spotify\n")
		return nil
	}

	r.writePlain("✓ Authenticated with Spotify\n")
	if token.Expiry.IsZero() {
		return nil
	}

	if token.Expiry.Before(time.Now()) {
		if token.RefreshToken != "" {
			r.writePlain("Access token expired; it will be refreshed on next use\n")
		} else {
			r.writePlain("Access token expired and no refresh token is stored\n")
			r.writePlain("Run 'vibelist auth login' to reauthorize\n")
		}
		return nil
	}

	r.writePlain("Token expires: %s\n", token.Expiry.Local().Format(time.RFC1123))
	return nil
}

// AuthLogout deletes the stored Spotify token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewTokenRepository(db).Delete(tokenService); err != nil {
		return err
	}

	r.writePlain("✓ Logged out\n")
	return nil
}

// doOAuth executes the OAuth2 + PKCE authorization flow with a local HTTP server
func (r *Runner) doOAuth(prefix string) (*oauth2.Token, error) {
	state := shared.GenerateID()
	verifier := oauth2.GenerateVerifier()

	authURL := r.spotify.AuthURL(state, verifier)
	oauthHandler := server.NewOAuthHandler(r.spotify.OAuthConfig(), state, verifier)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	logger := shared.WithLogger(r.logger, "flow", prefix)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infof("starting OAuth server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("authorization timed out after 2 minutes")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
