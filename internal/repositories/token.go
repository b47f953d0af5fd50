package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// TokenRepository stores one OAuth token per service in SQLite.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a repository over an open database connection.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Save upserts the token for the given service.
func (r *TokenRepository) Save(service string, token *oauth2.Token) error {
	if service == "" {
		return fmt.Errorf("service name required")
	}
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("cannot save empty token")
	}

	query := `
		INSERT INTO tokens (service, access_token, refresh_token, token_type, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`

	var expiresAt any
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry.UTC().Format(time.RFC3339)
	}

	if _, err := r.db.Exec(query, service, token.AccessToken, token.RefreshToken, token.TokenType, expiresAt); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Get returns the stored token for the given service, or (nil, nil) when no
// token has been saved yet.
func (r *TokenRepository) Get(service string) (*oauth2.Token, error) {
	query := `
		SELECT access_token, refresh_token, token_type, expires_at
		FROM tokens WHERE service = ?
	`

	var accessToken, refreshToken, tokenType string
	var expiresAt sql.NullString

	err := r.db.QueryRow(query, service).Scan(&accessToken, &refreshToken, &tokenType, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
	}

	if expiresAt.Valid {
		expiry, err := time.Parse(time.RFC3339, expiresAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse token expiry: %w", err)
		}
		token.Expiry = expiry
	}

	return token, nil
}

// Delete removes the stored token for the given service.
func (r *TokenRepository) Delete(service string) error {
	if _, err := r.db.Exec("DELETE FROM tokens WHERE service = ?", service); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
