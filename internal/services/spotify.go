// Spotify API implementation of [Catalog] and [Publisher]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// searchRPS paces catalog calls; the assembler issues one search per
// suggestion and Spotify throttles bursts well below this.
const searchRPS = 10

// remixSuffix matches parenthetical/bracketed remix-style title suffixes,
// e.g. "Song (VIP Mix)" or "Song [Radio Edit]".
var remixSuffix = regexp.MustCompile(`(?i)[\(\[][^\)\]]*(remix|mix|edit|version|vip|bootleg)[^\)\]]*[\)\]]`)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	URI    string   `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	URI          string          `json:"uri"`
	ExternalURLs externalURLs    `json:"external_urls"`
	Popularity   int             `json:"popularity"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type searchTracks struct {
	Items []SpotifyTrack `json:"items"`
}

type searchResponse struct {
	Tracks searchTracks `json:"tracks"`
}

type topTracksResponse struct {
	Tracks []SpotifyTrack `json:"tracks"`
}

type createdPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// SpotifyService implements [Catalog] and [Publisher] for the Spotify Web API.
// Uses [oauth2] for authentication; search calls are paced with a rate limiter.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	limiter        *rate.Limiter
	market         string
	onTokenRefresh func(*oauth2.Token)
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(cfg shared.SpotifyConfig, market string) (*SpotifyService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrMissingCredentials)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}
	if market == "" {
		market = "US"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(searchRPS), 1),
		market:     market,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// OAuthConfig exposes the underlying [oauth2.Config] for the callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// AuthURL returns the authorization URL for the given state and PKCE verifier.
func (s *SpotifyService) AuthURL(state, verifier string) string {
	return s.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Authenticate installs a token and builds the refreshing HTTP client.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidCredentials)
	}

	s.token = token
	source := s.config.TokenSource(ctx, token)
	s.httpClient = oauth2.NewClient(ctx, &refreshableTokenSource{
		source:   source,
		last:     token,
		callback: s.onTokenRefresh,
	})
	return nil
}

// SetTokenRefreshCallback registers a function invoked whenever the OAuth
// client rotates the access token, so the caller can persist it.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and reports new tokens
// through a callback.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	last     *oauth2.Token
	callback func(*oauth2.Token)
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	if r.callback != nil && (r.last == nil || r.last.AccessToken != token.AccessToken) {
		func() {
			defer func() { _ = recover() }()
			r.callback(token)
		}()
	}
	r.last = token

	return token, nil
}

// doRequest performs an authenticated, rate-limited request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, spotifyBaseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// resolved maps a Spotify track to the pipeline's [models.ResolvedTrack].
func resolved(t SpotifyTrack) models.ResolvedTrack {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}

	track := models.ResolvedTrack{
		ID:      t.ID,
		URI:     t.URI,
		Name:    t.Name,
		Artists: strings.Join(names, ", "),
	}
	if len(t.Album.Images) > 0 {
		track.AlbumArt = t.Album.Images[0].URL
	}
	return track
}

// SearchTrack searches for a track by exact title and artist.
//
// If nothing matches and the title carries a remix/edit-style suffix, the
// suffix is stripped and the search retried once for the original song.
// Returns (nil, nil) when no track is found after the fallback.
func (s *SpotifyService) SearchTrack(ctx context.Context, title, artist string) (*models.ResolvedTrack, error) {
	track, err := s.searchOne(ctx, title, artist)
	if err != nil {
		return nil, err
	}

	if track == nil && remixSuffix.MatchString(title) {
		original := strings.TrimSpace(remixSuffix.ReplaceAllString(title, ""))
		if original != "" && original != title {
			track, err = s.searchOne(ctx, original, artist)
			if err != nil {
				return nil, err
			}
		}
	}

	return track, nil
}

// searchOne issues one search and takes the first result, if any.
func (s *SpotifyService) searchOne(ctx context.Context, title, artist string) (*models.ResolvedTrack, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("track:%s artist:%s", title, artist))
	params.Set("type", "track")
	params.Set("limit", "1")
	params.Set("market", s.market)

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, nil
	}

	track := resolved(response.Tracks.Items[0])
	return &track, nil
}

// Track retrieves a single track by ID.
func (s *SpotifyService) Track(ctx context.Context, trackID string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	if err := s.doRequest(ctx, http.MethodGet, "/tracks/"+trackID, nil, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// PrimaryArtistID returns the catalog ID of the track's first-listed artist.
func (s *SpotifyService) PrimaryArtistID(ctx context.Context, trackID string) (string, error) {
	track, err := s.Track(ctx, trackID)
	if err != nil {
		return "", err
	}
	if len(track.Artists) == 0 {
		return "", fmt.Errorf("%w: track %s has no artists", shared.ErrTrackNotFound, trackID)
	}
	return track.Artists[0].ID, nil
}

// Artist retrieves an artist by ID, including genre tags.
func (s *SpotifyService) Artist(ctx context.Context, artistID string) (*SpotifyArtist, error) {
	var artist SpotifyArtist
	if err := s.doRequest(ctx, http.MethodGet, "/artists/"+artistID, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// ArtistTopTracks returns the artist's top tracks in Spotify's given order.
func (s *SpotifyService) ArtistTopTracks(ctx context.Context, artistID string) ([]models.ResolvedTrack, error) {
	endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=%s", artistID, url.QueryEscape(s.market))

	var response topTracksResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.ResolvedTrack, 0, len(response.Tracks))
	for _, t := range response.Tracks {
		tracks = append(tracks, resolved(t))
	}
	return tracks, nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreatePlaylist creates an empty playlist for the authenticated user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.PlaylistResult, error) {
	profile, err := s.UserProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist createdPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(profile.ID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &models.PlaylistResult{
		ID:   playlist.ID,
		Name: playlist.Name,
		URL:  playlist.ExternalURLs.Spotify,
	}, nil
}

// AddTracks appends the given track URIs to a playlist in order.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs", shared.ErrInvalidInput)
	}

	body := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}
