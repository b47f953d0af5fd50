// ACRCloud implementation of [Identifier]
//
// Request signing per https://docs.acrcloud.com/reference/identification-api
package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/shared"
)

const (
	acrIdentifyPath = "/v1/identify"
	acrDataType     = "audio"
	acrSignatureVer = "1"

	// acrNoResult is the status code ACRCloud returns when the sample
	// fingerprint matches nothing in its catalog.
	acrNoResult = 1001
)

type acrArtist struct {
	Name string `json:"name"`
}

type acrNamed struct {
	Name string `json:"name"`
}

type acrMusic struct {
	Title   string      `json:"title"`
	Artists []acrArtist `json:"artists"`
	Album   acrNamed    `json:"album"`
	Genres  []acrNamed  `json:"genres"`
}

type acrStatus struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Version string `json:"version"`
}

type acrResponse struct {
	Status   acrStatus `json:"status"`
	Metadata struct {
		Music []acrMusic `json:"music"`
	} `json:"metadata"`
}

// ACRCloudService implements [Identifier] against the ACRCloud identification API.
type ACRCloudService struct {
	host       string
	accessKey  string
	secretKey  string
	httpClient *http.Client
	now        func() time.Time
}

// NewACRCloudService creates an identification client with the given credentials.
func NewACRCloudService(cfg shared.ACRCloudConfig) (*ACRCloudService, error) {
	if cfg.Host == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: missing acrcloud host, access_key or secret_key", shared.ErrMissingCredentials)
	}

	return &ACRCloudService{
		host:       cfg.Host,
		accessKey:  cfg.AccessKey,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}, nil
}

func (a *ACRCloudService) Name() string {
	return "ACRCloud"
}

// sign computes the base64 HMAC-SHA1 request signature over the
// newline-joined request parameters, per the ACRCloud protocol.
func (a *ACRCloudService) sign(timestamp string) string {
	stringToSign := strings.Join([]string{
		http.MethodPost,
		acrIdentifyPath,
		a.accessKey,
		acrDataType,
		acrSignatureVer,
		timestamp,
	}, "\n")

	mac := hmac.New(sha1.New, []byte(a.secretKey))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Identify uploads the audio sample and returns the recognized song.
//
// Returns (nil, nil) when ACRCloud reports no result; any other non-zero
// status is an upstream failure.
func (a *ACRCloudService) Identify(ctx context.Context, sample []byte) (*models.SongMetadata, error) {
	if len(sample) == 0 {
		return nil, fmt.Errorf("%w: empty audio sample", shared.ErrEmptyAudio)
	}

	timestamp := strconv.FormatInt(a.now().Unix(), 10)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"access_key":        a.accessKey,
		"data_type":         acrDataType,
		"signature_version": acrSignatureVer,
		"signature":         a.sign(timestamp),
		"timestamp":         timestamp,
		"sample_bytes":      strconv.Itoa(len(sample)),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	part, err := writer.CreateFormFile("sample", "sample.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(sample); err != nil {
		return nil, fmt.Errorf("failed to write sample: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	endpoint := "https://" + a.host + acrIdentifyPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: acrcloud status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseIdentifyResponse(body)
}

// parseIdentifyResponse maps an ACRCloud response body to [models.SongMetadata].
func parseIdentifyResponse(body []byte) (*models.SongMetadata, error) {
	var response acrResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Status.Code == acrNoResult {
		return nil, nil
	}
	if response.Status.Code != 0 {
		return nil, fmt.Errorf("%w: acrcloud code %d: %s", shared.ErrAPIRequest, response.Status.Code, response.Status.Msg)
	}

	if len(response.Metadata.Music) == 0 {
		return nil, nil
	}

	music := response.Metadata.Music[0]

	names := make([]string, 0, len(music.Artists))
	for _, artist := range music.Artists {
		names = append(names, artist.Name)
	}
	artists := strings.Join(names, ", ")
	if artists == "" {
		artists = "Unknown Artist"
	}

	genres := make([]string, 0, len(music.Genres))
	for _, genre := range music.Genres {
		genres = append(genres, genre.Name)
	}

	return &models.SongMetadata{
		Title:   music.Title,
		Artists: artists,
		Album:   music.Album.Name,
		Genres:  genres,
	}, nil
}
