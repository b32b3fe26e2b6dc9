// Package catalog searches the music catalog for tracks.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"songdeck/internal/core"
)

const (
	// searchType restricts catalog results to tracks.
	searchType = "track"
	// maxErrorBodySize caps how much of an error response is kept.
	maxErrorBodySize = 64 << 10
)

var (
	// ErrCatalogUnavailable is returned when the catalog cannot be reached or answers
	// with a non-success status.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrCatalogResponseInvalid is returned when the catalog answers with a body that is
	// not the expected search document.
	ErrCatalogResponseInvalid = errors.New("catalog response invalid")
)

// UnavailableError carries the status and body of a failed catalog response.
type UnavailableError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *UnavailableError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d %s", ErrCatalogUnavailable, e.Status, e.StatusText)
	}
	return fmt.Sprintf("%s: %d %s - %s", ErrCatalogUnavailable, e.Status, e.StatusText, e.Body)
}

func (e *UnavailableError) Unwrap() error {
	return ErrCatalogUnavailable
}

// Client queries a Spotify-compatible search endpoint, either the key-in-path proxy or
// the Web API itself.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a catalog client from configuration. With Spotify client
// credentials the Web API is called directly; otherwise requests go through the proxy
// with the API key in the path.
func NewClient(config *core.CatalogConfig, logger *zap.Logger) *Client {
	if config.Direct() {
		ccConfig := &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     spotifyauth.TokenURL,
		}
		base := config.BaseURL
		if base == "" || base == core.DefaultCatalogBaseURL {
			base = core.DefaultSpotifyAPIURL
		}
		logger.Info("Using Spotify Web API for catalog search", zap.String("base_url", base))
		return New(base, ccConfig.Client(context.Background()), logger)
	}

	if config.Account == "" {
		logger.Warn("Catalog account is not set; proxy searches will omit the account path segment",
			zap.String("base_url", config.BaseURL))
	}
	return New(ProxyBaseURL(config.BaseURL, config.Account, config.APIKey), http.DefaultClient, logger)
}

// New returns a client that issues searches below baseURL.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		logger:  logger,
	}
}

// ProxyBaseURL returns "<root>/<account>/spotify/<key>/".
func ProxyBaseURL(root, account, apiKey string) string {
	parts := []string{strings.TrimRight(root, "/")}
	if account != "" {
		parts = append(parts, url.PathEscape(account))
	}
	parts = append(parts, "spotify", url.PathEscape(apiKey))
	return strings.Join(parts, "/") + "/"
}

// Search returns the first page of tracks matching query, in catalog order. A track
// whose id repeats an earlier one is dropped so that every card has a distinct track.
func (c *Client) Search(ctx context.Context, query string) ([]core.Track, error) {
	params := url.Values{
		"q":    {query},
		"type": {searchType},
	}
	reqURL := c.baseURL + "search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &UnavailableError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var result spotify.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogResponseInvalid, err)
	}

	if result.Tracks == nil {
		return nil, fmt.Errorf("%w: missing tracks", ErrCatalogResponseInvalid)
	}

	tracks := make([]core.Track, 0, len(result.Tracks.Tracks))
	seen := make(map[string]struct{}, len(result.Tracks.Tracks))
	for i := range result.Tracks.Tracks {
		track, err := convertSpotifyTrack(&result.Tracks.Tracks[i])
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrCatalogResponseInvalid, i, err)
		}
		if _, dup := seen[track.ID]; dup {
			c.logger.Debug("Dropping duplicate catalog track",
				zap.String("id", track.ID),
				zap.String("title", track.Title))
			continue
		}
		seen[track.ID] = struct{}{}
		tracks = append(tracks, track)
	}

	c.logger.Debug("Catalog search completed",
		zap.String("query", query),
		zap.Int("tracks", len(tracks)))

	return tracks, nil
}

func convertSpotifyTrack(track *spotify.FullTrack) (core.Track, error) {
	if track.ID == "" {
		return core.Track{}, errors.New("missing id")
	}
	if track.Name == "" {
		return core.Track{}, errors.New("missing name")
	}

	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}

	var imageURL string
	if len(track.Album.Images) > 0 {
		imageURL = track.Album.Images[0].URL
	}

	return core.Track{
		ID:         string(track.ID),
		Title:      track.Name,
		Artists:    artists,
		ImageURL:   imageURL,
		PreviewURL: track.PreviewURL,
	}, nil
}
