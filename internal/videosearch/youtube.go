// Package videosearch finds the video that best matches a free-text query using the
// YouTube Data API.
package videosearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"songdeck/internal/core"
)

const (
	// maxErrorBodySize caps how much of an error response is kept.
	maxErrorBodySize = 64 << 10
)

// ErrVideoSearchFailed is returned when the search endpoint cannot be reached, answers
// with a non-success status, or returns a body that cannot be decoded.
var ErrVideoSearchFailed = errors.New("video search failed")

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// Client queries the YouTube search endpoint.
type Client struct {
	endpoint string
	key      string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient creates a search client. A nil httpClient uses http.DefaultClient.
func NewClient(config *core.VideoConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	endpoint := config.SearchURL
	if endpoint == "" {
		endpoint = core.DefaultVideoSearchURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		key:      config.APIKey,
		client:   httpClient,
		logger:   logger,
	}
}

// BestMatch returns the single best video for query. ok is false when the platform
// returned no results.
func (c *Client) BestMatch(ctx context.Context, query string) (ref core.VideoReference, ok bool, err error) {
	params := url.Values{
		"part":       {"snippet"},
		"maxResults": {"1"},
		"q":          {query},
		"key":        {c.key},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return core.VideoReference{}, false, fmt.Errorf("%w: %v", ErrVideoSearchFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return core.VideoReference{}, false, fmt.Errorf("%w: %v", ErrVideoSearchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return core.VideoReference{}, false, fmt.Errorf("%w: %s - %s",
			ErrVideoSearchFailed, resp.Status, strings.TrimSpace(string(body)))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.VideoReference{}, false, fmt.Errorf("%w: failed to decode response: %v", ErrVideoSearchFailed, err)
	}

	// Channel and playlist results carry no videoId; they count as no match.
	if len(body.Items) == 0 || body.Items[0].ID.VideoID == "" {
		c.logger.Debug("No video found", zap.String("query", query))
		return core.VideoReference{}, false, nil
	}

	item := body.Items[0]
	return core.VideoReference{
		ID:    item.ID.VideoID,
		Title: item.Snippet.Title,
	}, true, nil
}
