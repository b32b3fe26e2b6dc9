package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"songdeck/internal/extract"
)

const maxErrorBodySize = 4 << 10

// ExtractionClient calls the extraction service's GET /audio endpoint.
type ExtractionClient struct {
	baseURL string
	http    *http.Client
}

func NewExtractionClient(baseURL string, httpClient *http.Client) *ExtractionClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ExtractionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Extract returns the audio URL the service extracted from watchURL. Every failure wraps
// extract.ErrExtractionFailed.
func (c *ExtractionClient) Extract(ctx context.Context, watchURL string) (string, error) {
	reqURL := c.baseURL + "/audio?" + url.Values{"url": {watchURL}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", extract.ErrExtractionFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", extract.ErrExtractionFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", fmt.Errorf("%w: %s - %s", extract.ErrExtractionFailed, resp.Status, strings.TrimSpace(string(body)))
	}

	var result struct {
		AudioURL string `json:"audioUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", extract.ErrExtractionFailed, err)
	}
	if result.AudioURL == "" {
		return "", fmt.Errorf("%w: empty audioUrl", extract.ErrExtractionFailed)
	}

	return result.AudioURL, nil
}
