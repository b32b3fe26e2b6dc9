package videosearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"songdeck/internal/core"
)

type rt struct {
	status int
	body   string
	last   *http.Request
}

func (r *rt) RoundTrip(req *http.Request) (*http.Response, error) {
	r.last = req
	rec := httptest.NewRecorder()
	rec.WriteHeader(r.status)
	_, _ = rec.WriteString(r.body)
	return rec.Result(), nil
}

func newClient(transport http.RoundTripper) *Client {
	return NewClient(&core.VideoConfig{APIKey: "k"}, &http.Client{Transport: transport}, zap.NewNop())
}

func TestBestMatch_Success(t *testing.T) {
	transport := &rt{
		status: http.StatusOK,
		body:   `{"items":[{"id":{"kind":"youtube#video","videoId":"FGBhQbmPwH8"},"snippet":{"title":"Daft Punk - One More Time","channelTitle":"Daft Punk"}}]}`,
	}
	client := newClient(transport)

	ref, ok, err := client.BestMatch(context.Background(), "One More Time Daft Punk")
	if err != nil || !ok {
		t.Fatalf("unexpected result: ok=%v err=%v", ok, err)
	}
	if ref.ID != "FGBhQbmPwH8" {
		t.Errorf("ID = %q, want %q", ref.ID, "FGBhQbmPwH8")
	}
	if ref.Title != "Daft Punk - One More Time" {
		t.Errorf("Title = %q", ref.Title)
	}

	query := transport.last.URL.Query()
	expected := map[string]string{
		"part":       "snippet",
		"maxResults": "1",
		"q":          "One More Time Daft Punk",
		"key":        "k",
	}
	for param, want := range expected {
		if got := query.Get(param); got != want {
			t.Errorf("%s = %q, want %q", param, got, want)
		}
	}
	if transport.last.URL.Host != "www.googleapis.com" {
		t.Errorf("unexpected host %q", transport.last.URL.Host)
	}
}

func TestBestMatch_NoItems(t *testing.T) {
	client := newClient(&rt{status: http.StatusOK, body: `{"items":[]}`})

	ref, ok, err := client.BestMatch(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || !ref.IsZero() {
		t.Errorf("expected no match, got %+v", ref)
	}
}

func TestBestMatch_ChannelResultIsNoMatch(t *testing.T) {
	client := newClient(&rt{status: http.StatusOK, body: `{"items":[{"id":{"kind":"youtube#channel","channelId":"UC123"}}]}`})

	_, ok, err := client.BestMatch(context.Background(), "daft punk")
	if err != nil || ok {
		t.Errorf("expected no match without error, got ok=%v err=%v", ok, err)
	}
}

func TestBestMatch_StatusError(t *testing.T) {
	client := newClient(&rt{status: http.StatusForbidden, body: `{"error":{"code":403,"message":"quotaExceeded"}}`})

	_, ok, err := client.BestMatch(context.Background(), "q")
	if !errors.Is(err, ErrVideoSearchFailed) {
		t.Fatalf("expected ErrVideoSearchFailed, got %v", err)
	}
	if ok {
		t.Error("expected no match on error")
	}
}

func TestBestMatch_MalformedBody(t *testing.T) {
	client := newClient(&rt{status: http.StatusOK, body: `{"items":`})

	_, _, err := client.BestMatch(context.Background(), "q")
	if !errors.Is(err, ErrVideoSearchFailed) {
		t.Fatalf("expected ErrVideoSearchFailed, got %v", err)
	}
}
