package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type extractorFunc func(ctx context.Context, videoURL string) (string, error)

func (f extractorFunc) ExtractAudio(ctx context.Context, videoURL string) (string, error) {
	return f(ctx, videoURL)
}

type outcomeRecorder struct {
	outcomes []string
}

func (r *outcomeRecorder) RecordExtraction(outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func serveAudio(t *testing.T, extractor Extractor, rawQuery string) (*httptest.ResponseRecorder, *outcomeRecorder) {
	t.Helper()
	recorder := &outcomeRecorder{}
	handler := NewHandler(extractor, recorder, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/audio?"+rawQuery, http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, recorder
}

func TestHandler_Success(t *testing.T) {
	var gotURL string
	extractor := extractorFunc(func(_ context.Context, videoURL string) (string, error) {
		gotURL = videoURL
		return "https://rr1.example/videoplayback?itag=251&sig=x", nil
	})

	watch := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	rec, recorder := serveAudio(t, extractor, url.Values{"url": {watch}}.Encode())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if gotURL != watch {
		t.Errorf("extractor got %q, want %q", gotURL, watch)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["audioUrl"] != "https://rr1.example/videoplayback?itag=251&sig=x" {
		t.Errorf("audioUrl = %q", body["audioUrl"])
	}
	if len(recorder.outcomes) != 1 || recorder.outcomes[0] != OutcomeOK {
		t.Errorf("outcomes = %v", recorder.outcomes)
	}
}

func TestHandler_UnencodedWatchURL(t *testing.T) {
	var gotURL string
	extractor := extractorFunc(func(_ context.Context, videoURL string) (string, error) {
		gotURL = videoURL
		return "https://rr1.example/a", nil
	})

	rec, _ := serveAudio(t, extractor, "url=https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("extractor got %q", gotURL)
	}
}

func TestHandler_InvalidURL(t *testing.T) {
	source := &fakeSource{}
	service := NewService(source, zap.NewNop())

	for _, query := range []string{"", "url=", "url=https%3A%2F%2Fvimeo.com%2F1"} {
		rec, recorder := serveAudio(t, service, query)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: status = %d, want 400", query, rec.Code)
		}
		if rec.Body.String() != "Invalid YouTube URL" {
			t.Errorf("%q: body = %q", query, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("%q: Content-Type = %q", query, ct)
		}
		if len(recorder.outcomes) != 1 || recorder.outcomes[0] != OutcomeInvalid {
			t.Errorf("%q: outcomes = %v", query, recorder.outcomes)
		}
	}

	if source.metaCalls != 0 {
		t.Errorf("metadata fetched %d times for invalid input", source.metaCalls)
	}
}

func TestHandler_ExtractionFailure(t *testing.T) {
	extractor := extractorFunc(func(context.Context, string) (string, error) {
		return "", errors.Join(ErrExtractionFailed, errors.New("no audio-only stream"))
	})

	rec, recorder := serveAudio(t, extractor, "url=https%3A%2F%2Fyoutu.be%2FdQw4w9WgXcQ")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "audio-only") {
		t.Errorf("internal error detail leaked to client: %q", rec.Body.String())
	}
	if len(recorder.outcomes) != 1 || recorder.outcomes[0] != OutcomeFailed {
		t.Errorf("outcomes = %v", recorder.outcomes)
	}
}

func TestHandler_NilRecorder(t *testing.T) {
	handler := NewHandler(extractorFunc(func(context.Context, string) (string, error) {
		return "https://rr1.example/a", nil
	}), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio?url=x", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
