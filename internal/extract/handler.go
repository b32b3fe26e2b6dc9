package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Extraction outcomes reported to the Recorder.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid_url"
	OutcomeFailed  = "failed"
)

const invalidURLMessage = "Invalid YouTube URL"

// Extractor is the operation behind the /audio endpoint.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoURL string) (string, error)
}

// Recorder receives one observation per handled request.
type Recorder interface {
	RecordExtraction(outcome string, duration time.Duration)
}

type audioResponse struct {
	AudioURL string `json:"audioUrl"`
}

// Handler serves GET /audio?url=<watch url>.
type Handler struct {
	extractor Extractor
	recorder  Recorder
	logger    *zap.Logger
}

func NewHandler(extractor Extractor, recorder Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		extractor: extractor,
		recorder:  recorder,
		logger:    logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	videoURL := r.URL.Query().Get("url")

	audioURL, err := h.extractor.ExtractAudio(r.Context(), videoURL)
	switch {
	case errors.Is(err, ErrInvalidURL):
		h.record(OutcomeInvalid, start)
		h.logger.Debug("Rejected video URL", zap.String("url", videoURL), zap.Error(err))
		writeText(w, http.StatusBadRequest, invalidURLMessage)
		return
	case err != nil:
		h.record(OutcomeFailed, start)
		h.logger.Warn("Audio extraction failed", zap.String("url", videoURL), zap.Error(err))
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.record(OutcomeOK, start)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(audioResponse{AudioURL: audioURL}); err != nil {
		h.logger.Debug("Failed to write audio response", zap.Error(err))
	}
}

func (h *Handler) record(outcome string, start time.Time) {
	if h.recorder != nil {
		h.recorder.RecordExtraction(outcome, time.Since(start))
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
