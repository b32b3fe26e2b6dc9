// Package resolver finds a playable audio URL for a catalog track.
package resolver

import (
	"context"

	"go.uber.org/zap"

	"songdeck/internal/core"
	"songdeck/pkg/querytext"
)

// Resolution outcomes reported to the Recorder.
const (
	OutcomePreview   = "preview"
	OutcomeExtracted = "extracted"
	OutcomeNoMatch   = "no_match"
	OutcomeFailed    = "failed"
)

// VideoSearcher finds the best matching video for a free-text query.
type VideoSearcher interface {
	BestMatch(ctx context.Context, query string) (core.VideoReference, bool, error)
}

// Extractor turns a watch URL into a playable audio URL.
type Extractor interface {
	Extract(ctx context.Context, watchURL string) (string, error)
}

// Recorder counts resolution outcomes.
type Recorder interface {
	RecordResolution(outcome string)
}

// Resolver prefers the catalog's own preview clip and falls back to audio extracted
// from the best matching video.
type Resolver struct {
	videos    VideoSearcher
	extractor Extractor
	cleaner   *querytext.Cleaner
	recorder  Recorder
	logger    *zap.Logger
}

func New(videos VideoSearcher, extractor Extractor, recorder Recorder, logger *zap.Logger) *Resolver {
	return &Resolver{
		videos:    videos,
		extractor: extractor,
		cleaner:   querytext.NewCleaner(),
		recorder:  recorder,
		logger:    logger,
	}
}

// Resolve returns the audio URL for track, or false when none could be found. Failures
// of either collaborator are logged and reported as "no audio"; they never surface as
// errors.
func (r *Resolver) Resolve(ctx context.Context, track core.Track) (string, bool) {
	if track.HasPreview() {
		r.record(OutcomePreview)
		return track.PreviewURL, true
	}

	query := r.cleaner.VideoQuery(track.Title, track.PrimaryArtist())
	logger := r.logger.With(zap.String("track_id", track.ID), zap.String("query", query))

	video, found, err := r.videos.BestMatch(ctx, query)
	if err != nil {
		logger.Warn("Video search failed", zap.Error(err))
		r.record(OutcomeFailed)
		return "", false
	}
	if !found || video.IsZero() {
		logger.Debug("No video matches track")
		r.record(OutcomeNoMatch)
		return "", false
	}

	audioURL, err := r.extractor.Extract(ctx, video.WatchURL())
	if err != nil {
		logger.Warn("Audio extraction failed", zap.String("video_id", video.ID), zap.Error(err))
		r.record(OutcomeFailed)
		return "", false
	}
	if audioURL == "" {
		logger.Warn("Extraction returned no audio URL", zap.String("video_id", video.ID))
		r.record(OutcomeFailed)
		return "", false
	}

	logger.Debug("Resolved audio from video", zap.String("video_id", video.ID))
	r.record(OutcomeExtracted)
	return audioURL, true
}

func (r *Resolver) record(outcome string) {
	if r.recorder != nil {
		r.recorder.RecordResolution(outcome)
	}
}
