// Package extract turns a YouTube watch URL into a directly playable audio stream URL.
package extract

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrExtractionFailed is returned when a valid video yields no playable audio stream.
var ErrExtractionFailed = errors.New("audio extraction failed")

// MetadataSource fetches video metadata and resolves the playable URL of a variant.
type MetadataSource interface {
	Metadata(ctx context.Context, videoID string) (*Metadata, error)
	StreamURL(ctx context.Context, meta *Metadata, variant StreamVariant) (string, error)
}

// Service extracts the highest quality audio-only stream of a video.
type Service struct {
	source MetadataSource
	logger *zap.Logger
}

func NewService(source MetadataSource, logger *zap.Logger) *Service {
	return &Service{
		source: source,
		logger: logger,
	}
}

// ExtractAudio validates videoURL and returns the stream URL of its best audio-only
// variant. Metadata is never fetched for an invalid URL.
func (s *Service) ExtractAudio(ctx context.Context, videoURL string) (string, error) {
	videoID, err := ValidateURL(videoURL)
	if err != nil {
		return "", err
	}

	meta, err := s.source.Metadata(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("%w: metadata for %s: %v", ErrExtractionFailed, videoID, err)
	}
	if meta == nil {
		return "", fmt.Errorf("%w: no metadata for %s", ErrExtractionFailed, videoID)
	}

	variant, ok := SelectHighestAudio(meta.Variants)
	if !ok {
		return "", fmt.Errorf("%w: no audio-only stream for %s", ErrExtractionFailed, videoID)
	}

	streamURL, err := s.source.StreamURL(ctx, meta, variant)
	if err != nil {
		return "", fmt.Errorf("%w: stream for %s itag %d: %v", ErrExtractionFailed, videoID, variant.Itag, err)
	}
	if streamURL == "" {
		return "", fmt.Errorf("%w: empty stream url for %s", ErrExtractionFailed, videoID)
	}

	s.logger.Debug("Extracted audio stream",
		zap.String("video_id", videoID),
		zap.Int("itag", variant.Itag),
		zap.String("mime_type", variant.MimeType),
		zap.String("audio_quality", variant.AudioQuality),
		zap.Int("bitrate", variant.Bitrate))

	return streamURL, nil
}
