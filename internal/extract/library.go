package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// LibrarySource reads player metadata in-process with github.com/kkdai/youtube.
type LibrarySource struct {
	client *youtube.Client
}

func NewLibrarySource(httpClient *http.Client) *LibrarySource {
	return &LibrarySource{
		client: &youtube.Client{HTTPClient: httpClient},
	}
}

func (s *LibrarySource) Metadata(ctx context.Context, videoID string) (*Metadata, error) {
	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, err
	}

	variants := make([]StreamVariant, 0, len(video.Formats))
	for i := range video.Formats {
		variants = append(variants, variantFromFormat(&video.Formats[i]))
	}

	return &Metadata{
		VideoID:  video.ID,
		Title:    video.Title,
		Variants: variants,
		handle:   video,
	}, nil
}

// StreamURL deciphers the variant's URL when the player requires it.
func (s *LibrarySource) StreamURL(ctx context.Context, meta *Metadata, variant StreamVariant) (string, error) {
	video, ok := meta.handle.(*youtube.Video)
	if !ok || video == nil {
		return "", errors.New("metadata was not produced by the library source")
	}

	for i := range video.Formats {
		if video.Formats[i].ItagNo == variant.Itag {
			return s.client.GetStreamURLContext(ctx, video, &video.Formats[i])
		}
	}

	return "", fmt.Errorf("itag %d not found", variant.Itag)
}

func variantFromFormat(format *youtube.Format) StreamVariant {
	sampleRate, _ := strconv.Atoi(format.AudioSampleRate)

	bitrate := format.AverageBitrate
	if bitrate == 0 {
		bitrate = format.Bitrate
	}

	mimeType := strings.ToLower(format.MimeType)

	return StreamVariant{
		Itag:            format.ItagNo,
		MimeType:        format.MimeType,
		AudioQuality:    format.AudioQuality,
		Bitrate:         bitrate,
		AudioSampleRate: sampleRate,
		AudioChannels:   format.AudioChannels,
		HasAudio:        format.AudioChannels > 0 || strings.HasPrefix(mimeType, "audio/"),
		HasVideo:        strings.HasPrefix(mimeType, "video/"),
		URL:             format.URL,
	}
}
