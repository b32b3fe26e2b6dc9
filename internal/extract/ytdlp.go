package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"songdeck/internal/core"
)

// commandRunner runs a binary and returns its standard output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// YTDLPSource reads player metadata with the yt-dlp binary. Format URLs returned by
// yt-dlp are already deciphered.
type YTDLPSource struct {
	Binary string
	run    commandRunner
}

func NewYTDLPSource(binary string) *YTDLPSource {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YTDLPSource{
		Binary: binary,
		run:    runCommand,
	}
}

type ytDLPVideo struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Formats []ytDLPFormat `json:"formats"`
}

type ytDLPFormat struct {
	FormatID      string  `json:"format_id"`
	FormatNote    string  `json:"format_note"`
	URL           string  `json:"url"`
	Ext           string  `json:"ext"`
	ACodec        string  `json:"acodec"`
	VCodec        string  `json:"vcodec"`
	ABR           float64 `json:"abr"`
	TBR           float64 `json:"tbr"`
	ASR           int     `json:"asr"`
	AudioChannels int     `json:"audio_channels"`
}

func (s *YTDLPSource) Metadata(ctx context.Context, videoID string) (*Metadata, error) {
	args := []string{
		"--no-warnings",
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		core.WatchURLPrefix + videoID,
	}

	output, err := s.run(ctx, s.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	return parseYTDLPMetadata(output)
}

// StreamURL returns the variant's URL as reported by yt-dlp.
func (s *YTDLPSource) StreamURL(_ context.Context, _ *Metadata, variant StreamVariant) (string, error) {
	if variant.URL == "" {
		return "", fmt.Errorf("itag %d has no url", variant.Itag)
	}
	return variant.URL, nil
}

func parseYTDLPMetadata(output []byte) (*Metadata, error) {
	var video ytDLPVideo
	if err := json.Unmarshal(output, &video); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if video.ID == "" {
		return nil, errors.New("missing video id")
	}

	variants := make([]StreamVariant, 0, len(video.Formats))
	for i := range video.Formats {
		variants = append(variants, variantFromYTDLP(&video.Formats[i]))
	}

	return &Metadata{
		VideoID:  video.ID,
		Title:    strings.TrimSpace(video.Title),
		Variants: variants,
	}, nil
}

func variantFromYTDLP(format *ytDLPFormat) StreamVariant {
	itag, _ := strconv.Atoi(format.FormatID)

	kbps := format.ABR
	if kbps == 0 {
		kbps = format.TBR
	}

	var mimeType string
	if format.Ext != "" {
		kind := "audio"
		if hasCodec(format.VCodec) {
			kind = "video"
		}
		mimeType = kind + "/" + format.Ext
	}

	return StreamVariant{
		Itag:            itag,
		MimeType:        mimeType,
		AudioQuality:    audioQualityFromNote(format.FormatNote),
		Bitrate:         int(kbps * 1000),
		AudioSampleRate: format.ASR,
		AudioChannels:   format.AudioChannels,
		HasAudio:        hasCodec(format.ACodec),
		HasVideo:        hasCodec(format.VCodec),
		URL:             format.URL,
	}
}

func hasCodec(codec string) bool {
	return codec != "" && codec != "none"
}

// audioQualityFromNote maps yt-dlp's format note ("medium", "low, DRC", ...) onto the
// player's quality tiers.
func audioQualityFromNote(note string) string {
	note = strings.ToLower(note)
	if i := strings.IndexByte(note, ','); i >= 0 {
		note = note[:i]
	}
	switch strings.TrimSpace(note) {
	case "high":
		return AudioQualityHigh
	case "medium":
		return AudioQualityMedium
	case "low":
		return AudioQualityLow
	case "ultralow":
		return AudioQualityUltraLow
	default:
		return ""
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%v: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return output, nil
}
