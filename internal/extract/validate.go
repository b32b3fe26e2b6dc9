package extract

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const videoIDLength = 11

// ErrInvalidURL is returned for input that does not reference a YouTube video.
var ErrInvalidURL = errors.New("invalid YouTube URL")

var (
	videoIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// Hosts that carry the id in the "v" query parameter.
	queryHosts = map[string]bool{
		"youtube.com":        true,
		"www.youtube.com":    true,
		"m.youtube.com":      true,
		"music.youtube.com":  true,
		"gaming.youtube.com": true,
	}

	// Hosts that only ever carry the id in the path.
	embedHosts = map[string]bool{
		"youtube-nocookie.com":     true,
		"www.youtube-nocookie.com": true,
	}

	// First path segments followed by the id.
	idPathPrefixes = map[string]bool{
		"embed":  true,
		"v":      true,
		"shorts": true,
		"live":   true,
	}
)

// ValidateURL checks that rawURL references a single YouTube video and returns its id.
// Ids longer than eleven characters are truncated before validation.
func ValidateURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	var videoID string
	switch {
	case host == "youtu.be":
		if len(segments) > 0 {
			videoID = segments[0]
		}
	case queryHosts[host]:
		videoID = u.Query().Get("v")
		if videoID == "" {
			videoID = idFromPath(segments)
		}
	case embedHosts[host]:
		videoID = idFromPath(segments)
	default:
		return "", fmt.Errorf("%w: not a YouTube domain %q", ErrInvalidURL, host)
	}

	if videoID == "" {
		return "", fmt.Errorf("%w: no video id", ErrInvalidURL)
	}
	if len(videoID) > videoIDLength {
		videoID = videoID[:videoIDLength]
	}
	if !videoIDRegex.MatchString(videoID) {
		return "", fmt.Errorf("%w: malformed video id %q", ErrInvalidURL, videoID)
	}

	return videoID, nil
}

func idFromPath(segments []string) string {
	if len(segments) >= 2 && idPathPrefixes[segments[0]] {
		return segments[1]
	}
	return ""
}
