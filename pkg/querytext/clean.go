// Package querytext prepares catalog metadata for free-text searches on other platforms.
package querytext

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	featRegex       = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]*[\)\]]`)
	dashFeatRegex   = regexp.MustCompile(`(?i)\s+-\s+(?:feat\.?|ft\.?|featuring)\s+.*$`)
	versionRegex    = regexp.MustCompile(`(?i)\s*[\(\[][^\)\]]*\b(?:remaster(?:ed)?|deluxe|extended|radio edit|clean|explicit)\b[^\)\]]*[\)\]]`)
	dashSuffixRegex = regexp.MustCompile(`(?i)\s+-\s+[^-]*\b(?:remaster(?:ed)?|radio edit|single version|album version|mono|stereo)\b.*$`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Cleaner strips release decorations that catalog titles carry but video titles
// usually do not. Case and punctuation are preserved.
type Cleaner struct{}

func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanTitle removes featuring credits and remaster/edition suffixes. Credits are only
// recognized in brackets or after a " - " separator.
func (c *Cleaner) CleanTitle(title string) string {
	cleaned := c.basicNormalize(title)

	cleaned = featRegex.ReplaceAllString(cleaned, " ")
	cleaned = dashFeatRegex.ReplaceAllString(cleaned, "")
	cleaned = versionRegex.ReplaceAllString(cleaned, " ")
	cleaned = dashSuffixRegex.ReplaceAllString(cleaned, "")

	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		// Never clean a title down to nothing.
		return c.basicNormalize(title)
	}
	return cleaned
}

// VideoQuery builds the "<title> <artist>" text used to look a track up on the video
// platform.
func (c *Cleaner) VideoQuery(title, artist string) string {
	parts := make([]string, 0, 2)
	if t := c.CleanTitle(title); t != "" {
		parts = append(parts, t)
	}
	if a := c.basicNormalize(artist); a != "" {
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// basicNormalize composes Unicode (NFC) so that decomposed catalog strings search
// the same as precomposed ones, and collapses whitespace.
func (c *Cleaner) basicNormalize(text string) string {
	text = norm.NFC.String(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
