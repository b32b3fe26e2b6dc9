package core

import (
	"strings"
)

// WatchURLPrefix is the canonical watch page prefix for a video id.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// Track is a catalog search result. Values are never mutated after the catalog client
// builds them.
type Track struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	ImageURL   string   `json:"imageUrl,omitempty"`
	PreviewURL string   `json:"previewUrl,omitempty"`
}

// PrimaryArtist returns the first credited artist, or "" when none is known.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// HasPreview reports whether the catalog supplied an embedded preview clip.
func (t Track) HasPreview() bool {
	return t.PreviewURL != ""
}

// SearchQuery is free text typed by the user.
type SearchQuery string

// IsEmpty reports whether the query has nothing to search for.
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(string(q)) == ""
}

func (q SearchQuery) String() string {
	return string(q)
}

// VideoReference identifies a video on the video platform.
type VideoReference struct {
	ID    string
	Title string
}

// IsZero reports whether the reference points at nothing.
func (v VideoReference) IsZero() bool {
	return v.ID == ""
}

// WatchURL returns the watch page URL for the referenced video.
func (v VideoReference) WatchURL() string {
	return WatchURLPrefix + v.ID
}
