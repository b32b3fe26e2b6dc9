package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Page
	"page.title":   "Song Deck",
	"page.heading": "Discover music",

	// Search form
	"search.placeholder": "Artists, songs, or podcasts",
	"search.button":      "Search",
	"search.label":       "Search the catalog",

	// Deck states
	"status.loading":    "Loading...",
	"status.no_results": "No tracks found for \"%s\".",

	// Card
	"card.cover_alt":         "Album cover of %s",
	"card.unknown_artist":    "Unknown artist",
	"card.loading_preview":   "Loading preview...",
	"card.audio_unavailable": "No audio available",
}
