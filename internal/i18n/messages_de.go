package i18n

// germanMessages contains all German translations.
var germanMessages = map[string]string{
	// Page
	"page.title":   "Song Deck",
	"page.heading": "Musik entdecken",

	// Search form
	"search.placeholder": "Künstler, Songs oder Podcasts",
	"search.button":      "Suchen",
	"search.label":       "Katalog durchsuchen",

	// Deck states
	"status.loading":    "Wird geladen...",
	"status.no_results": "Keine Titel gefunden für \"%s\".",

	// Card
	"card.cover_alt":         "Albumcover von %s",
	"card.unknown_artist":    "Unbekannter Künstler",
	"card.loading_preview":   "Vorschau wird geladen...",
	"card.audio_unavailable": "Kein Audio verfügbar",
}
