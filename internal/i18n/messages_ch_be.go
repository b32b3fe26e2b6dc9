package i18n

// berneseGermanMessages contains all Bernese German translations.
var berneseGermanMessages = map[string]string{
	// Page
	"page.title":   "Song Deck",
	"page.heading": "Musig entdecke",

	// Search form
	"search.placeholder": "Künschtler, Lieder oder Podcasts",
	"search.button":      "Sueche",
	"search.label":       "Im Katalog sueche",

	// Deck states
	"status.loading":    "Am Lade...",
	"status.no_results": "Nüt gfunde für \"%s\".",

	// Card
	"card.cover_alt":         "Albumcover vo %s",
	"card.unknown_artist":    "Unbekannte Künschtler",
	"card.loading_preview":   "Vorschou wird glade...",
	"card.audio_unavailable": "Kes Audio verfüegbar",
}
