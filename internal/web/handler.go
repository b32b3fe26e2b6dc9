// Package web serves the track deck: the HTML page, its JSON API and per-card audio
// resolution.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"songdeck/internal/core"
	"songdeck/internal/i18n"
	"songdeck/internal/view"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// ErrorRecorder counts handler failures.
type ErrorRecorder interface {
	RecordError(component, errorType string)
}

type Handler struct {
	view      *view.View
	localizer *i18n.Localizer
	page      *template.Template
	errors    ErrorRecorder
	logger    *zap.Logger
}

type pageData struct {
	Lang    string
	Query   string
	Input   string
	Loading bool
	Cards   []cardData
}

type cardData struct {
	ID       string
	Title    string
	Artists  string
	ImageURL string
	State    string
	AudioURL string
}

type deckResponse struct {
	Query   string         `json:"query"`
	Loading bool           `json:"loading"`
	Cards   []cardResponse `json:"cards"`
}

type cardResponse struct {
	ID       string     `json:"id"`
	Track    core.Track `json:"track"`
	State    string     `json:"state"`
	AudioURL string     `json:"audioUrl,omitempty"`
}

func NewHandler(v *view.View, localizer *i18n.Localizer, errors ErrorRecorder, logger *zap.Logger) (*Handler, error) {
	page, err := template.New("index.html.tmpl").
		Funcs(template.FuncMap{"t": localizer.T}).
		ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, err
	}

	return &Handler{
		view:      v,
		localizer: localizer,
		page:      page,
		errors:    errors,
		logger:    logger,
	}, nil
}

// Routes returns the web client's router.
func (h *Handler) Routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", h.index).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/search", h.search).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", h.tracks).Methods(http.MethodGet)
	router.HandleFunc("/api/search", h.apiSearch).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/api/cards/{id}/audio", h.cardAudio).Methods(http.MethodGet)
	return router
}

// index renders the deck. The first render mounts the view; every render starts
// resolution for the cards it shows.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	_ = h.view.Mount(r.Context())
	snapshot := h.view.Snapshot()

	data := pageData{
		Lang:    h.localizer.Language(),
		Query:   snapshot.Query,
		Loading: snapshot.Loading,
		Cards:   make([]cardData, 0, len(snapshot.Cards)),
	}
	if snapshot.Query != core.DefaultQuery {
		data.Input = snapshot.Query
	}

	for _, card := range snapshot.Cards {
		card.Start(r.Context())
		state, audioURL := card.State()

		artists := strings.Join(card.Track.Artists, ", ")
		if artists == "" {
			artists = h.localizer.T("card.unknown_artist")
		}

		data.Cards = append(data.Cards, cardData{
			ID:       card.ID,
			Title:    card.Track.Title,
			Artists:  artists,
			ImageURL: card.Track.ImageURL,
			State:    state,
			AudioURL: audioURL,
		})
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
		h.recordError("template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// search runs a search from the page form and sends the browser back to the deck.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	_ = h.view.Search(r.Context(), r.URL.Query().Get("q"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) tracks(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, newDeckResponse(h.view.Snapshot()))
}

func (h *Handler) apiSearch(w http.ResponseWriter, r *http.Request) {
	_ = h.view.Search(r.Context(), r.FormValue("q"))
	h.writeJSON(w, http.StatusOK, newDeckResponse(h.view.Snapshot()))
}

// cardAudio waits for a card's audio. 204 means the card has no audio; 404 means the
// card is no longer mounted.
func (h *Handler) cardAudio(w http.ResponseWriter, r *http.Request) {
	card, ok := h.view.Card(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}

	audioURL, found, err := card.Audio(r.Context())
	if err != nil {
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"audioUrl": audioURL})
}

func newDeckResponse(snapshot view.Snapshot) deckResponse {
	response := deckResponse{
		Query:   snapshot.Query,
		Loading: snapshot.Loading,
		Cards:   make([]cardResponse, 0, len(snapshot.Cards)),
	}
	for _, card := range snapshot.Cards {
		state, audioURL := card.State()
		response.Cards = append(response.Cards, cardResponse{
			ID:       card.ID,
			Track:    card.Track,
			State:    state,
			AudioURL: audioURL,
		})
	}
	return response
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Debug("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) recordError(errorType string) {
	if h.errors != nil {
		h.errors.RecordError("web", errorType)
	}
}
