// Package view holds the state behind the track deck: the query, the mounted cards
// and whether a search is in flight.
package view

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"songdeck/internal/core"
	"songdeck/internal/store"
)

// Catalog searches the music catalog.
type Catalog interface {
	Search(ctx context.Context, query string) ([]core.Track, error)
}

// Recorder observes catalog searches and deck size.
type Recorder interface {
	RecordCatalogSearch(status string, duration time.Duration)
	SetDeckSize(size int)
}

// Snapshot is an immutable copy of the view state.
type Snapshot struct {
	Query   string
	Loading bool
	Cards   []*Card
}

// View is the single writer of the deck. Every search replaces the deck as a whole;
// cards from earlier decks are never mutated, only dropped.
type View struct {
	catalog  Catalog
	resolver Resolver
	recorder Recorder
	index    *store.CardIndex[*Card]
	logger   *zap.Logger

	mu         sync.RWMutex
	query      string
	loading    bool
	cards      []*Card
	generation uint64
	mounted    bool
}

func New(catalog Catalog, resolver Resolver, recorder Recorder, maxCards int, logger *zap.Logger) *View {
	if maxCards <= 0 {
		maxCards = core.DefaultMaxCards
	}
	return &View{
		catalog:  catalog,
		resolver: resolver,
		recorder: recorder,
		index:    store.NewCardIndex[*Card](maxCards, store.DefaultFalsePositiveRate),
		logger:   logger,
	}
}

// Mount runs the initial search for the default query. Only the first call searches.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return nil
	}
	v.mounted = true
	v.mu.Unlock()

	return v.load(ctx, core.DefaultQuery)
}

// Search replaces the deck with the results for query. An empty query is a no-op.
func (v *View) Search(ctx context.Context, query string) error {
	if core.SearchQuery(query).IsEmpty() {
		return nil
	}
	return v.load(ctx, query)
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	cards := make([]*Card, len(v.cards))
	copy(cards, v.cards)

	return Snapshot{
		Query:   v.query,
		Loading: v.loading,
		Cards:   cards,
	}
}

// Card returns a card of the current deck.
func (v *View) Card(id string) (*Card, bool) {
	return v.index.Get(id)
}

// load runs one catalog search. A catalog failure leaves an empty deck; when searches
// overlap only the latest one is applied.
func (v *View) load(ctx context.Context, query string) error {
	v.mu.Lock()
	v.generation++
	generation := v.generation
	v.query = query
	v.loading = true
	v.mu.Unlock()

	start := time.Now()
	tracks, err := v.catalog.Search(ctx, query)
	status := "ok"
	if err != nil {
		status = "error"
		v.logger.Error("Catalog search failed", zap.String("query", query), zap.Error(err))
		tracks = nil
	}
	if v.recorder != nil {
		v.recorder.RecordCatalogSearch(status, time.Since(start))
	}

	cards := make([]*Card, 0, len(tracks))
	entries := make([]store.Entry[*Card], 0, len(tracks))
	for _, track := range tracks {
		card := newCard(track, v.resolver)
		cards = append(cards, card)
		entries = append(entries, store.Entry[*Card]{Key: card.ID, Value: card})
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if generation != v.generation {
		v.logger.Debug("Discarding superseded search results", zap.String("query", query))
		return err
	}

	v.cards = cards
	v.loading = false
	v.index.Load(entries)
	if v.recorder != nil {
		v.recorder.SetDeckSize(len(cards))
	}

	v.logger.Info("Deck replaced",
		zap.String("query", query),
		zap.Int("cards", len(cards)),
		zap.Int("indexed", v.index.Size()))

	return err
}
