package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"songdeck/internal/core"
)

type fakeCatalog struct {
	mu      sync.Mutex
	results map[string][]core.Track
	err     error
	gates   map[string]chan struct{}
	queries []string
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]core.Track, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gates[query]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return f.results[query], f.err
}

func (f *fakeCatalog) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type noResolver struct{}

func (noResolver) Resolve(context.Context, core.Track) (string, bool) {
	return "", false
}

func tracks(titles ...string) []core.Track {
	out := make([]core.Track, 0, len(titles))
	for _, title := range titles {
		out = append(out, core.Track{ID: "id-" + title, Title: title, Artists: []string{"Artist"}})
	}
	return out
}

func TestMount_SearchesDefaultQuery(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]core.Track{
		core.DefaultQuery: tracks("one", "two", "three"),
	}}
	v := New(catalog, noResolver{}, nil, 10, zap.NewNop())

	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() unexpected error: %v", err)
	}

	if got := catalog.calls(); len(got) != 1 || got[0] != "trending" {
		t.Errorf("catalog queries = %v, want [trending]", got)
	}

	snapshot := v.Snapshot()
	if snapshot.Query != "trending" || snapshot.Loading {
		t.Errorf("unexpected snapshot: query=%q loading=%v", snapshot.Query, snapshot.Loading)
	}
	if len(snapshot.Cards) != 3 {
		t.Fatalf("expected one card per track, got %d", len(snapshot.Cards))
	}
	for i, title := range []string{"one", "two", "three"} {
		if snapshot.Cards[i].Track.Title != title {
			t.Errorf("card %d = %q, want %q", i, snapshot.Cards[i].Track.Title, title)
		}
	}

	// Mounting again does not search again
	_ = v.Mount(context.Background())
	if got := catalog.calls(); len(got) != 1 {
		t.Errorf("second Mount() searched again: %v", got)
	}
}

func TestSearch_ReplacesDeck(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]core.Track{
		core.DefaultQuery: tracks("one", "two"),
		"daft punk":       tracks("around the world"),
	}}
	v := New(catalog, noResolver{}, nil, 10, zap.NewNop())
	_ = v.Mount(context.Background())
	before := v.Snapshot()

	if err := v.Search(context.Background(), "daft punk"); err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}

	after := v.Snapshot()
	if after.Query != "daft punk" {
		t.Errorf("query = %q", after.Query)
	}
	if len(after.Cards) != 1 || after.Cards[0].Track.Title != "around the world" {
		t.Fatalf("deck was not replaced: %+v", after.Cards)
	}

	for _, card := range before.Cards {
		if _, ok := v.Card(card.ID); ok {
			t.Errorf("card %s from the previous deck is still mounted", card.ID)
		}
	}
	if _, ok := v.Card(after.Cards[0].ID); !ok {
		t.Error("new card should be mounted")
	}

	// The earlier snapshot is a copy and keeps the old cards
	if len(before.Cards) != 2 {
		t.Errorf("earlier snapshot changed: %d cards", len(before.Cards))
	}
}

func TestSearch_DeckLargerThanMaxCardsStaysAddressable(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]core.Track{
		"big": tracks("one", "two", "three", "four", "five"),
	}}
	v := New(catalog, noResolver{}, nil, 2, zap.NewNop())

	if err := v.Search(context.Background(), "big"); err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}

	snapshot := v.Snapshot()
	if len(snapshot.Cards) != 5 {
		t.Fatalf("expected 5 rendered cards, got %d", len(snapshot.Cards))
	}
	for _, card := range snapshot.Cards {
		got, ok := v.Card(card.ID)
		if !ok {
			t.Errorf("rendered card %q is not addressable", card.Track.Title)
			continue
		}
		if got != card {
			t.Errorf("Card(%s) returned a different card", card.ID)
		}
	}
}

func TestSearch_EmptyQueryIsNoop(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]core.Track{core.DefaultQuery: tracks("one")}}
	v := New(catalog, noResolver{}, nil, 10, zap.NewNop())
	_ = v.Mount(context.Background())

	for _, query := range []string{"", "   ", "\t\n"} {
		if err := v.Search(context.Background(), query); err != nil {
			t.Errorf("Search(%q) unexpected error: %v", query, err)
		}
	}

	if got := catalog.calls(); len(got) != 1 {
		t.Errorf("empty searches reached the catalog: %v", got)
	}
	if snapshot := v.Snapshot(); snapshot.Query != "trending" || len(snapshot.Cards) != 1 {
		t.Errorf("state changed on empty search: %+v", snapshot)
	}
}

func TestSearch_CatalogErrorLeavesEmptyDeck(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]core.Track{core.DefaultQuery: tracks("one", "two")}}
	v := New(catalog, noResolver{}, nil, 10, zap.NewNop())
	_ = v.Mount(context.Background())

	catalog.err = errors.New("catalog unavailable: 403 Forbidden")
	if err := v.Search(context.Background(), "anything"); err == nil {
		t.Error("Search() should return the catalog error")
	}

	snapshot := v.Snapshot()
	if snapshot.Loading {
		t.Error("loading must be cleared after a failed search")
	}
	if len(snapshot.Cards) != 0 {
		t.Errorf("expected empty deck, got %d cards", len(snapshot.Cards))
	}
}

func TestSearch_LoadingWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	catalog := &fakeCatalog{
		results: map[string][]core.Track{"slow": tracks("late")},
		gates:   map[string]chan struct{}{"slow": gate},
	}
	v := New(catalog, noResolver{}, nil, 10, zap.NewNop())

	done := make(chan struct{})
	go func() {
		_ = v.Search(context.Background(), "slow")
		close(done)
	}()

	waitFor(t, func() bool { return v.Snapshot().Loading })
	if q := v.Snapshot().Query; q != "slow" {
		t.Errorf("query during search = %q", q)
	}

	close(gate)
	<-done

	if snapshot := v.Snapshot(); snapshot.Loading || len(snapshot.Cards) != 1 {
		t.Errorf("unexpected state after search: %+v", snapshot)
	}
}

func TestSearch_LatestSearchWins(t *testing.T) {
	gate := make(chan struct{})
	catalog := &fakeCatalog{
		results: map[string][]core.Track{
			"first":  tracks("stale"),
			"second": tracks("fresh"),
		},
		gates: map[string]chan struct{}{"first": gate},
	}
	v := New(catalog, noResolver{}, nil, 10, zap.NewNop())

	done := make(chan struct{})
	go func() {
		_ = v.Search(context.Background(), "first")
		close(done)
	}()
	waitFor(t, func() bool { return len(catalog.calls()) == 1 })

	_ = v.Search(context.Background(), "second")
	close(gate)
	<-done

	snapshot := v.Snapshot()
	if snapshot.Query != "second" || len(snapshot.Cards) != 1 || snapshot.Cards[0].Track.Title != "fresh" {
		t.Errorf("late results replaced a newer deck: query=%q cards=%+v", snapshot.Query, snapshot.Cards)
	}
}

type deckRecorder struct {
	mu       sync.Mutex
	statuses []string
	size     int
}

func (r *deckRecorder) RecordCatalogSearch(status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *deckRecorder) SetDeckSize(size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = size
}

func TestView_RecordsSearches(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]core.Track{core.DefaultQuery: tracks("a", "b")}}
	recorder := &deckRecorder{}
	v := New(catalog, noResolver{}, recorder, 10, zap.NewNop())

	_ = v.Mount(context.Background())
	catalog.err = errors.New("boom")
	_ = v.Search(context.Background(), "x")

	if len(recorder.statuses) != 2 || recorder.statuses[0] != "ok" || recorder.statuses[1] != "error" {
		t.Errorf("statuses = %v", recorder.statuses)
	}
	if recorder.size != 0 {
		t.Errorf("deck size = %d, want 0", recorder.size)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
