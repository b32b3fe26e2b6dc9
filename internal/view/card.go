package view

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"songdeck/internal/core"
)

// Card states as rendered by the presentation layer.
const (
	StatePending     = "pending"
	StateResolved    = "resolved"
	StateUnavailable = "unavailable"
)

// Resolver finds the audio URL for a track.
type Resolver interface {
	Resolve(ctx context.Context, track core.Track) (string, bool)
}

// Card is one mounted track. Its audio is resolved at most once and, once resolved,
// never becomes unresolved again.
type Card struct {
	ID    string
	Track core.Track

	resolver Resolver
	once     sync.Once
	done     chan struct{}
	audioURL string
	ok       bool
}

func newCard(track core.Track, resolver Resolver) *Card {
	card := &Card{
		ID:       uuid.NewString(),
		Track:    track,
		resolver: resolver,
		done:     make(chan struct{}),
	}

	if track.HasPreview() {
		card.once.Do(func() {
			card.audioURL, card.ok = track.PreviewURL, true
			close(card.done)
		})
	}

	return card
}

// Start begins resolution unless it already ran. The task belongs to the card, not to
// the caller, so it keeps running after ctx is canceled.
func (c *Card) Start(ctx context.Context) {
	c.once.Do(func() {
		taskCtx := context.WithoutCancel(ctx)
		go func() {
			audioURL, ok := c.resolver.Resolve(taskCtx, c.Track)
			c.audioURL, c.ok = audioURL, ok
			close(c.done)
		}()
	})
}

// Audio starts resolution and waits for its result or for ctx to end.
func (c *Card) Audio(ctx context.Context) (string, bool, error) {
	c.Start(ctx)
	select {
	case <-c.done:
		return c.audioURL, c.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// State reports the card's resolution state without blocking.
func (c *Card) State() (string, string) {
	select {
	case <-c.done:
		if c.ok {
			return StateResolved, c.audioURL
		}
		return StateUnavailable, ""
	default:
		return StatePending, ""
	}
}
