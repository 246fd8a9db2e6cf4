// Package client implements the polling consumer side of the
// messenger: a SyncClient that periodically pulls a room's roster and
// message log and republishes them as whole snapshots.
package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"messenger/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=sync.go -destination=../mocks/mock_fetcher.go -package=mocks

// Fetcher is the read side of the chat backend as seen from a client.
type Fetcher interface {
	FetchPeople(ctx context.Context, roomID domain.RoomID) ([]string, error)
	FetchMessages(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error)
}

// Snapshot is one complete client-side view of a room. Views are
// replaced wholesale on every successful poll, never diffed.
type Snapshot struct {
	People    []string
	Messages  []domain.Message
	FetchedAt time.Time
}

// SyncClient polls a single room on a fixed interval and on demand.
// A failed fetch is swallowed: the previous snapshot stays in place
// and the next tick retries on its own. This is the only layer of the
// system that retries at all.
type SyncClient struct {
	fetcher  Fetcher
	room     domain.RoomID
	interval time.Duration
	log      *slog.Logger
	onUpdate func(Snapshot)

	mu       sync.RWMutex
	snapshot Snapshot

	refresh chan struct{}
}

// NewSyncClient builds a poller for one room. onUpdate may be nil;
// when set it is called after every snapshot replacement, from the
// polling goroutine.
func NewSyncClient(fetcher Fetcher, room domain.RoomID, interval time.Duration,
	log *slog.Logger, onUpdate func(Snapshot)) *SyncClient {
	return &SyncClient{
		fetcher:  fetcher,
		room:     room,
		interval: interval,
		log:      log,
		onUpdate: onUpdate,
		refresh:  make(chan struct{}, 1),
	}
}

// Run polls until the context is canceled. It fetches once
// immediately so the first view doesn't wait a full interval.
func (c *SyncClient) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.poll(ctx)
		case <-c.refresh:
			c.poll(ctx)
		}
	}
}

// Refresh requests an out-of-band poll, typically right after a
// successful join or post to cut perceived latency. Non-blocking: if
// a refresh is already pending this one collapses into it.
func (c *SyncClient) Refresh() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Snapshot returns the last successfully fetched view.
func (c *SyncClient) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *SyncClient) poll(ctx context.Context) {
	people, err := c.fetcher.FetchPeople(ctx, c.room)
	if err != nil {
		c.log.Warn("People fetch failed, keeping previous snapshot", "room", int(c.room), "error", err)
		return
	}
	messages, err := c.fetcher.FetchMessages(ctx, c.room)
	if err != nil {
		c.log.Warn("Message fetch failed, keeping previous snapshot", "room", int(c.room), "error", err)
		return
	}

	next := Snapshot{People: people, Messages: messages, FetchedAt: time.Now()}
	c.mu.Lock()
	c.snapshot = next
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(next)
	}
}
