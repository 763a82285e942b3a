package handlers

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultGuardSize = 4096

type guardEntry struct {
	cancel     context.CancelFunc
	superseded bool
}

// queryGuard tracks the newest in-flight request per (client, surface).
// Starting a request cancels the previous one for the same key; the older
// handler then sees itself as superseded and drops its response.
type queryGuard struct {
	mu       sync.Mutex
	inflight *lru.Cache[string, *guardEntry]
}

func newQueryGuard(size int) *queryGuard {
	if size <= 0 {
		size = defaultGuardSize
	}
	cache, err := lru.New[string, *guardEntry](size)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &queryGuard{inflight: cache}
}

// begin registers a request. The returned finish func must be called once
// the work is done; it releases the context and reports whether a newer
// request replaced this one. Requests without a client id are never guarded.
func (g *queryGuard) begin(ctx context.Context, client, surface string) (context.Context, func() bool) {
	if g == nil || client == "" {
		return ctx, func() bool { return false }
	}
	key := client + "|" + surface
	ctx, cancel := context.WithCancel(ctx)

	mine := &guardEntry{cancel: cancel}

	g.mu.Lock()
	if prev, ok := g.inflight.Peek(key); ok {
		prev.superseded = true
		prev.cancel()
	}
	g.inflight.Add(key, mine)
	g.mu.Unlock()

	return ctx, func() bool {
		defer cancel()
		g.mu.Lock()
		defer g.mu.Unlock()
		if current, ok := g.inflight.Peek(key); ok && current == mine {
			g.inflight.Remove(key)
		}
		return mine.superseded
	}
}
