package metadata

import (
	"context"
	"log"
	"sync"

	"reelyseries/models"
)

// providerFetcher loads the full provider list for one namespace.
type providerFetcher func(ctx context.Context, kind models.MediaType) ([]providerEntry, error)

// ProviderDirectory caches the upstream provider list per media kind for the
// life of the process. Entries never expire. Two callers that miss at the
// same time may both fetch; the last full list written wins.
type ProviderDirectory struct {
	mu      sync.RWMutex
	entries map[models.MediaType][]providerEntry
}

// NewProviderDirectory returns an empty directory.
func NewProviderDirectory() *ProviderDirectory {
	return &ProviderDirectory{entries: make(map[models.MediaType][]providerEntry)}
}

func (d *ProviderDirectory) lookup(kind models.MediaType) ([]providerEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list, ok := d.entries[kind]
	return list, ok
}

func (d *ProviderDirectory) store(kind models.MediaType, list []providerEntry) {
	cp := make([]providerEntry, len(list))
	copy(cp, list)
	d.mu.Lock()
	d.entries[kind] = cp
	d.mu.Unlock()
}

// getOrPopulate returns the cached list, fetching it on the first miss.
// A failed fetch leaves the directory unchanged.
func (d *ProviderDirectory) getOrPopulate(ctx context.Context, kind models.MediaType, fetch providerFetcher) ([]providerEntry, error) {
	if list, ok := d.lookup(kind); ok {
		return list, nil
	}
	list, err := fetch(ctx, kind)
	if err != nil {
		return nil, err
	}
	d.store(kind, list)
	log.Printf("[providers] cached %d %s providers", len(list), kind)
	return list, nil
}

// Len reports how many namespaces are populated.
func (d *ProviderDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
