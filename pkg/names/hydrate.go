package names

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 10
	DefaultAttempts    = 2
)

// Fetcher looks up the display name of one species.
type Fetcher interface {
	SpeciesName(ctx context.Context, id int) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id int) (string, error)

func (f FetcherFunc) SpeciesName(ctx context.Context, id int) (string, error) {
	return f(ctx, id)
}

// Fallback is the name shown when a lookup fails.
func Fallback(id int) string {
	return fmt.Sprintf("#%d", id)
}

// Hydrator fills in names for species ids from the cache and, for what is
// missing, from the Fetcher.
type Hydrator struct {
	Cache       *Cache
	Fetcher     Fetcher
	Concurrency int
	Attempts    int
	// Backoff returns the wait before a retry. Defaults to 300-700ms jitter.
	Backoff func() time.Duration
}

func jitter() time.Duration {
	return 300*time.Millisecond + time.Duration(rand.Int63n(int64(400*time.Millisecond)))
}

// Hydrate returns a name for every id. Stale caches are dropped first;
// lookups that fail every attempt get Fallback names, which are returned but
// not persisted so a later run retries them.
func (h *Hydrator) Hydrate(ctx context.Context, ids []int) map[int]string {
	names := map[int]string{}
	if h.Cache != nil && !h.Cache.IsStale(ids) {
		names = h.Cache.Names()
	}

	var missing []int
	seen := map[int]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if names[id] == "" {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 && h.Fetcher != nil {
		var mu sync.Mutex
		eg := new(errgroup.Group)
		eg.SetLimit(h.concurrency())
		for _, id := range missing {
			id := id
			eg.Go(func() error {
				name, err := h.fetch(ctx, id)
				if err != nil {
					log.Warn().Err(err).Int("species", id).Msg("names: using fallback name")
					return nil
				}
				mu.Lock()
				names[id] = name
				mu.Unlock()
				return nil
			})
		}
		_ = eg.Wait()
	}

	if h.Cache != nil {
		if err := h.Cache.Commit(names, ids); err != nil {
			log.Debug().Err(err).Msg("names: cache not saved")
		}
	}

	out := make(map[int]string, len(seen))
	for id := range seen {
		if n := names[id]; n != "" {
			out[id] = n
		} else {
			out[id] = Fallback(id)
		}
	}
	return out
}

func (h *Hydrator) fetch(ctx context.Context, id int) (string, error) {
	attempts := h.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	backoff := h.Backoff
	if backoff == nil {
		backoff = jitter
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff()):
			}
		}
		name, err := h.Fetcher.SpeciesName(ctx, id)
		if err == nil && name != "" {
			return name, nil
		}
		if err == nil {
			err = fmt.Errorf("names: empty name for %d", id)
		}
		lastErr = err
	}
	return "", lastErr
}

func (h *Hydrator) concurrency() int {
	if h.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return h.Concurrency
}
