package names

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tableflip.dev/livedex/pkg/kv"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"mr-mime":   "Mr Mime",
		"pikachu":   "Pikachu",
		"ho-oh":     "Ho Oh",
		"porygon2":  "Porygon2",
		"type-null": "Type Null",
		"":          "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHash(t *testing.T) {
	if Hash([]int{3, 1, 2, 1}) != Hash([]int{1, 2, 3}) {
		t.Fatal("hash must ignore order and duplicates")
	}
	if Hash([]int{1, 2, 3}) == Hash([]int{1, 2, 4}) {
		t.Fatal("different id sets should hash differently")
	}
	// "1" has code 49.
	if got := Hash([]int{1}); got != "49" {
		t.Fatalf("Hash([1]) = %s", got)
	}
	if got := Hash(nil); got != "0" {
		t.Fatalf("Hash(nil) = %s", got)
	}
}

func TestCacheStaleness(t *testing.T) {
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache(kv.NewMemory(), "swsh")
	c.Now = clk.Now
	ids := []int{1, 4, 7}

	if !c.IsStale(ids) {
		t.Fatal("cache without metadata must be stale")
	}
	if err := c.Commit(map[int]string{1: "Bulbasaur"}, ids); err != nil {
		t.Fatal(err)
	}
	if c.IsStale(ids) {
		t.Fatal("fresh cache reported stale")
	}
	if !c.IsStale([]int{1, 4}) {
		t.Fatal("changed id set must invalidate")
	}
	clk.t = clk.t.Add(TTL + time.Minute)
	if !c.IsStale(ids) {
		t.Fatal("expired cache must be stale")
	}
	if got := c.Names(); !reflect.DeepEqual(got, map[int]string{1: "Bulbasaur"}) {
		t.Fatalf("Names = %v", got)
	}
	if m, ok := c.Meta(); !ok || m.Version != 1 || m.IDsHash != Hash(ids) {
		t.Fatalf("Meta = %+v, %v", m, ok)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if len(c.Names()) != 0 {
		t.Fatal("Clear left names behind")
	}
}

func TestCacheIgnoresCorruptData(t *testing.T) {
	store := kv.NewMemory()
	c := NewCache(store, "home")
	_ = store.Set(c.Key(), "{not json")
	_ = store.Set(c.MetaKey(), "[]")
	if len(c.Names()) != 0 {
		t.Fatal("corrupt names should read as empty")
	}
	if !c.IsStale([]int{1}) {
		t.Fatal("corrupt meta should be stale")
	}
}

func noWait() time.Duration { return 0 }

func TestHydrateFetchesMissingAndCommits(t *testing.T) {
	store := kv.NewMemory()
	cache := NewCache(store, "home")
	ids := []int{1, 4, 7, 4}
	_ = cache.Commit(map[int]string{1: "Bulbasaur"}, ids)

	var calls int32
	h := &Hydrator{
		Cache: cache,
		Fetcher: FetcherFunc(func(_ context.Context, id int) (string, error) {
			atomic.AddInt32(&calls, 1)
			return map[int]string{4: "Charmander", 7: "Squirtle"}[id], nil
		}),
		Backoff: noWait,
	}
	got := h.Hydrate(context.Background(), ids)
	want := map[int]string{1: "Bulbasaur", 4: "Charmander", 7: "Squirtle"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Hydrate = %v", got)
	}
	if calls != 2 {
		t.Fatalf("fetched %d names, want 2", calls)
	}
	if !reflect.DeepEqual(cache.Names(), want) || cache.IsStale(ids) {
		t.Fatal("names were not committed")
	}

	calls = 0
	h.Hydrate(context.Background(), ids)
	if calls != 0 {
		t.Fatalf("warm cache still fetched %d names", calls)
	}
}

func TestHydrateDropsStaleCache(t *testing.T) {
	cache := NewCache(kv.NewMemory(), "home")
	_ = cache.Commit(map[int]string{1: "Old Name"}, []int{1})
	h := &Hydrator{
		Cache:   cache,
		Fetcher: FetcherFunc(func(context.Context, int) (string, error) { return "Bulbasaur", nil }),
		Backoff: noWait,
	}
	got := h.Hydrate(context.Background(), []int{1, 2})
	if got[1] != "Bulbasaur" {
		t.Fatalf("stale name survived: %v", got)
	}
}

func TestHydrateRetriesThenFallsBack(t *testing.T) {
	var mu sync.Mutex
	attempts := map[int]int{}
	h := &Hydrator{
		Cache: NewCache(kv.NewMemory(), "home"),
		Fetcher: FetcherFunc(func(_ context.Context, id int) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			attempts[id]++
			if id == 25 && attempts[id] == 2 {
				return "Pikachu", nil
			}
			return "", errors.New("503")
		}),
		Backoff: noWait,
	}
	got := h.Hydrate(context.Background(), []int{25, 999})
	if got[25] != "Pikachu" || got[999] != "#999" {
		t.Fatalf("Hydrate = %v", got)
	}
	if attempts[999] != DefaultAttempts {
		t.Fatalf("999 attempted %d times", attempts[999])
	}
	if _, ok := h.Cache.Names()[999]; ok {
		t.Fatal("fallback names must not be persisted")
	}
}

func TestHydrateBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	h := &Hydrator{
		Concurrency: 3,
		Fetcher: FetcherFunc(func(_ context.Context, id int) (string, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return "x", nil
		}),
	}
	ids := make([]int, 20)
	for i := range ids {
		ids[i] = i + 1
	}
	if got := h.Hydrate(context.Background(), ids); len(got) != 20 {
		t.Fatalf("got %d names", len(got))
	}
	if peak > 3 {
		t.Fatalf("peak concurrency %d exceeds 3", peak)
	}
}
