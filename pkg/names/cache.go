// Package names hydrates display names for species ids and keeps them in a
// durable cache that expires after a TTL or when the id set changes.
package names

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tableflip.dev/livedex/pkg/kv"
)

// TTL is how long cached names are trusted.
const TTL = 180 * 24 * time.Hour

const metaVersion = 1

// Meta describes when and for which id set the cache was written.
type Meta struct {
	TS      int64  `json:"ts"` // unix milliseconds
	IDsHash string `json:"idsHash"`
	Version int    `json:"version"`
}

// Cache is the persisted species id -> name map of one game namespace.
type Cache struct {
	KV        kv.Store
	Namespace string
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewCache returns a Cache over store for namespace.
func NewCache(store kv.Store, namespace string) *Cache {
	return &Cache{KV: store, Namespace: namespace, Now: time.Now}
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Key holds the name map.
func (c *Cache) Key() string {
	return kv.Key(c.Namespace, "species-names", 1)
}

// MetaKey holds the Meta record.
func (c *Cache) MetaKey() string {
	return kv.Key(c.Namespace, "species-names-meta", 1)
}

// Names returns the cached names, empty on any read or parse error.
func (c *Cache) Names() map[int]string {
	out := map[int]string{}
	if c.KV == nil {
		return out
	}
	raw, ok, err := c.KV.Get(c.Key())
	if err != nil || !ok {
		return out
	}
	var stored map[string]string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Debug().Err(err).Str("key", c.Key()).Msg("names: cache unreadable")
		return out
	}
	for k, v := range stored {
		id, err := strconv.Atoi(k)
		if err != nil || v == "" {
			continue
		}
		out[id] = v
	}
	return out
}

// Meta returns the stored metadata.
func (c *Cache) Meta() (Meta, bool) {
	if c.KV == nil {
		return Meta{}, false
	}
	raw, ok, err := c.KV.Get(c.MetaKey())
	if err != nil || !ok {
		return Meta{}, false
	}
	var m Meta
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Meta{}, false
	}
	return m, true
}

// IsStale reports whether the cache must be discarded for ids: no metadata,
// older than TTL, or written for a different id set.
func (c *Cache) IsStale(ids []int) bool {
	m, ok := c.Meta()
	if !ok {
		return true
	}
	if c.now().Sub(time.UnixMilli(m.TS)) > TTL {
		return true
	}
	return m.IDsHash != Hash(ids)
}

// Commit replaces the cached names and stamps the metadata for ids.
func (c *Cache) Commit(names map[int]string, ids []int) error {
	if c.KV == nil {
		return nil
	}
	stored := make(map[string]string, len(names))
	for id, name := range names {
		stored[strconv.Itoa(id)] = name
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(Meta{TS: c.now().UnixMilli(), IDsHash: Hash(ids), Version: metaVersion})
	if err != nil {
		return err
	}
	if err := c.KV.Set(c.Key(), string(data)); err != nil {
		return fmt.Errorf("names: save: %w", err)
	}
	if err := c.KV.Set(c.MetaKey(), string(meta)); err != nil {
		return fmt.Errorf("names: save meta: %w", err)
	}
	return nil
}

// Clear removes names and metadata.
func (c *Cache) Clear() error {
	if c.KV == nil {
		return nil
	}
	if err := c.KV.Remove(c.Key()); err != nil {
		return err
	}
	return c.KV.Remove(c.MetaKey())
}

// Hash is a 32-bit rolling hash (h*31 + c) over the sorted unique ids joined
// by ','. It detects id set changes only.
func Hash(ids []int) string {
	seen := make(map[int]struct{}, len(ids))
	uniq := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Ints(uniq)
	parts := make([]string, len(uniq))
	for i, id := range uniq {
		parts[i] = strconv.Itoa(id)
	}
	var h int32
	for _, ch := range strings.Join(parts, ",") {
		h = h*31 + ch
	}
	return strconv.Itoa(int(h))
}
