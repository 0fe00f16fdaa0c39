// Package resolve turns segment descriptors into ordered species/form
// entries, consulting a durable cache before the remote source.
package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/kv"
)

// DefaultConcurrency bounds in-flight pokemon->species lookups.
const DefaultConcurrency = 10

// ErrDataUnavailable means a remote segment could not be fetched and nothing
// was cached for it.
var ErrDataUnavailable = errors.New("resolve: segment data unavailable")

var speciesURL = regexp.MustCompile(`/pokemon-species/(\d+)/`)

// RawEntry is one remote pokedex row.
type RawEntry struct {
	EntryNumber int
	SpeciesURL  string
}

// SpeciesID parses the species identity out of SpeciesURL.
func (e RawEntry) SpeciesID() (int, bool) {
	return ParseSpeciesURL(e.SpeciesURL)
}

// ParseSpeciesURL extracts n from a `/pokemon-species/<n>/` reference.
func ParseSpeciesURL(u string) (int, bool) {
	m := speciesURL.FindStringSubmatch(u)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Source is the remote species data provider.
type Source interface {
	PokedexEntries(ctx context.Context, pokedexID int) ([]RawEntry, error)
	SpeciesForPokemon(ctx context.Context, pokemonID int) (int, error)
}

// Resolver resolves segments of one game. Caches live under the game's
// storage prefix.
type Resolver struct {
	Source      Source
	KV          kv.Store
	Concurrency int

	mu      sync.Mutex
	species map[string]map[string]int // prefix -> pokemon id -> species id
}

// New returns a Resolver reading through store to src.
func New(src Source, store kv.Store) *Resolver {
	return &Resolver{Source: src, KV: store, Concurrency: DefaultConcurrency}
}

type pokedexDoc struct {
	Entries []dex.Entry `json:"entries"`
}

// PokedexKey is the cache key for a remote pokedex.
func PokedexKey(prefix string, pokedexID int) string {
	return kv.Key(prefix, fmt.Sprintf("pokedex-%d", pokedexID), 2)
}

// SpeciesMapKey is the cache key for the pokemon->species table.
func SpeciesMapKey(prefix string) string {
	return kv.Key(prefix, "pokemon-to-species", 1)
}

// Resolve returns the entries of seg in order.
func (r *Resolver) Resolve(ctx context.Context, g dex.Game, seg dex.Segment) ([]dex.Entry, error) {
	switch {
	case seg.IsManual() && seg.Kind == dex.KindForms:
		return r.resolveForms(ctx, g.StoragePrefix, seg.ManualIDs)
	case seg.IsManual():
		entries := make([]dex.Entry, len(seg.ManualIDs))
		for i, id := range seg.ManualIDs {
			entries[i] = dex.Entry{SpeciesID: id, FormID: id}
		}
		return entries, nil
	case seg.Pokedex > 0:
		return r.resolvePokedex(ctx, g.StoragePrefix, seg.Pokedex)
	default:
		return nil, nil
	}
}

func (r *Resolver) resolvePokedex(ctx context.Context, prefix string, pokedexID int) ([]dex.Entry, error) {
	key := PokedexKey(prefix, pokedexID)
	if r.KV != nil {
		if raw, ok, err := r.KV.Get(key); err == nil && ok {
			var doc pokedexDoc
			if err := json.Unmarshal([]byte(raw), &doc); err == nil && len(doc.Entries) > 0 {
				return doc.Entries, nil
			}
			log.Debug().Str("key", key).Msg("resolve: ignoring unreadable pokedex cache")
		}
	}
	if r.Source == nil {
		return nil, fmt.Errorf("%w: pokedex %d: no source", ErrDataUnavailable, pokedexID)
	}

	raw, err := r.Source.PokedexEntries(ctx, pokedexID)
	if err != nil {
		return nil, fmt.Errorf("%w: pokedex %d: %v", ErrDataUnavailable, pokedexID, err)
	}
	sorted := make([]RawEntry, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryNumber < sorted[j].EntryNumber
	})

	entries := make([]dex.Entry, 0, len(sorted))
	for _, e := range sorted {
		id, ok := e.SpeciesID()
		if !ok {
			log.Debug().Str("url", e.SpeciesURL).Int("pokedex", pokedexID).Msg("resolve: dropping unparseable entry")
			continue
		}
		entries = append(entries, dex.Entry{SpeciesID: id, FormID: dex.FormFor(pokedexID, id)})
	}

	if r.KV != nil {
		if data, err := json.Marshal(pokedexDoc{Entries: entries}); err == nil {
			if err := r.KV.Set(key, string(data)); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("resolve: could not cache pokedex")
			}
		}
	}
	return entries, nil
}

func (r *Resolver) resolveForms(ctx context.Context, prefix string, ids []int) ([]dex.Entry, error) {
	entries := make([]dex.Entry, len(ids))
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			species, err := r.speciesFor(egCtx, prefix, id)
			if err != nil {
				log.Debug().Err(err).Int("pokemon", id).Msg("resolve: treating form id as its own species")
				species = id
			}
			entries[i] = dex.Entry{SpeciesID: species, FormID: id}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// SpeciesFor resolves a pokemon (form) id to its species id through the
// game's cache.
func (r *Resolver) SpeciesFor(ctx context.Context, g dex.Game, pokemonID int) (int, error) {
	return r.speciesFor(ctx, g.StoragePrefix, pokemonID)
}

func (r *Resolver) speciesFor(ctx context.Context, prefix string, pokemonID int) (int, error) {
	key := strconv.Itoa(pokemonID)
	r.mu.Lock()
	table := r.speciesTable(prefix)
	if id, ok := table[key]; ok && id > 0 {
		r.mu.Unlock()
		return id, nil
	}
	r.mu.Unlock()

	if r.Source == nil {
		return 0, fmt.Errorf("%w: pokemon %d: no source", ErrDataUnavailable, pokemonID)
	}
	id, err := r.Source.SpeciesForPokemon(ctx, pokemonID)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("resolve: pokemon %d: malformed species reference", pokemonID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	table[key] = id
	if r.KV != nil {
		if data, err := json.Marshal(table); err == nil {
			if err := r.KV.Set(SpeciesMapKey(prefix), string(data)); err != nil {
				log.Debug().Err(err).Msg("resolve: could not cache species map")
			}
		}
	}
	return id, nil
}

// speciesTable returns the in-memory table for prefix, loading it on first
// use. Callers hold r.mu.
func (r *Resolver) speciesTable(prefix string) map[string]int {
	if r.species == nil {
		r.species = make(map[string]map[string]int)
	}
	if t, ok := r.species[prefix]; ok {
		return t
	}
	t := map[string]int{}
	if r.KV != nil {
		if raw, ok, err := r.KV.Get(SpeciesMapKey(prefix)); err == nil && ok {
			if err := json.Unmarshal([]byte(raw), &t); err != nil || t == nil {
				t = map[string]int{}
			}
		}
	}
	r.species[prefix] = t
	return t
}

// ClearCache drops every cached pokedex and the species table for g so the
// next resolution refetches.
func (r *Resolver) ClearCache(g dex.Game) (int, error) {
	r.mu.Lock()
	delete(r.species, g.StoragePrefix)
	r.mu.Unlock()
	if r.KV == nil {
		return 0, nil
	}
	n, err := kv.RemovePrefix(r.KV, g.StoragePrefix+"-pokedex-")
	if err != nil {
		return n, err
	}
	if err := r.KV.Remove(SpeciesMapKey(g.StoragePrefix)); err != nil {
		return n, err
	}
	return n + 1, nil
}
