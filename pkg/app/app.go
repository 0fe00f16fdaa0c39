package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"tableflip.dev/livedex/pkg/caught"
	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/kv"
	"tableflip.dev/livedex/pkg/names"
	"tableflip.dev/livedex/pkg/resolve"
	"tableflip.dev/livedex/pkg/share"
	"tableflip.dev/livedex/pkg/slots"
)

var (
	ErrNotOpen        = errors.New("app: tracker not opened")
	ErrUnknownSegment = errors.New("app: unknown segment")
	ErrNotOptional    = errors.New("app: segment is not optional")
	ErrSlotOutOfRange = errors.New("app: slot out of range")
	ErrNoBox          = errors.New("app: no such box")
)

// Tracker provides the operations of one game's living dex so the CLI and
// the MCP server share the same logic.
type Tracker struct {
	Game     dex.Game
	Resolver *resolve.Resolver
	Hydrator *names.Hydrator

	caught   *caught.Store
	segments *caught.SegmentStore
	names    *names.Cache

	mu       sync.Mutex
	enabled  dex.KeySet
	sections []dex.Section
	layout   *slots.Layout
	state    caught.State
	known    map[int]string
}

// New wires a Tracker for g over store. src and fetcher may be nil when the
// caller only works from cached data.
func New(g dex.Game, store kv.Store, src resolve.Source, fetcher names.Fetcher) *Tracker {
	cache := names.NewCache(store, g.StoragePrefix)
	return &Tracker{
		Game:     g,
		Resolver: resolve.New(src, store),
		Hydrator: &names.Hydrator{Cache: cache, Fetcher: fetcher},
		caught:   caught.NewStore(store, g.StoragePrefix),
		segments: &caught.SegmentStore{KV: store, Namespace: g.StoragePrefix},
		names:    cache,
	}
}

// Open loads enabled segments and caught state, then composes the active
// sections and assigns slots.
func (t *Tracker) Open(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = t.segments.Enabled(t.Game)
	if err := t.recompose(ctx); err != nil {
		return err
	}
	t.state = t.caught.Load()
	return nil
}

// recompose rebuilds sections and the full slot layout. Callers hold t.mu.
func (t *Tracker) recompose(ctx context.Context) error {
	sections, err := resolve.Compose(ctx, t.Resolver, t.Game, t.enabled)
	if err != nil {
		return fmt.Errorf("app: compose %s: %w", t.Game.ID, err)
	}
	t.sections = sections
	t.layout = slots.Assign(sections)
	return nil
}

func (t *Tracker) ready() error {
	if t.layout == nil {
		return ErrNotOpen
	}
	return nil
}

// Reload rereads caught progress from storage, as after another process
// changed it.
func (t *Tracker) Reload() caught.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = t.caught.Load()
	return t.state.Clone()
}

// CaughtKey is the storage key holding this game's progress.
func (t *Tracker) CaughtKey() string {
	return t.caught.Key()
}

// Layout returns the current slot layout.
func (t *Tracker) Layout() *slots.Layout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.layout
}

// Sections returns the active sections.
func (t *Tracker) Sections() []dex.Section {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]dex.Section(nil), t.sections...)
}

// State returns a copy of the in-memory caught state.
func (t *Tracker) State() caught.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Enabled returns a copy of the enabled segment keys.
func (t *Tracker) Enabled() dex.KeySet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled.Clone()
}

// adopt takes st from a read-modify-write cycle as the in-memory state. A
// failed save is logged and st is kept anyway.
func (t *Tracker) adopt(st caught.State, err error) {
	if st != nil {
		t.state = st
	}
	if err != nil {
		log.Debug().Err(err).Str("game", t.Game.ID).Msg("app: progress not persisted")
	}
}

// Toggle flips slot and returns its new value.
func (t *Tracker) Toggle(slot int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready(); err != nil {
		return false, err
	}
	if slot < 1 || slot > t.layout.SlotCount() {
		return false, fmt.Errorf("%w: %d not in 1-%d", ErrSlotOutOfRange, slot, t.layout.SlotCount())
	}
	next, st, err := t.caught.Toggle(slot)
	t.adopt(st, err)
	return next, nil
}

// SetSlot marks slot caught or uncaught.
func (t *Tracker) SetSlot(slot int, value bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready(); err != nil {
		return err
	}
	if slot < 1 || slot > t.layout.SlotCount() {
		return fmt.Errorf("%w: %d not in 1-%d", ErrSlotOutOfRange, slot, t.layout.SlotCount())
	}
	t.adopt(t.caught.SetRange(slot, slot, value))
	return nil
}

// SetBox marks every real cell of box index with value.
func (t *Tracker) SetBox(index int, value bool) (slots.Box, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready(); err != nil {
		return slots.Box{}, err
	}
	b, ok := t.layout.Box(index)
	if !ok {
		return slots.Box{}, fmt.Errorf("%w: %d", ErrNoBox, index)
	}
	t.adopt(t.caught.SetRange(b.FirstSlot, b.LastSlot, value))
	return b, nil
}

// ToggleBox catches the whole box unless it is already fully caught, in
// which case it clears it. It returns the value applied.
func (t *Tracker) ToggleBox(index int) (bool, error) {
	t.mu.Lock()
	if err := t.ready(); err != nil {
		t.mu.Unlock()
		return false, err
	}
	b, ok := t.layout.Box(index)
	if !ok {
		t.mu.Unlock()
		return false, fmt.Errorf("%w: %d", ErrNoBox, index)
	}
	t.state = t.caught.Load()
	value := !b.AllCaught(t.state)
	t.mu.Unlock()
	_, err := t.SetBox(index, value)
	return value, err
}

// Reset clears all progress for the game.
func (t *Tracker) Reset() caught.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = t.caught.Reset()
	return t.state.Clone()
}

// Export returns a share link for the current progress. With an empty base
// only the `#s=` fragment is returned.
func (t *Tracker) Export(base string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready(); err != nil {
		return "", err
	}
	if base == "" {
		frag := share.Encode(t.state, t.layout.SlotCount())
		if frag == "" {
			return "", errors.New("app: could not encode progress")
		}
		return frag, nil
	}
	return share.Link(base, t.state, t.layout.SlotCount())
}

// Preview decodes a shared hash or link without applying it.
func (t *Tracker) Preview(hash string) (caught.State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.layout == nil {
		return nil, false
	}
	return share.Decode(hash, t.layout.SlotCount())
}

// Import overwrites progress with a shared hash or link. It reports false,
// leaving progress untouched, when no valid token is present.
func (t *Tracker) Import(hash string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.layout == nil {
		return false
	}
	st, ok := share.Decode(hash, t.layout.SlotCount())
	if !ok {
		return false
	}
	t.adopt(t.caught.Replace(st))
	return true
}

// EnableSegment switches an optional segment on or off and recomposes.
// Caught flags are keyed by slot number and are not moved.
func (t *Tracker) EnableSegment(ctx context.Context, key string, on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	seg, ok := t.Game.Segment(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSegment, key)
	}
	if !seg.Optional {
		return fmt.Errorf("%w: %q", ErrNotOptional, key)
	}
	if t.enabled == nil {
		t.enabled = t.segments.Enabled(t.Game)
	}
	next := t.enabled.Clone()
	if on {
		next.Add(key)
	} else {
		next.Remove(key)
	}
	prev := t.enabled
	t.enabled = next
	if err := t.recompose(ctx); err != nil {
		t.enabled = prev
		return err
	}
	if err := t.segments.Save(next); err != nil {
		log.Debug().Err(err).Str("game", t.Game.ID).Msg("app: segment choice not persisted")
	}
	if t.state == nil {
		t.state = t.caught.Load()
	}
	return nil
}

// Names hydrates display names for the active species.
func (t *Tracker) Names(ctx context.Context) map[int]string {
	t.mu.Lock()
	ids := dex.SpeciesIDs(t.sections)
	t.mu.Unlock()

	got := t.Hydrator.Hydrate(ctx, ids)

	t.mu.Lock()
	t.known = got
	t.mu.Unlock()
	return got
}

// CachedNames returns names known without any network access.
func (t *Tracker) CachedNames() map[int]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.known != nil {
		return t.known
	}
	return t.names.Names()
}

// RefreshNames drops the name cache and hydrates again.
func (t *Tracker) RefreshNames(ctx context.Context) (map[int]string, error) {
	if err := t.names.Clear(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.known = nil
	t.mu.Unlock()
	return t.Names(ctx), nil
}

// ClearCache removes cached remote data (pokedexes, species table, names).
// Caught progress and segment choices are kept.
func (t *Tracker) ClearCache() (int, error) {
	n, err := t.Resolver.ClearCache(t.Game)
	if err != nil {
		return n, err
	}
	if err := t.names.Clear(); err != nil {
		return n, err
	}
	t.mu.Lock()
	t.known = nil
	t.mu.Unlock()
	return n, nil
}

// Search finds cells by number or name using names known so far.
func (t *Tracker) Search(query string) []slots.Cell {
	known := t.CachedNames()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.layout == nil {
		return nil
	}
	return t.layout.Search(query, known)
}
