package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"tableflip.dev/livedex/pkg/caught"
	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/kv"
	"tableflip.dev/livedex/pkg/names"
	"tableflip.dev/livedex/pkg/resolve"
	"tableflip.dev/livedex/pkg/share"
)

type memorySource struct {
	mu      sync.Mutex
	dexes   map[int][]int
	species map[int]int
	offline bool
}

func (m *memorySource) PokedexEntries(_ context.Context, id int) ([]resolve.RawEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return nil, errors.New("offline")
	}
	ids, ok := m.dexes[id]
	if !ok {
		return nil, fmt.Errorf("pokedex %d not found", id)
	}
	out := make([]resolve.RawEntry, len(ids))
	for i, s := range ids {
		out[i] = resolve.RawEntry{EntryNumber: i + 1, SpeciesURL: fmt.Sprintf("/pokemon-species/%d/", s)}
	}
	return out, nil
}

func (m *memorySource) SpeciesForPokemon(_ context.Context, id int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.species[id]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("pokemon %d not found", id)
}

func species(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

func testGame() dex.Game {
	return dex.Game{
		ID: "swsh", Title: "Sword / Shield", StoragePrefix: "swsh",
		Segments: []dex.Segment{
			{Key: "base", Title: "Galar", Kind: dex.KindBase, Pokedex: 27},
			{Key: "armor", Title: "Isle of Armor", Kind: dex.KindDLC, Optional: true, Pokedex: 28},
			{Key: "forms", Title: "Forms", Kind: dex.KindForms, Optional: true, ManualIDs: []int{10161}},
		},
	}
}

func newTracker(t *testing.T, store kv.Store) (*Tracker, *memorySource) {
	t.Helper()
	src := &memorySource{
		dexes:   map[int][]int{27: species(1, 35), 28: species(100, 5)},
		species: map[int]int{10161: 52},
	}
	fetch := names.FetcherFunc(func(_ context.Context, id int) (string, error) {
		return fmt.Sprintf("Mon %d", id), nil
	})
	tr := New(testGame(), store, src, fetch)
	if err := tr.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	return tr, src
}

func TestOpenDefaultComposition(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	if got := tr.Layout().SlotCount(); got != 35 {
		t.Fatalf("SlotCount = %d, want 35", got)
	}
	if p := tr.Progress(); p.String() != "0/35 caught (0%)" {
		t.Fatalf("progress = %q", p)
	}
}

func TestToggleAndProgress(t *testing.T) {
	store := kv.NewMemory()
	tr, _ := newTracker(t, store)
	for _, slot := range []int{1, 2, 3} {
		if on, err := tr.Toggle(slot); err != nil || !on {
			t.Fatalf("toggle %d: %v %v", slot, on, err)
		}
	}
	if on, _ := tr.Toggle(2); on {
		t.Fatal("second toggle should uncatch")
	}
	if p := tr.Progress(); p.Caught != 2 || p.Percent != 6 {
		t.Fatalf("progress = %+v", p)
	}
	if _, err := tr.Toggle(0); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("err = %v", err)
	}
	if _, err := tr.Toggle(36); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("err = %v", err)
	}

	reopened, _ := newTracker(t, store)
	if !reflect.DeepEqual(reopened.State().Slots(), []int{1, 3}) {
		t.Fatalf("persisted slots = %v", reopened.State().Slots())
	}
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	store := kv.NewMemory()
	tr, _ := newTracker(t, store)
	store.Quota = 1
	if on, err := tr.Toggle(5); err != nil || !on {
		t.Fatalf("toggle under quota: %v %v", on, err)
	}
	if !tr.State()[5] {
		t.Fatal("in-memory state lost after failed save")
	}
}

func TestBoxes(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	boxes := tr.Layout().Boxes()
	if len(boxes) != 2 {
		t.Fatalf("boxes = %d", len(boxes))
	}
	if _, err := tr.Toggle(31); err != nil {
		t.Fatal(err)
	}
	on, err := tr.ToggleBox(1)
	if err != nil || !on {
		t.Fatalf("ToggleBox = %v, %v", on, err)
	}
	if got := tr.Progress().Caught; got != 5 {
		t.Fatalf("caught = %d, want 5", got)
	}
	on, _ = tr.ToggleBox(1)
	if on || tr.Progress().Caught != 0 {
		t.Fatalf("full box should clear, caught = %d", tr.Progress().Caught)
	}
	if _, err := tr.SetBox(0, true); err != nil {
		t.Fatal(err)
	}
	if got := tr.Progress().Caught; got != 30 {
		t.Fatalf("caught = %d, want 30", got)
	}
	if _, err := tr.SetBox(2, true); !errors.Is(err, ErrNoBox) {
		t.Fatalf("err = %v", err)
	}
}

func TestExportImport(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	_, _ = tr.Toggle(1)
	_, _ = tr.Toggle(35)
	link, err := tr.Export("https://dex.example/?game=swsh")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(link, share.Marker) {
		t.Fatalf("link %q", link)
	}

	other, _ := newTracker(t, kv.NewMemory())
	_, _ = other.Toggle(10)
	if other.Import("#nothing-here") {
		t.Fatal("import without token should fail")
	}
	if !other.State()[10] {
		t.Fatal("failed import must not change progress")
	}
	if !other.Import(link) {
		t.Fatal("import failed")
	}
	if !reflect.DeepEqual(other.State().Slots(), []int{1, 35}) {
		t.Fatalf("imported slots = %v", other.State().Slots())
	}
	if p := other.Progress(); p.Caught != 2 {
		t.Fatalf("progress after import = %+v", p)
	}

	frag, err := tr.Export("")
	if err != nil || !strings.HasPrefix(frag, share.Marker) {
		t.Fatalf("fragment = %q, %v", frag, err)
	}
}

func TestReset(t *testing.T) {
	store := kv.NewMemory()
	tr, _ := newTracker(t, store)
	_, _ = tr.Toggle(4)
	if st := tr.Reset(); len(st) != 0 {
		t.Fatalf("reset state = %v", st)
	}
	if got := caught.NewStore(store, "swsh").Load(); len(got) != 0 {
		t.Fatalf("persisted after reset = %v", got)
	}
}

func TestEnableSegment(t *testing.T) {
	store := kv.NewMemory()
	tr, _ := newTracker(t, store)
	ctx := context.Background()

	if err := tr.EnableSegment(ctx, "base", false); !errors.Is(err, ErrNotOptional) {
		t.Fatalf("err = %v", err)
	}
	if err := tr.EnableSegment(ctx, "nope", true); !errors.Is(err, ErrUnknownSegment) {
		t.Fatalf("err = %v", err)
	}

	_, _ = tr.Toggle(35)
	if err := tr.EnableSegment(ctx, "forms", true); err != nil {
		t.Fatal(err)
	}
	if got := tr.Layout().SlotCount(); got != 36 {
		t.Fatalf("SlotCount = %d", got)
	}
	c, _ := tr.Layout().At(36)
	if c.SpeciesID != 52 || c.FormID != 10161 {
		t.Fatalf("forms cell = %+v", c)
	}
	if err := tr.EnableSegment(ctx, "armor", true); err != nil {
		t.Fatal(err)
	}
	if slot, _ := tr.Layout().SlotOf("forms", 0); slot != 41 {
		t.Fatalf("forms slot = %d, want 41", slot)
	}

	reopened, _ := newTracker(t, store)
	if got := reopened.Layout().SlotCount(); got != 41 {
		t.Fatalf("segment choice not persisted, SlotCount = %d", got)
	}

	if err := tr.EnableSegment(ctx, "armor", false); err != nil {
		t.Fatal(err)
	}
	if err := tr.EnableSegment(ctx, "forms", false); err != nil {
		t.Fatal(err)
	}
	if tr.Layout().SlotCount() != 35 || !tr.State()[35] {
		t.Fatal("disabling segments must restore the base layout and keep progress")
	}
}

func TestEnableSegmentFailureKeepsComposition(t *testing.T) {
	tr, src := newTracker(t, kv.NewMemory())
	src.mu.Lock()
	src.offline = true
	src.mu.Unlock()
	err := tr.EnableSegment(context.Background(), "armor", true)
	if !errors.Is(err, resolve.ErrDataUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if tr.Enabled().Has("armor") || tr.Layout().SlotCount() != 35 {
		t.Fatal("failed recomposition must not change the active segments")
	}
}

func TestNamesAndSearch(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	if got := tr.Search("#7"); len(got) != 1 || got[0].Slot != 7 {
		t.Fatalf("number search before names = %+v", got)
	}
	got := tr.Names(context.Background())
	if got[12] != "Mon 12" || len(got) != 35 {
		t.Fatalf("names = %d entries", len(got))
	}
	hits := tr.Search("mon 3")
	var slotsHit []int
	for _, c := range hits {
		slotsHit = append(slotsHit, c.Slot)
	}
	want := []int{3, 30, 31, 32, 33, 34, 35}
	if !reflect.DeepEqual(slotsHit, want) {
		t.Fatalf("name search = %v, want %v", slotsHit, want)
	}

	if _, err := tr.RefreshNames(context.Background()); err != nil {
		t.Fatal(err)
	}
	n, err := tr.ClearCache()
	if err != nil || n == 0 {
		t.Fatalf("ClearCache = %d, %v", n, err)
	}
	if len(tr.CachedNames()) != 0 {
		t.Fatal("names survived ClearCache")
	}
}

func TestReport(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	_ = tr.EnableSegment(context.Background(), "armor", true)
	_, _ = tr.Toggle(36)
	_, _ = tr.Toggle(1)
	r, err := tr.Report(true)
	if err != nil {
		t.Fatal(err)
	}
	if r.Overall.Caught != 2 || r.Overall.Total != 40 {
		t.Fatalf("overall = %+v", r.Overall)
	}
	if len(r.Sections) != 2 || r.Sections[1].Caught != 1 || r.Sections[1].Total != 5 {
		t.Fatalf("sections = %+v", r.Sections)
	}
	if len(r.Boxes) != 3 || r.Boxes[2].Total != 5 {
		t.Fatalf("boxes = %+v", r.Boxes)
	}
}

func TestNotOpened(t *testing.T) {
	tr := New(testGame(), kv.NewMemory(), nil, nil)
	if _, err := tr.Toggle(1); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("err = %v", err)
	}
	if tr.Import("#s=abc") {
		t.Fatal("import before open")
	}
	if p := tr.Progress(); p.Total != 0 || p.Percent != 0 {
		t.Fatalf("progress = %+v", p)
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	store := kv.NewMemory()
	tr, _ := newTracker(t, store)
	other, _ := newTracker(t, store)
	_, _ = other.Toggle(9)
	if tr.State()[9] {
		t.Fatal("state changed before reload")
	}
	if !tr.Reload()[9] || tr.CaughtKey() != "swsh-caught-v1" {
		t.Fatal("reload did not pick up slot 9")
	}
}

func TestTrackersSharingStoreKeepEachOthersWrites(t *testing.T) {
	store := kv.NewMemory()
	cli, _ := newTracker(t, store)
	browse, _ := newTracker(t, store)

	if _, err := cli.Toggle(1); err != nil {
		t.Fatal(err)
	}
	if _, err := browse.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if err := cli.SetSlot(3, true); err != nil {
		t.Fatal(err)
	}
	if _, err := browse.SetBox(1, true); err != nil {
		t.Fatal(err)
	}

	want := append([]int{1, 2, 3}, species(31, 5)...)
	persisted := caught.NewStore(store, "swsh").Load()
	if !reflect.DeepEqual(persisted.Slots(), want) {
		t.Fatalf("persisted slots = %v, want %v", persisted.Slots(), want)
	}
	if !reflect.DeepEqual(browse.State().Slots(), want) {
		t.Fatalf("browse state = %v, want %v", browse.State().Slots(), want)
	}

	if on, err := cli.ToggleBox(1); err != nil || on {
		t.Fatalf("ToggleBox on a box caught elsewhere = %v %v, want clear", on, err)
	}
	if got := caught.NewStore(store, "swsh").Load().Slots(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("after clearing box 2 = %v", got)
	}
}
