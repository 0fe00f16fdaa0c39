// Package mcp provides the Model Context Protocol server integration for livedex.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/slots"
)

// Service coordinates tracker operations that are shared by the MCP server.
// Trackers are opened lazily and kept per game. Calls naming no game use
// Default, then the configured game.
type Service struct {
	Env     *app.Env
	Default string

	mu       sync.Mutex
	trackers map[string]*app.Tracker
}

// ErrNoEnv is returned when the service has nothing to serve from.
var ErrNoEnv = errors.New("livedex environment is not configured")

// GameSummary describes a game and its segments.
type GameSummary struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Default  bool             `json:"default,omitempty"`
	Segments []SegmentSummary `json:"segments"`
}

// SegmentSummary describes one segment of a game and whether it is active.
type SegmentSummary struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	Optional  bool   `json:"optional"`
	Enabled   bool   `json:"enabled"`
	FirstSlot int    `json:"firstSlot,omitempty"`
	LastSlot  int    `json:"lastSlot,omitempty"`
}

// SlotDTO is a transport-friendly projection of one slot.
type SlotDTO struct {
	Slot      int    `json:"slot"`
	Section   string `json:"section"`
	Display   string `json:"display"`
	SpeciesID int    `json:"speciesId"`
	FormID    int    `json:"formId"`
	Name      string `json:"name"`
	Caught    bool   `json:"caught"`
}

// BoxDTO reports a box after a bulk change.
type BoxDTO struct {
	Box      int          `json:"box"`
	Label    string       `json:"label"`
	Caught   int          `json:"caught"`
	Filled   int          `json:"filled"`
	Progress app.Progress `json:"progress"`
}

// ImportResult reports what an import did or would do.
type ImportResult struct {
	Applied  bool         `json:"applied"`
	Current  int          `json:"currentCaught"`
	Incoming int          `json:"incomingCaught"`
	Progress app.Progress `json:"progress"`
}

// NewService builds a service over env.
func NewService(env *app.Env) *Service {
	return &Service{Env: env, trackers: make(map[string]*app.Tracker)}
}

// Tracker returns the opened tracker for game, opening it on first use.
func (s *Service) Tracker(ctx context.Context, game string) (*app.Tracker, error) {
	if s.Env == nil {
		return nil, ErrNoEnv
	}
	if game == "" {
		game = s.Default
	}
	g, err := s.Env.Game(game)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trackers == nil {
		s.trackers = make(map[string]*app.Tracker)
	}
	if t, ok := s.trackers[g.ID]; ok {
		return t, nil
	}
	t, err := s.Env.Tracker(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	s.trackers[g.ID] = t
	return t, nil
}

// ListGames returns every game in the catalog.
func (s *Service) ListGames(ctx context.Context) ([]GameSummary, error) {
	if s.Env == nil || s.Env.Catalog == nil {
		return nil, ErrNoEnv
	}
	def := s.Env.Catalog.Lookup("").ID
	out := make([]GameSummary, 0, len(s.Env.Catalog.Games))
	for _, g := range s.Env.Catalog.Games {
		enabled := dex.DefaultEnabled(g)
		sum := GameSummary{ID: g.ID, Title: g.Title, Default: g.ID == def}
		for _, seg := range g.Segments {
			sum.Segments = append(sum.Segments, SegmentSummary{
				Key:      seg.Key,
				Title:    seg.Title,
				Kind:     string(seg.Kind),
				Optional: seg.Optional,
				Enabled:  enabled.Has(seg.Key),
			})
		}
		out = append(out, sum)
	}
	return out, nil
}

// Sections lists the segments of game with their enabled state and slot
// ranges.
func (s *Service) Sections(ctx context.Context, game string) ([]SegmentSummary, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return nil, err
	}
	enabled := t.Enabled()
	layout := t.Layout()
	out := make([]SegmentSummary, 0, len(t.Game.Segments))
	for _, seg := range t.Game.Segments {
		sum := SegmentSummary{
			Key:      seg.Key,
			Title:    seg.Title,
			Kind:     string(seg.Kind),
			Optional: seg.Optional,
			Enabled:  enabled.Has(seg.Key),
		}
		if layout != nil {
			if first, last, ok := layout.SectionRange(seg.Key); ok {
				sum.FirstSlot, sum.LastSlot = first, last
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

// SetSegment enables or disables an optional segment.
func (s *Service) SetSegment(ctx context.Context, game, key string, on bool) ([]SegmentSummary, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return nil, err
	}
	if err := t.EnableSegment(ctx, key, on); err != nil {
		return nil, err
	}
	return s.Sections(ctx, game)
}

// Progress reports overall, per-section and optionally per-box progress.
func (s *Service) Progress(ctx context.Context, game string, boxes bool) (app.Report, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return app.Report{}, err
	}
	t.Reload()
	return t.Report(boxes)
}

// ToggleSlot flips a slot, or sets it when mode is "catch" or "clear".
func (s *Service) ToggleSlot(ctx context.Context, game string, slot int, mode string) (SlotDTO, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return SlotDTO{}, err
	}
	t.Reload()
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "toggle":
		if _, err := t.Toggle(slot); err != nil {
			return SlotDTO{}, err
		}
	case "catch":
		err = t.SetSlot(slot, true)
	case "clear":
		err = t.SetSlot(slot, false)
	default:
		return SlotDTO{}, fmt.Errorf("unknown mode %q, expected toggle, catch or clear", mode)
	}
	if err != nil {
		return SlotDTO{}, err
	}
	c, _ := t.Layout().At(slot)
	return toSlotDTO(c, t.State()[slot], t.CachedNames()), nil
}

// SetBox marks every real cell of box (1-based) caught or uncaught.
func (s *Service) SetBox(ctx context.Context, game string, box int, value bool) (BoxDTO, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return BoxDTO{}, err
	}
	t.Reload()
	b, err := t.SetBox(box-1, value)
	if err != nil {
		return BoxDTO{}, err
	}
	return BoxDTO{
		Box:      box,
		Label:    b.Label,
		Caught:   b.CaughtCount(t.State()),
		Filled:   b.Filled(),
		Progress: t.Progress(),
	}, nil
}

// BoxContents lists the slots of one box.
type BoxContents struct {
	Box   int       `json:"box"`
	Label string    `json:"label"`
	Slots []SlotDTO `json:"slots"`
}

// Box returns the cells of box (1-based). Placeholders are left out.
func (s *Service) Box(ctx context.Context, game string, box int) (BoxContents, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return BoxContents{}, err
	}
	t.Reload()
	b, ok := t.Layout().Box(box - 1)
	if !ok {
		return BoxContents{}, fmt.Errorf("%w: %d", app.ErrNoBox, box)
	}
	names := t.CachedNames()
	st := t.State()
	out := BoxContents{Box: box, Label: b.Label}
	for _, c := range b.Cells {
		if c.Placeholder {
			continue
		}
		out.Slots = append(out.Slots, toSlotDTO(c, st[c.Slot], names))
	}
	return out, nil
}

// ExportShare returns a share link, or just the fragment when base is empty.
func (s *Service) ExportShare(ctx context.Context, game, base string) (string, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return "", err
	}
	t.Reload()
	return t.Export(base)
}

// ImportShare previews link and, when apply is set, overwrites progress
// with it.
func (s *Service) ImportShare(ctx context.Context, game, link string, apply bool) (ImportResult, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return ImportResult{}, err
	}
	t.Reload()
	incoming, ok := t.Preview(link)
	if !ok {
		return ImportResult{}, errors.New("no shared progress found in link")
	}
	res := ImportResult{
		Current:  t.Progress().Caught,
		Incoming: incoming.Count(t.Layout().SlotCount()),
	}
	if apply {
		res.Applied = t.Import(link)
	}
	res.Progress = t.Progress()
	return res, nil
}

// SearchSlots finds slots by number or cached name. limit <= 0 keeps every
// match.
func (s *Service) SearchSlots(ctx context.Context, game, query string, limit int) ([]SlotDTO, error) {
	t, err := s.Tracker(ctx, game)
	if err != nil {
		return nil, err
	}
	t.Reload()
	cells := t.Search(query)
	if limit > 0 && len(cells) > limit {
		cells = cells[:limit]
	}
	names := t.CachedNames()
	st := t.State()
	out := make([]SlotDTO, 0, len(cells))
	for _, c := range cells {
		out = append(out, toSlotDTO(c, st[c.Slot], names))
	}
	return out, nil
}

func toSlotDTO(c slots.Cell, caught bool, names map[int]string) SlotDTO {
	return SlotDTO{
		Slot:      c.Slot,
		Section:   c.Section,
		Display:   c.Display,
		SpeciesID: c.SpeciesID,
		FormID:    c.FormID,
		Name:      slots.DisplayName(names, c.SpeciesID),
		Caught:    caught,
	}
}
