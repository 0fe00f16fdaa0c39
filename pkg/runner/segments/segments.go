// Package segments lists and toggles a game's optional segments.
package segments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/printers"
)

// Segments shows segment status. With Key set it first enables or disables
// that segment.
type Segments struct {
	Tracker *app.Tracker
	Key     string
	Enable  bool
	Output  string
	Out     io.Writer
}

type segmentJSON struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Kind     string `json:"kind"`
	Optional bool   `json:"optional"`
	Enabled  bool   `json:"enabled"`
	Entries  int    `json:"entries"`
}

func (s *Segments) Do(ctx context.Context) error {
	if s.Tracker == nil {
		return errors.New("can not list segments, no tracker")
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}
	if s.Key != "" {
		if err := s.Tracker.EnableSegment(ctx, s.Key, s.Enable); err != nil {
			return err
		}
		if s.Output != "json" {
			verb := "disabled"
			if s.Enable {
				verb = "enabled"
			}
			_, _ = fmt.Fprintf(out, "%s %s, %d slots now active\n", s.Key, verb, s.Tracker.Layout().SlotCount())
		}
	}

	g := s.Tracker.Game
	enabled := s.Tracker.Enabled()
	active := s.Tracker.Sections()
	if s.Output == "json" {
		counts := map[string]int{}
		for _, sec := range active {
			counts[sec.Key] = len(sec.Entries)
		}
		rows := make([]segmentJSON, 0, len(g.Segments))
		for _, seg := range g.Segments {
			rows = append(rows, segmentJSON{
				Key:      seg.Key,
				Title:    seg.Title,
				Kind:     string(seg.Kind),
				Optional: seg.Optional,
				Enabled:  !seg.Optional || enabled.Has(seg.Key),
				Entries:  counts[seg.Key],
			})
		}
		return json.NewEncoder(out).Encode(rows)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Title(g.Title)
	pp.Sections(g, enabled, active)
	return nil
}
