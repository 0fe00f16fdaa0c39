// Package search finds slots by number or name.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/printers"
	"tableflip.dev/livedex/pkg/slots"
)

// Search prints the cells matching Query.
type Search struct {
	Tracker *app.Tracker
	Query   string
	Offline bool
	Output  string
	Out     io.Writer
}

func (s *Search) Do(ctx context.Context) error {
	if s.Tracker == nil {
		return errors.New("can not search, no tracker")
	}
	names := s.Tracker.CachedNames()
	if !s.Offline {
		names = s.Tracker.Names(ctx)
	}
	cells := s.Tracker.Search(s.Query)
	out := s.Out
	if out == nil {
		out = color.Output
	}
	if s.Output == "json" {
		type hit struct {
			slots.Cell
			Name   string `json:"name"`
			Caught bool   `json:"caught"`
		}
		st := s.Tracker.State()
		hits := make([]hit, len(cells))
		for i, c := range cells {
			hits[i] = hit{Cell: c, Name: slots.DisplayName(names, c.SpeciesID), Caught: st[c.Slot]}
		}
		return json.NewEncoder(out).Encode(hits)
	}
	pp := printers.PrettyPrint{Out: out, Names: names}
	pp.Cells(cells, s.Tracker.State())
	return nil
}
