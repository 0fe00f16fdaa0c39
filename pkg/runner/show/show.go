// Package show prints the box grid of a game.
package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/printers"
	"tableflip.dev/livedex/pkg/slots"
)

// Show renders every box of the tracker's game.
type Show struct {
	Tracker  *app.Tracker
	Uncaught bool
	// Offline skips name hydration and uses cached names only.
	Offline bool
	Section string
	Output  string
	Out     io.Writer
}

type showJSON struct {
	Game     string         `json:"game"`
	Progress app.Progress   `json:"progress"`
	Boxes    []slots.Box    `json:"boxes"`
	Caught   []int          `json:"caught"`
	Names    map[int]string `json:"names,omitempty"`
}

func (s *Show) Do(ctx context.Context) error {
	if s.Tracker == nil {
		return errors.New("can not show, no tracker")
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}

	names := s.Tracker.CachedNames()
	if !s.Offline {
		names = s.Tracker.Names(ctx)
	}
	st := s.Tracker.State()
	boxes := s.Tracker.Layout().Boxes()
	if s.Section != "" {
		filtered := boxes[:0]
		for _, b := range boxes {
			if b.Section == s.Section {
				filtered = append(filtered, b)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("no active section %q", s.Section)
		}
		boxes = filtered
	}

	if s.Output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(showJSON{
			Game:     s.Tracker.Game.ID,
			Progress: s.Tracker.Progress(),
			Boxes:    boxes,
			Caught:   st.Slots(),
			Names:    names,
		})
	}

	pp := printers.PrettyPrint{Out: out, Names: names, UncaughtOnly: s.Uncaught}
	pp.NewLine()
	pp.Title(s.Tracker.Game.Title)
	pp.Progress(s.Tracker.Progress())
	pp.NewLine()
	pp.Boxes(boxes, st)
	return nil
}
