// Package toggle marks slots and boxes caught or uncaught.
package toggle

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

// Mode selects what happens to the targeted slots.
type Mode string

const (
	ModeToggle Mode = "toggle"
	ModeCatch  Mode = "catch"
	ModeClear  Mode = "clear"
)

// Toggle changes individual slots.
type Toggle struct {
	Tracker *app.Tracker
	Slots   []int
	Mode    Mode
	Output  string
	Out     io.Writer
}

type slotResult struct {
	Slot   int    `json:"slot"`
	Caught bool   `json:"caught"`
	Name   string `json:"name"`
}

func (t *Toggle) Do(ctx context.Context) error {
	if t.Tracker == nil {
		return errors.New("can not toggle, no tracker")
	}
	if len(t.Slots) == 0 {
		return errors.New("no slots given")
	}
	names := t.Tracker.CachedNames()
	results := make([]slotResult, 0, len(t.Slots))
	for _, slot := range t.Slots {
		var (
			now bool
			err error
		)
		switch t.Mode {
		case ModeCatch, ModeClear:
			now = t.Mode == ModeCatch
			err = t.Tracker.SetSlot(slot, now)
		default:
			now, err = t.Tracker.Toggle(slot)
		}
		if err != nil {
			return err
		}
		c, _ := t.Tracker.Layout().At(slot)
		results = append(results, slotResult{Slot: slot, Caught: now, Name: slots.DisplayName(names, c.SpeciesID)})
	}
	return t.print(results)
}

func (t *Toggle) print(results []slotResult) error {
	out := t.Out
	if out == nil {
		out = color.Output
	}
	if t.Output == "json" {
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"slots":    results,
			"progress": t.Tracker.Progress(),
		})
	}
	on := color.New(color.FgGreen)
	for _, r := range results {
		if r.Caught {
			_, _ = on.Fprintf(out, "● %4d %s caught\n", r.Slot, r.Name)
		} else {
			_, _ = fmt.Fprintf(out, "○ %4d %s uncaught\n", r.Slot, r.Name)
		}
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Progress(t.Tracker.Progress())
	return nil
}

// Box changes every real cell of one box. Number is 1-based as printed by
// show.
type Box struct {
	Tracker *app.Tracker
	Number  int
	Mode    Mode
	Output  string
	Out     io.Writer
}

func (b *Box) Do(ctx context.Context) error {
	if b.Tracker == nil {
		return errors.New("can not change box, no tracker")
	}
	index := b.Number - 1
	var value bool
	switch b.Mode {
	case ModeCatch, ModeClear:
		value = b.Mode == ModeCatch
		if _, err := b.Tracker.SetBox(index, value); err != nil {
			return err
		}
	default:
		v, err := b.Tracker.ToggleBox(index)
		if err != nil {
			return err
		}
		value = v
	}
	box, _ := b.Tracker.Layout().Box(index)

	out := b.Out
	if out == nil {
		out = color.Output
	}
	if b.Output == "json" {
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"box":      b.Number,
			"label":    box.Label,
			"caught":   value,
			"progress": b.Tracker.Progress(),
		})
	}
	pp := printers.PrettyPrint{Out: out, Names: b.Tracker.CachedNames()}
	pp.Box(box, b.Tracker.State())
	pp.Progress(b.Tracker.Progress())
	return nil
}
