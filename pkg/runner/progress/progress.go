// Package progress reports caught totals, optionally following changes.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/kv"
	"tableflip.dev/livedex/pkg/printers"
)

// Watcher streams changed keys.
type Watcher interface {
	Watch(ctx context.Context) (<-chan kv.Event, error)
}

// Progress prints overall and per-section progress.
type Progress struct {
	Tracker *app.Tracker
	Boxes   bool
	// Watcher, when set, keeps reprinting as progress changes on disk
	// until ctx ends.
	Watcher Watcher
	Output  string
	Out     io.Writer
}

func (p *Progress) Do(ctx context.Context) error {
	if p.Tracker == nil {
		return errors.New("can not report, no tracker")
	}
	if err := p.print(); err != nil {
		return err
	}
	if p.Watcher == nil {
		return nil
	}

	events, err := p.Watcher.Watch(ctx)
	if err != nil {
		return err
	}
	key := p.Tracker.CaughtKey()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Key != "" && ev.Key != key {
				continue
			}
			log.Debug().Str("key", ev.Key).Msg("progress: change detected")
			p.Tracker.Reload()
			if err := p.print(); err != nil {
				return err
			}
		}
	}
}

func (p *Progress) print() error {
	r, err := p.Tracker.Report(p.Boxes)
	if err != nil {
		return err
	}
	out := p.Out
	if out == nil {
		out = color.Output
	}
	if p.Output == "json" {
		return json.NewEncoder(out).Encode(r)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.Report(r)
	return nil
}
