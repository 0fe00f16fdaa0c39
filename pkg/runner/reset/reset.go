// Package reset clears a game's progress.
package reset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/share"
)

// Reset erases all caught flags after confirmation.
type Reset struct {
	Tracker *app.Tracker
	Yes     bool
	Confirm func(label string) (bool, error)
	// Link, when set, is printed back without its share fragment so a
	// reloaded page does not re-import old progress.
	Link string
	Out  io.Writer
}

func (r *Reset) Do(ctx context.Context) error {
	if r.Tracker == nil {
		return errors.New("can not reset, no tracker")
	}
	out := r.Out
	if out == nil {
		out = color.Output
	}
	if !r.Yes {
		if r.Confirm == nil {
			return errors.New("confirmation required, pass --yes to reset")
		}
		label := fmt.Sprintf("Reset all %s progress (%s)", r.Tracker.Game.Title, r.Tracker.Progress())
		yes, err := r.Confirm(label)
		if err != nil {
			return err
		}
		if !yes {
			_, _ = fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}
	r.Tracker.Reset()
	_, _ = fmt.Fprintf(out, "%s progress cleared: %s\n", r.Tracker.Game.Title, r.Tracker.Progress())
	if r.Link != "" {
		_, _ = fmt.Fprintln(out, share.StripFragment(r.Link))
	}
	return nil
}
