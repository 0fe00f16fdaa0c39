// Package share exports and imports progress as `#s=` links.
package share

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

// ErrNoSharedProgress is returned when the input holds no decodable token.
var ErrNoSharedProgress = errors.New("no shared progress found in link")

// Export prints a share link for the current progress.
type Export struct {
	Tracker *app.Tracker
	BaseURL string
	Output  string
	Out     io.Writer
}

func (e *Export) Do(ctx context.Context) error {
	if e.Tracker == nil {
		return errors.New("can not share, no tracker")
	}
	link, err := e.Tracker.Export(e.BaseURL)
	if err != nil {
		return err
	}
	out := e.Out
	if out == nil {
		out = color.Output
	}
	if e.Output == "json" {
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"game":     e.Tracker.Game.ID,
			"link":     link,
			"progress": e.Tracker.Progress(),
		})
	}
	_, _ = fmt.Fprintln(out, link)
	return nil
}

// Import replaces progress with the state carried by a shared link after
// the user confirms.
type Import struct {
	Tracker *app.Tracker
	Link    string
	Yes     bool
	Confirm func(label string) (bool, error)
	Output  string
	Out     io.Writer
}

func (i *Import) Do(ctx context.Context) error {
	if i.Tracker == nil {
		return errors.New("can not import, no tracker")
	}
	incoming, ok := i.Tracker.Preview(i.Link)
	if !ok {
		return ErrNoSharedProgress
	}
	out := i.Out
	if out == nil {
		out = color.Output
	}

	if !i.Yes {
		total := i.Tracker.Layout().SlotCount()
		label := fmt.Sprintf("This shared link will overwrite your progress (%d caught) with %d caught. Continue",
			i.Tracker.Progress().Caught, incoming.Count(total))
		if i.Confirm == nil {
			return errors.New("confirmation required, pass --yes to import")
		}
		yes, err := i.Confirm(label)
		if err != nil {
			return err
		}
		if !yes {
			_, _ = fmt.Fprintln(out, "Import cancelled, progress unchanged.")
			return nil
		}
	}

	if !i.Tracker.Import(i.Link) {
		return ErrNoSharedProgress
	}
	if i.Output == "json" {
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"imported": true,
			"progress": i.Tracker.Progress(),
		})
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Progress(i.Tracker.Progress())
	return nil
}
