// Package names refreshes cached species names and other remote data.
package names

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/livedex/pkg/app"
)

// Refresh drops cached names and fetches them again.
type Refresh struct {
	Tracker *app.Tracker
	Out     io.Writer
}

func (r *Refresh) Do(ctx context.Context) error {
	if r.Tracker == nil {
		return errors.New("can not refresh names, no tracker")
	}
	got, err := r.Tracker.RefreshNames(ctx)
	if err != nil {
		return err
	}
	fallback := 0
	for id, n := range got {
		if n == fmt.Sprintf("#%d", id) {
			fallback++
		}
	}
	out := r.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "%d names cached for %s", len(got)-fallback, r.Tracker.Game.Title)
	if fallback > 0 {
		_, _ = color.New(color.FgYellow).Fprintf(out, ", %d unavailable", fallback)
	}
	_, _ = fmt.Fprintln(out)
	return nil
}

// ClearCache removes cached pokedexes, the species table and names. Caught
// progress is kept.
type ClearCache struct {
	Tracker *app.Tracker
	Out     io.Writer
}

func (c *ClearCache) Do(ctx context.Context) error {
	if c.Tracker == nil {
		return errors.New("can not clear cache, no tracker")
	}
	n, err := c.Tracker.ClearCache()
	if err != nil {
		return err
	}
	out := c.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "cleared %d cached entries for %s\n", n, c.Tracker.Game.Title)
	return nil
}
