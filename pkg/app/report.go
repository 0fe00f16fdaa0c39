package app

import (
	"fmt"
	"math"

	"tableflip.dev/livedex/pkg/slots"
)

// Progress summarises caught slots for the game or one section.
type Progress struct {
	Key     string `json:"key,omitempty"`
	Title   string `json:"title"`
	Caught  int    `json:"caught"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

func newProgress(key, title string, caught, total int) Progress {
	p := Progress{Key: key, Title: title, Caught: caught, Total: total}
	if total > 0 {
		p.Percent = int(math.Round(float64(caught) * 100 / float64(total)))
	}
	return p
}

// String renders `caught/total caught (pct%)`.
func (p Progress) String() string {
	return fmt.Sprintf("%d/%d caught (%d%%)", p.Caught, p.Total, p.Percent)
}

// Report holds overall and per-section progress.
type Report struct {
	Game     string     `json:"game"`
	Overall  Progress   `json:"overall"`
	Sections []Progress `json:"sections"`
	Boxes    []Progress `json:"boxes,omitempty"`
}

// Progress counts caught slots in [1, SlotCount]; stale slots beyond it are
// ignored.
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.layout == nil {
		return newProgress(t.Game.ID, t.Game.Title, 0, 0)
	}
	total := t.layout.SlotCount()
	return newProgress(t.Game.ID, t.Game.Title, t.state.Count(total), total)
}

// Report breaks progress down by section and, when withBoxes is set, by box.
func (t *Tracker) Report(withBoxes bool) (Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready(); err != nil {
		return Report{}, err
	}
	total := t.layout.SlotCount()
	r := Report{
		Game:    t.Game.ID,
		Overall: newProgress(t.Game.ID, t.Game.Title, t.state.Count(total), total),
	}
	for _, s := range t.layout.Sections() {
		first, last, ok := t.layout.SectionRange(s.Key)
		if !ok {
			continue
		}
		n := 0
		for slot := first; slot <= last; slot++ {
			if t.state[slot] {
				n++
			}
		}
		r.Sections = append(r.Sections, newProgress(s.Key, s.Title, n, last-first+1))
	}
	if withBoxes {
		for _, b := range t.layout.Boxes() {
			r.Boxes = append(r.Boxes, boxProgress(b, t))
		}
	}
	return r, nil
}

func boxProgress(b slots.Box, t *Tracker) Progress {
	return newProgress(fmt.Sprintf("%d", b.Index), b.Label, b.CaughtCount(t.state), b.Filled())
}
