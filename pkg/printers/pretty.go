// Package printers renders tracker state for the terminal.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/caught"
	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/slots"
)

// PrettyPrint writes human output to Out (color.Output when nil).
type PrettyPrint struct {
	Out   io.Writer
	Names map[int]string
	// UncaughtOnly hides caught cells and fully caught boxes.
	UncaughtOnly bool
	// Columns per box row; a home box is 6 wide.
	Columns int
}

const barWidth = 30

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// Progress prints a bar followed by `caught/total caught (pct%)`.
func (pp *PrettyPrint) Progress(p app.Progress) {
	filled := 0
	if p.Total > 0 {
		filled = p.Caught * barWidth / p.Total
	}
	g := color.New(color.FgGreen)
	f := color.New(color.Faint)
	w := pp.out()
	_, _ = fmt.Fprint(w, "[")
	_, _ = g.Fprint(w, strings.Repeat("█", filled))
	_, _ = f.Fprint(w, strings.Repeat("·", barWidth-filled))
	_, _ = fmt.Fprintf(w, "] %s\n", p)
}

// Report prints overall progress and a per-section table.
func (pp *PrettyPrint) Report(r app.Report) {
	pp.Title(r.Overall.Title)
	pp.Progress(r.Overall)
	if len(r.Sections) == 0 {
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Section"), bold.Sprint("Caught"), bold.Sprint("Total"), bold.Sprint("%"))
	for _, s := range r.Sections {
		tbl.AddRow(s.Title, s.Caught, s.Total, fmt.Sprintf("%d%%", s.Percent))
	}
	for _, b := range r.Boxes {
		tbl.AddRow("  "+b.Title, b.Caught, b.Total, fmt.Sprintf("%d%%", b.Percent))
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	pp.NewLine()
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Sections lists a game's segments with whether each is active.
func (pp *PrettyPrint) Sections(g dex.Game, enabled dex.KeySet, active []dex.Section) {
	counts := make(map[string]int, len(active))
	for _, s := range active {
		counts[s.Key] = len(s.Entries)
	}
	bold := color.New(color.Bold)
	on := color.New(color.FgGreen)
	off := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Key"), bold.Sprint("Title"), bold.Sprint("Kind"), bold.Sprint("Entries"), bold.Sprint("Status"))
	for _, s := range g.Segments {
		status := on.Sprint("always")
		switch {
		case s.Optional && dex.Included(s, enabled):
			status = on.Sprint("enabled")
		case s.Optional:
			status = off.Sprint("disabled")
		}
		entries := "-"
		if n, ok := counts[s.Key]; ok {
			entries = fmt.Sprint(n)
		}
		tbl.AddRow(s.Key, s.Title, string(s.Kind), entries, status)
	}
	tbl.RightAlign(3)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Games lists the catalog, marking current.
func (pp *PrettyPrint) Games(c *dex.Catalog, current string) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("ID"), bold.Sprint("Title"), bold.Sprint("Segments"))
	for _, g := range c.Games {
		mark := " "
		if g.ID == current {
			mark = color.New(color.FgGreen).Sprint("*")
		}
		keys := make([]string, len(g.Segments))
		for i, s := range g.Segments {
			keys[i] = s.Key
		}
		tbl.AddRow(mark, g.ID, g.Title, strings.Join(keys, ", "))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Cells prints a flat list of cells, as for search results.
func (pp *PrettyPrint) Cells(cells []slots.Cell, st caught.State) {
	if len(cells) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	y := color.New(color.FgHiYellow, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range cells {
		tbl.AddRow(y.Sprintf("%4d", c.Slot), c.Section+" "+c.Display, pp.cellLabel(c, st))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func (pp *PrettyPrint) cellLabel(c slots.Cell, st caught.State) string {
	name := slots.DisplayName(pp.Names, c.SpeciesID)
	if st[c.Slot] {
		return color.New(color.FgGreen).Sprintf("● %s", name)
	}
	return fmt.Sprintf("○ %s", name)
}
