package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/livedex/pkg/caught"
	"tableflip.dev/livedex/pkg/slots"
)

const cellWidth = len("001 Mr Mime Gal") // a typical cell

// Boxes prints every box as a grid. Placeholders render as a dash.
func (pp *PrettyPrint) Boxes(boxes []slots.Box, st caught.State) {
	for _, b := range boxes {
		if pp.UncaughtOnly && b.AllCaught(st) {
			continue
		}
		pp.Box(b, st)
	}
}

// Box prints one box header and its cells in rows of Columns.
func (pp *PrettyPrint) Box(b slots.Box, st caught.State) {
	cols := pp.Columns
	if cols <= 0 {
		cols = 6
	}
	w := pp.out()
	t := color.New(color.Bold)
	f := color.New(color.Faint)
	_, _ = t.Fprintf(w, "Box %d  %s", b.Index+1, b.Label)
	_, _ = f.Fprintf(w, "  %d/%d\n", b.CaughtCount(st), b.Filled())

	caughtC := color.New(color.FgGreen)
	for i, c := range b.Cells {
		_, _ = fmt.Fprint(w, pp.cell(c, st, caughtC, f))
		if (i+1)%cols == 0 {
			_, _ = fmt.Fprintln(w)
		} else {
			_, _ = fmt.Fprint(w, " ")
		}
	}
	if len(b.Cells)%cols != 0 {
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintln(w)
}

func (pp *PrettyPrint) cell(c slots.Cell, st caught.State, on, off *color.Color) string {
	if c.Placeholder {
		return off.Sprint(pad("  —", cellWidth))
	}
	if pp.UncaughtOnly && st[c.Slot] {
		return pad("", cellWidth)
	}
	text := pad(c.Display+" "+slots.DisplayName(pp.Names, c.SpeciesID), cellWidth)
	if st[c.Slot] {
		return on.Sprint(text)
	}
	return text
}

// pad truncates or right-pads s to n runes.
func pad(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s + strings.Repeat(" ", n-len(r))
}
