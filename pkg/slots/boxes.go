package slots

import (
	"fmt"

	"tableflip.dev/livedex/pkg/caught"
)

// Box is a fixed-capacity group of cells within one section. The last box
// of a section is padded with placeholders.
type Box struct {
	Index     int    `json:"index"`
	Section   string `json:"section"`
	Title     string `json:"title"`
	Label     string `json:"label"`
	FirstSlot int    `json:"firstSlot"`
	LastSlot  int    `json:"lastSlot"`
	Cells     []Cell `json:"cells"`
}

// Boxes groups every section independently into boxes of BoxCapacity.
// Index counts boxes across the whole layout starting at 0.
func (l *Layout) Boxes() []Box {
	var boxes []Box
	for _, sp := range l.spans {
		n := len(sp.section.Entries)
		for start := 0; start < n; start += BoxCapacity {
			end := start + BoxCapacity
			if end > n {
				end = n
			}
			b := Box{
				Index:     len(boxes),
				Section:   sp.section.Key,
				Title:     sp.section.Title,
				Label:     fmt.Sprintf("%s — #%s–%s", sp.section.Title, localDisplay(start), localDisplay(end-1)),
				FirstSlot: sp.first + start,
				LastSlot:  sp.first + end - 1,
				Cells:     make([]Cell, 0, BoxCapacity),
			}
			b.Cells = append(b.Cells, l.cells[b.FirstSlot-1:b.LastSlot]...)
			for len(b.Cells) < BoxCapacity {
				b.Cells = append(b.Cells, Cell{
					Section:     sp.section.Key,
					LocalIndex:  -1,
					Placeholder: true,
				})
			}
			boxes = append(boxes, b)
		}
	}
	return boxes
}

// Box returns the box at index.
func (l *Layout) Box(index int) (Box, bool) {
	boxes := l.Boxes()
	if index < 0 || index >= len(boxes) {
		return Box{}, false
	}
	return boxes[index], true
}

// Filled counts the non-placeholder cells.
func (b Box) Filled() int {
	return b.LastSlot - b.FirstSlot + 1
}

// AllCaught reports whether every real cell in the box is caught.
func (b Box) AllCaught(st caught.State) bool {
	return caught.AllCaught(st, b.FirstSlot, b.LastSlot)
}

// CaughtCount counts caught real cells in the box.
func (b Box) CaughtCount(st caught.State) int {
	n := 0
	for slot := b.FirstSlot; slot <= b.LastSlot; slot++ {
		if st[slot] {
			n++
		}
	}
	return n
}
