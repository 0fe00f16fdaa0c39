// Package slots numbers the entries of the active sections and groups them
// into boxes. It is pure arithmetic over []dex.Section.
package slots

import (
	"fmt"

	"tableflip.dev/livedex/pkg/dex"
)

// BoxCapacity is the number of cells in one box.
const BoxCapacity = 30

// Cell is one numbered entry. Placeholders pad the last box of a section and
// carry Slot == 0.
type Cell struct {
	Slot        int      `json:"slot,omitempty"`
	Section     string   `json:"section"`
	Kind        dex.Kind `json:"kind,omitempty"`
	LocalIndex  int      `json:"localIndex"`
	Display     string   `json:"display,omitempty"`
	SpeciesID   int      `json:"speciesId,omitempty"`
	FormID      int      `json:"formId,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

type span struct {
	section dex.Section
	first   int // slot of local index 0
}

// Layout is the slot assignment for one composition of sections. It is
// rebuilt from scratch whenever the composition changes.
type Layout struct {
	spans []span
	cells []Cell // cells[slot-1]
	index map[string]int
}

// Assign numbers sections in order. Slot = entries in prior sections + local
// 1-based index.
func Assign(sections []dex.Section) *Layout {
	l := &Layout{index: make(map[string]int, len(sections))}
	next := 1
	for _, s := range sections {
		l.index[s.Key] = len(l.spans)
		l.spans = append(l.spans, span{section: s, first: next})
		for i, e := range s.Entries {
			l.cells = append(l.cells, Cell{
				Slot:       next,
				Section:    s.Key,
				Kind:       s.Kind,
				LocalIndex: i,
				Display:    localDisplay(i),
				SpeciesID:  e.SpeciesID,
				FormID:     e.FormID,
			})
			next++
		}
	}
	return l
}

func localDisplay(localIndex int) string {
	return fmt.Sprintf("%03d", localIndex+1)
}

// SlotCount is the total number of entries across all sections.
func (l *Layout) SlotCount() int {
	return len(l.cells)
}

// SlotOf returns the global slot of the zero-based localIndex in section.
func (l *Layout) SlotOf(section string, localIndex int) (int, bool) {
	i, ok := l.index[section]
	if !ok {
		return 0, false
	}
	sp := l.spans[i]
	if localIndex < 0 || localIndex >= len(sp.section.Entries) {
		return 0, false
	}
	return sp.first + localIndex, true
}

// LocalDisplay is the zero-padded 1-based index shown within a section.
func (l *Layout) LocalDisplay(section string, localIndex int) (string, bool) {
	if _, ok := l.SlotOf(section, localIndex); !ok {
		return "", false
	}
	return localDisplay(localIndex), true
}

// At returns the cell holding slot.
func (l *Layout) At(slot int) (Cell, bool) {
	if slot < 1 || slot > len(l.cells) {
		return Cell{}, false
	}
	return l.cells[slot-1], true
}

// Cells returns every numbered cell in slot order.
func (l *Layout) Cells() []Cell {
	out := make([]Cell, len(l.cells))
	copy(out, l.cells)
	return out
}

// Sections returns the sections the layout was built from.
func (l *Layout) Sections() []dex.Section {
	out := make([]dex.Section, len(l.spans))
	for i, sp := range l.spans {
		out[i] = sp.section
	}
	return out
}

// SectionRange returns the first and last slot of section.
func (l *Layout) SectionRange(section string) (first, last int, ok bool) {
	i, found := l.index[section]
	if !found || len(l.spans[i].section.Entries) == 0 {
		return 0, 0, false
	}
	sp := l.spans[i]
	return sp.first, sp.first + len(sp.section.Entries) - 1, true
}
