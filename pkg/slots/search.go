package slots

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberQuery = regexp.MustCompile(`^#?\d+$`)

// Search returns cells matching query in slot order. A numeric query (`42`
// or `#42`) matches the slot, the species id, or a name rendered as `#42`;
// anything else is a case-insensitive substring match on the name. names
// maps species id to display name; a missing name displays as `#<id>`.
func (l *Layout) Search(query string, names map[int]string) []Cell {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var matches []Cell
	if numberQuery.MatchString(q) {
		n, err := strconv.Atoi(strings.TrimPrefix(q, "#"))
		if err != nil {
			return nil
		}
		for _, c := range l.cells {
			label := DisplayName(names, c.SpeciesID)
			if c.Slot == n || c.SpeciesID == n || label == "#"+strconv.Itoa(n) || label == strconv.Itoa(n) {
				matches = append(matches, c)
			}
		}
		return matches
	}
	for _, c := range l.cells {
		if strings.Contains(strings.ToLower(DisplayName(names, c.SpeciesID)), q) {
			matches = append(matches, c)
		}
	}
	return matches
}

// DisplayName returns the known name for speciesID or its `#<id>` fallback.
func DisplayName(names map[int]string, speciesID int) string {
	if name, ok := names[speciesID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", speciesID)
}
