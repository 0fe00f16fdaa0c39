// Package dex defines the game catalog: games, their dex segments, and the
// resolved sections a tracker is built from.
package dex

import (
	"fmt"
	"strings"
)

// Kind is a descriptive label for a segment, used for headings only.
type Kind string

const (
	// KindBase is the game's main regional dex.
	KindBase Kind = "base"
	// KindDLC is an expansion dex.
	KindDLC Kind = "dlc"
	// KindForms is a manually curated list of pokemon (form) ids.
	KindForms Kind = "forms"
)

// AllKinds returns the list of supported segment kinds.
func AllKinds() []Kind {
	return []Kind{
		KindBase,
		KindDLC,
		KindForms,
	}
}

// ParseKind converts a string to a Kind or returns an error for unknown values.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if k == "" {
		return KindBase, nil
	}
	for _, candidate := range AllKinds() {
		if candidate == k {
			return candidate, nil
		}
	}
	return KindBase, fmt.Errorf("dex: unknown segment kind %q", raw)
}

// Heading returns a short label for section headings.
func (k Kind) Heading() string {
	switch k {
	case KindDLC:
		return "DLC"
	case KindForms:
		return "Forms"
	default:
		return "Base"
	}
}
