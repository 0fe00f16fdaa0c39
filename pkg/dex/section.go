package dex

import "sort"

// Entry is one resolved species/form pairing. FormID selects the sprite and
// equals SpeciesID unless a regional form applies.
type Entry struct {
	SpeciesID int `json:"speciesId"`
	FormID    int `json:"formId"`
}

// Section is an included segment with its resolved entries.
type Section struct {
	Key     string  `json:"key"`
	Title   string  `json:"title"`
	Kind    Kind    `json:"kind"`
	Entries []Entry `json:"entries"`
}

// SpeciesIDs flattens the species ids of all sections in slot order.
func SpeciesIDs(sections []Section) []int {
	n := 0
	for _, s := range sections {
		n += len(s.Entries)
	}
	ids := make([]int, 0, n)
	for _, s := range sections {
		for _, e := range s.Entries {
			ids = append(ids, e.SpeciesID)
		}
	}
	return ids
}

// KeySet is a set of segment keys.
type KeySet map[string]struct{}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s KeySet) Add(key string) {
	s[key] = struct{}{}
}

func (s KeySet) Remove(key string) {
	delete(s, key)
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (s KeySet) Clone() KeySet {
	c := make(KeySet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
