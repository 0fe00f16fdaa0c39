// Package caught keeps per-slot caught status and the enabled-segment
// preference for a game.
package caught

import (
	"encoding/json"
	"sort"
	"strconv"
)

// State maps a 1-based slot to its caught flag. A missing slot is uncaught.
type State map[int]bool

// Caught reports whether slot is marked caught.
func (s State) Caught(slot int) bool {
	return s[slot]
}

// Set records the flag for slot.
func (s State) Set(slot int, caught bool) {
	s[slot] = caught
}

// Count returns the number of caught slots within [1, slotCount]. Slots
// outside that range, left over from another composition, are ignored.
func (s State) Count(slotCount int) int {
	total := 0
	for slot, ok := range s {
		if ok && slot >= 1 && slot <= slotCount {
			total++
		}
	}
	return total
}

// Clone returns an independent copy.
func (s State) Clone() State {
	c := make(State, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Slots returns the caught slots in ascending order.
func (s State) Slots() []int {
	slots := make([]int, 0, len(s))
	for slot, ok := range s {
		if ok {
			slots = append(slots, slot)
		}
	}
	sort.Ints(slots)
	return slots
}

// MarshalJSON writes the `{"1":true,"4":false}` shape.
func (s State) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, len(s))
	for k, v := range s {
		m[strconv.Itoa(k)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts the persisted object shape, skipping keys that are
// not integers.
func (s *State) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(State, len(m))
	for k, v := range m {
		slot, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[slot] = v
	}
	*s = out
	return nil
}
