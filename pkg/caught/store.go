package caught

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tableflip.dev/livedex/pkg/kv"
)

const (
	caughtPurpose  = "caught"
	caughtVersion  = 1
	segmentPurpose = "segments"
	segmentVersion = 1
)

// ErrInvalidSlot is returned for slot numbers below 1.
var ErrInvalidSlot = errors.New("caught: slot must be positive")

// Store persists the caught State of one game namespace. Persistence is
// best effort: reads never fail and write failures are reported as values
// while the caller's in-memory state stays authoritative.
type Store struct {
	KV        kv.Store
	Namespace string
}

// NewStore returns a Store for namespace.
func NewStore(s kv.Store, namespace string) *Store {
	return &Store{KV: s, Namespace: namespace}
}

// Key is the storage key holding the caught map.
func (s *Store) Key() string {
	return kv.Key(s.Namespace, caughtPurpose, caughtVersion)
}

// Load returns the persisted state, or an empty state on any read or parse
// error.
func (s *Store) Load() State {
	if s.KV == nil {
		return State{}
	}
	raw, ok, err := s.KV.Get(s.Key())
	if err != nil {
		log.Debug().Err(err).Str("key", s.Key()).Msg("caught: load failed, using empty state")
		return State{}
	}
	if !ok || raw == "" {
		return State{}
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil || st == nil {
		log.Debug().Err(err).Str("key", s.Key()).Msg("caught: stored state unreadable, using empty state")
		return State{}
	}
	return st
}

// Save writes state. The returned error is informational; callers proceed
// with their in-memory state regardless.
func (s *Store) Save(state State) error {
	if s.KV == nil {
		return errors.New("caught: no store configured")
	}
	if state == nil {
		state = State{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("caught: encode state: %w", err)
	}
	if err := s.KV.Set(s.Key(), string(data)); err != nil {
		log.Debug().Err(err).Str("key", s.Key()).Msg("caught: save failed, keeping in-memory state")
		return fmt.Errorf("caught: save: %w", err)
	}
	return nil
}

// Reset clears the persisted state and returns an empty one.
func (s *Store) Reset() State {
	empty := State{}
	_ = s.Save(empty)
	return empty
}

// Toggle flips slot with a load-modify-save cycle and returns the new flag
// together with the updated state.
func (s *Store) Toggle(slot int) (bool, State, error) {
	if slot < 1 {
		return false, nil, ErrInvalidSlot
	}
	st := s.Load()
	next := !st[slot]
	st[slot] = next
	return next, st, s.Save(st)
}

// SetRange marks every slot in [from, to] with caught.
func (s *Store) SetRange(from, to int, caught bool) (State, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("caught: invalid range %d-%d", from, to)
	}
	st := s.Load()
	for slot := from; slot <= to; slot++ {
		st[slot] = caught
	}
	return st, s.Save(st)
}

// Replace overwrites the persisted state, as when importing a shared link.
func (s *Store) Replace(state State) (State, error) {
	st := state.Clone()
	return st, s.Save(st)
}

// AllCaught reports whether every slot in [from, to] is caught.
func AllCaught(st State, from, to int) bool {
	if to < from {
		return false
	}
	for slot := from; slot <= to; slot++ {
		if !st[slot] {
			return false
		}
	}
	return true
}
