package caught

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/kv"
)

// SegmentStore persists which optional segments a user turned on. It is
// stored separately from caught progress.
type SegmentStore struct {
	KV        kv.Store
	Namespace string
}

type segmentsDoc struct {
	Enabled []string `json:"enabled"`
}

// Key is the storage key holding the enabled set.
func (s *SegmentStore) Key() string {
	return kv.Key(s.Namespace, segmentPurpose, segmentVersion)
}

// Load returns the persisted set and whether one existed.
func (s *SegmentStore) Load() (dex.KeySet, bool) {
	if s.KV == nil {
		return nil, false
	}
	raw, ok, err := s.KV.Get(s.Key())
	if err != nil || !ok || raw == "" {
		if err != nil {
			log.Debug().Err(err).Str("key", s.Key()).Msg("segments: load failed")
		}
		return nil, false
	}
	var doc segmentsDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		log.Debug().Err(err).Str("key", s.Key()).Msg("segments: stored value unreadable")
		return nil, false
	}
	return dex.NewKeySet(doc.Enabled...), true
}

// Enabled returns the persisted set, or the game's default when none exists.
func (s *SegmentStore) Enabled(g dex.Game) dex.KeySet {
	if set, ok := s.Load(); ok {
		return set
	}
	return dex.DefaultEnabled(g)
}

// Save persists set.
func (s *SegmentStore) Save(set dex.KeySet) error {
	if s.KV == nil {
		return errors.New("segments: no store configured")
	}
	data, err := json.Marshal(segmentsDoc{Enabled: set.Sorted()})
	if err != nil {
		return err
	}
	if err := s.KV.Set(s.Key(), string(data)); err != nil {
		log.Debug().Err(err).Str("key", s.Key()).Msg("segments: save failed")
		return fmt.Errorf("segments: save: %w", err)
	}
	return nil
}
