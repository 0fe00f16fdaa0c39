// Package kv provides the key-value persistence used for caught progress,
// enabled segments, and the species caches.
package kv

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrQuotaExceeded is returned by a Store when a write does not fit.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
	// ErrInvalidKey is returned for keys the backend cannot address.
	ErrInvalidKey = errors.New("kv: invalid key")
)

// Store is the persistence contract every backend satisfies. Get reports
// whether the key was present; a missing key is not an error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
}

// Key builds `<namespace>-<purpose>-v<version>`. Bumping version makes old,
// incompatible data invisible instead of migrating it.
func Key(namespace, purpose string, version int) string {
	return fmt.Sprintf("%s-%s-v%d", namespace, purpose, version)
}

// RemovePrefix erases every key beginning with prefix and returns how many
// were removed.
func RemovePrefix(s Store, prefix string) (int, error) {
	keys, err := s.Keys(prefix)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, k := range keys {
		if err := s.Remove(k); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "-") || strings.HasSuffix(key, "-") || strings.Contains(key, "--") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func sortedKeys(keys []string) []string {
	sort.Strings(keys)
	return keys
}
