package kv

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/peterbourgon/diskv/v3"
)

// Disk is a Store backed by diskv. Keys are split on '-' so that
// `swsh-caught-v1` lands in `<base>/swsh/caught/v1`.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

// NewDisk creates a diskv-backed Store rooted at basePath.
func NewDisk(basePath string) (*Disk, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("kv: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure base path: %w", err)
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

// BasePath is the directory holding the store.
func (s *Disk) BasePath() string {
	return s.basePath
}

func (s *Disk) Get(key string) (string, bool, error) {
	if err := validKey(key); err != nil {
		return "", false, err
	}
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(val), true, nil
}

func (s *Disk) Set(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := s.d.WriteString(key, value); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return err
	}
	return nil
}

func (s *Disk) Remove(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

func (s *Disk) Keys(prefix string) ([]string, error) {
	done := make(chan struct{})
	defer close(done)
	keys := make([]string, 0)
	for key := range s.d.KeysPrefix(prefix, done) {
		keys = append(keys, key)
	}
	return sortedKeys(keys), nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
