package kv

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	EngineDisk   = "disk"
	EngineSQLite = "sqlite"
	EngineMemory = "memory"
)

// Open creates the Store selected by cfg. A nil cfg loads the default
// configuration.
func Open(cfg Config) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Engine())) {
	case "", EngineDisk:
		return NewDisk(cfg.BasePath())
	case EngineSQLite:
		path := cfg.BasePath()
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "livedex.sqlite")
		}
		return NewSQLite(path)
	case EngineMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("kv: unsupported store engine %q", cfg.Engine())
	}
}
