package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/kv"
	"tableflip.dev/livedex/pkg/names"
	"tableflip.dev/livedex/pkg/pokeapi"
	"tableflip.dev/livedex/pkg/resolve"
)

// Env carries what is needed to open a Tracker for any game.
type Env struct {
	Catalog     *dex.Catalog
	Store       kv.Store
	Source      resolve.Source
	Fetcher     names.Fetcher
	Concurrency int
}

// Load builds an Env from the configuration: storage from cfg (loaded when
// nil), the game catalog with any `games_file` overrides, and a PokeAPI
// client from the `pokeapi.*` settings.
func Load(cfg kv.Config) (*Env, error) {
	if cfg == nil {
		var err error
		if cfg, err = kv.LoadConfig(); err != nil {
			return nil, err
		}
	}
	store, err := kv.Open(cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := dex.Builtin()
	if err != nil {
		return nil, err
	}
	if file := strings.TrimSpace(viper.GetString("games_file")); file != "" {
		if file, err = homedir.Expand(file); err != nil {
			return nil, err
		}
		if catalog, err = dex.LoadCatalogFile(file); err != nil {
			return nil, err
		}
	}

	client, err := pokeapi.New(pokeapi.Options{
		BaseURL: viper.GetString("pokeapi.url"),
		Timeout: viper.GetDuration("pokeapi.timeout"),
		Retries: viper.GetInt("pokeapi.retries"),
		Rate:    viper.GetString("pokeapi.rate"),
	})
	if err != nil {
		return nil, err
	}

	return &Env{
		Catalog:     catalog,
		Store:       store,
		Source:      client,
		Fetcher:     client,
		Concurrency: viper.GetInt("names.concurrency"),
	}, nil
}

// Game resolves id against the catalog. An empty id selects the configured
// `game`, then the catalog default. An unknown non-empty id is an error.
func (e *Env) Game(id string) (dex.Game, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = viper.GetString("game")
	}
	if id == "" {
		return e.Catalog.Lookup(""), nil
	}
	g, ok := e.Catalog.Get(id)
	if !ok {
		return dex.Game{}, fmt.Errorf("app: unknown game %q (one of %s)", id, strings.Join(e.Catalog.IDs(), ", "))
	}
	return g, nil
}

// Tracker opens the tracker for game id.
func (e *Env) Tracker(ctx context.Context, id string) (*Tracker, error) {
	g, err := e.Game(id)
	if err != nil {
		return nil, err
	}
	t := New(g, e.Store, e.Source, e.Fetcher)
	if e.Concurrency > 0 {
		t.Hydrator.Concurrency = e.Concurrency
		t.Resolver.Concurrency = e.Concurrency
	}
	if err := t.Open(ctx); err != nil {
		return nil, err
	}
	return t, nil
}
