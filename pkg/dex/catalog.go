package dex

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed games.yaml
var builtinGames []byte

// Catalog is the ordered set of trackable games.
type Catalog struct {
	Default string `yaml:"default"`
	Games   []Game `yaml:"games"`
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	return ParseCatalog(builtinGames)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("dex: parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalogFile reads a catalog file and merges it over the built-in one.
func LoadCatalogFile(path string) (*Catalog, error) {
	base, err := Builtin()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dex: loading catalog: %w", err)
	}
	extra, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("dex: loading catalog %s: %w", path, err)
	}
	base.Merge(extra)
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("dex: loading catalog %s: %w", path, err)
	}
	return base, nil
}

// Validate checks every game and that ids and storage prefixes are unique.
func (c *Catalog) Validate() error {
	if len(c.Games) == 0 {
		return fmt.Errorf("dex: catalog has no games")
	}
	ids := make(map[string]struct{}, len(c.Games))
	prefixes := make(map[string]string, len(c.Games))
	for i := range c.Games {
		g := &c.Games[i]
		for j := range g.Segments {
			if g.Segments[j].Kind == "" {
				g.Segments[j].Kind = KindBase
			}
		}
		if err := g.Validate(); err != nil {
			return err
		}
		if _, dup := ids[g.ID]; dup {
			return fmt.Errorf("dex: duplicate game id %q", g.ID)
		}
		ids[g.ID] = struct{}{}
		if other, dup := prefixes[g.StoragePrefix]; dup {
			return fmt.Errorf("dex: games %q and %q share storage prefix %q", other, g.ID, g.StoragePrefix)
		}
		prefixes[g.StoragePrefix] = g.ID
	}
	if c.Default != "" {
		if _, ok := ids[c.Default]; !ok {
			return fmt.Errorf("dex: default game %q is not defined", c.Default)
		}
	}
	return nil
}

// Merge replaces games with matching ids and appends new ones.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, g := range other.Games {
		replaced := false
		for i := range c.Games {
			if c.Games[i].ID == g.ID {
				c.Games[i] = g
				replaced = true
				break
			}
		}
		if !replaced {
			c.Games = append(c.Games, g)
		}
	}
	if other.Default != "" {
		c.Default = other.Default
	}
}

// Get returns the game with the given id.
func (c *Catalog) Get(id string) (Game, bool) {
	for _, g := range c.Games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// Lookup returns the requested game, falling back to the default game (or
// the first one) for an empty or unknown id.
func (c *Catalog) Lookup(id string) Game {
	if g, ok := c.Get(strings.ToLower(strings.TrimSpace(id))); ok {
		return g
	}
	if g, ok := c.Get(c.Default); ok {
		return g
	}
	return c.Games[0]
}

// IDs returns game ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Games))
	for i, g := range c.Games {
		ids[i] = g.ID
	}
	return ids
}
