// Package info describes where progress is stored.
package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/kv"
)

// Info prints configuration and the stored keys per game.
type Info struct {
	Config  kv.Config
	Store   kv.Store
	Catalog *dex.Catalog
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("LIVEDEX_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "LIVEDEX_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "LIVEDEX_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = kv.LoadConfig()
		if err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(out, "Config.path:  ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.engine:", n.Config.Engine())

	if n.Store == nil {
		return fmt.Errorf("failed to open the progress store")
	}
	keys, err := n.Store.Keys("")
	if err != nil {
		return err
	}

	byPrefix := map[string][]string{}
	for _, k := range keys {
		prefix := k
		if i := strings.IndexByte(k, '-'); i > 0 {
			prefix = k[:i]
		}
		byPrefix[prefix] = append(byPrefix[prefix], strings.TrimPrefix(k, prefix+"-"))
	}

	_, _ = fmt.Fprintln(out, "Stored data:")
	if len(byPrefix) == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "nothing stored yet")
		return nil
	}
	prefixes := make([]string, 0, len(byPrefix))
	for p := range byPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	titles := map[string]string{}
	if n.Catalog != nil {
		for _, g := range n.Catalog.Games {
			titles[g.StoragePrefix] = g.Title
		}
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	for _, p := range prefixes {
		tbl.AddRow("  "+p, titles[p], strings.Join(byPrefix[p], ", "))
	}
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
