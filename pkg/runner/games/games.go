// Package games lists the game catalog.
package games

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/printers"
)

// Games prints every configured game, marking Current.
type Games struct {
	Catalog *dex.Catalog
	Current string
	Output  string
	Out     io.Writer
}

func (g *Games) Do(ctx context.Context) error {
	if g.Catalog == nil {
		return errors.New("no game catalog")
	}
	out := g.Out
	if out == nil {
		out = color.Output
	}
	if g.Output == "json" {
		return json.NewEncoder(out).Encode(g.Catalog)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Games(g.Catalog, g.Current)
	return nil
}
