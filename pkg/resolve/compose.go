package resolve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/livedex/pkg/dex"
)

// Compose resolves the included segments of g and returns the non-empty
// ones in declaration order. Segments resolve concurrently; the first error
// cancels the rest.
func Compose(ctx context.Context, r *Resolver, g dex.Game, enabled dex.KeySet) ([]dex.Section, error) {
	if enabled == nil {
		enabled = dex.DefaultEnabled(g)
	}
	resolved := make([][]dex.Entry, len(g.Segments))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, seg := range g.Segments {
		if !dex.Included(seg, enabled) {
			continue
		}
		i, seg := i, seg
		eg.Go(func() error {
			entries, err := r.Resolve(egCtx, g, seg)
			if err != nil {
				return fmt.Errorf("segment %q: %w", seg.Key, err)
			}
			resolved[i] = entries
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sections := make([]dex.Section, 0, len(g.Segments))
	for i, seg := range g.Segments {
		if len(resolved[i]) == 0 {
			continue
		}
		sections = append(sections, dex.Section{
			Key:     seg.Key,
			Title:   seg.Title,
			Kind:    seg.Kind,
			Entries: resolved[i],
		})
	}
	return sections, nil
}
