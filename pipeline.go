package bfengine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Source is a named program text.
type Source struct {
	Name string
	Code []byte
}

// PrepareAll prepares every source concurrently. Programs share nothing, so
// each one goes through its own pipeline; the first failure cancels the
// rest and everything already compiled is released.
func (e *Engine) PrepareAll(ctx context.Context, sources []Source) ([]*Prepared, error) {
	prepared := make([]*Prepared, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range sources {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := e.Prepare(s.Code)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
			prepared[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, p := range prepared {
			if p != nil {
				p.Release()
			}
		}
		return nil, err
	}
	return prepared, nil
}
