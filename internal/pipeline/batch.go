package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/tbingest/internal/model"
)

// Outcome pairs an upload with its result or error.
type Outcome struct {
	Upload model.Upload
	Result *Result
	Err    error
}

// RunAll ingests uploads on up to workers goroutines and returns outcomes in
// input order. A failed upload never stops the others. Once ctx is done no
// further uploads are started; those get ctx.Err() as their error and the
// same error is returned.
func (p *Pipeline) RunAll(ctx context.Context, uploads []model.Upload, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]Outcome, len(uploads))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, u := range uploads {
		out[i].Upload = u
		if err := ctx.Err(); err != nil {
			out[i].Err = err
			continue
		}
		i, u := i, u // per-iteration copies: under go 1.21 loop variables are shared across iterations
		g.Go(func() error {
			out[i].Result, out[i].Err = p.Run(u)
			return nil
		})
	}
	_ = g.Wait()

	return out, ctx.Err()
}
