package partgraph

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rawbytedev/partgraph/pkg/dispatch"
	"github.com/rawbytedev/partgraph/pkg/graph"
)

// Input is one independent segment stream.
type Input struct {
	Name string // graph name; defaults to the options' graph name
	Data []byte
}

// Result is the outcome of decoding one Input.
type Result struct {
	Name   string
	Graph  *graph.Graph
	Report *Report
	// Err is the stream error from Decode or the unresolved reference error
	// from Finalize. Report is set in both cases unless ctx was cancelled.
	Err error
}

// DecodeMany decodes independent inputs concurrently, each in its own session
// over the shared registry, at most Options.Concurrency at a time. Results are
// in input order. Failures of one input land in its Result; the returned error
// is only set when ctx ends early or reg is nil.
func DecodeMany(ctx context.Context, reg *dispatch.Registry, inputs []Input, opts ...Option) ([]Result, error) {
	if reg == nil {
		return nil, ErrNoHandler
	}
	o := buildOptions(opts)
	reg.Seal()

	results := make([]Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(o.Concurrency, 1))
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			name := in.Name
			if name == "" {
				name = o.GraphName
			}
			s := NewSession(reg, WithOptions(o), WithGraphName(name))
			res := Result{Name: name, Graph: s.Graph()}
			if err := s.Decode(ctx, in.Data); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				res.Err = err
			}
			rep, err := s.Finalize(nil)
			res.Report = rep
			if res.Err == nil {
				res.Err = err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
