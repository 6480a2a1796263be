package gosieview

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// LoadResult is the outcome of one asset load. Node is the asset's
// top-level node, not yet attached to any scene.
type LoadResult struct {
	Index int
	Spec  AssetSpec
	Node  *Node
	Err   error
}

type LoadOptions struct {
	Concurrency int
	Centre      bool
	FitSize     float64
}

// LoadQueue runs asset loads in the background and hands finished results
// to the owner, which attaches them on its own goroutine.
type LoadQueue struct {
	results chan LoadResult
	total   int
	done    bool
}

// StartLoads begins loading every spec and returns at once. Results arrive
// in completion order.
func StartLoads(ctx context.Context, loader Loader, specs []AssetSpec, opts LoadOptions) *LoadQueue {
	q := &LoadQueue{
		results: make(chan LoadResult, len(specs)),
		total:   len(specs),
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	go func() {
		var g errgroup.Group
		g.SetLimit(limit)
		for i, spec := range specs {
			i, spec := i, spec
			g.Go(func() (err error) {
				res := LoadResult{Index: i, Spec: spec}
				defer func() {
					if r := recover(); r != nil {
						res.Node = nil
						res.Err = fmt.Errorf("load %s: %w: %v", spec.DisplayName(), ErrLoaderPanic, r)
						err = res.Err
					}
					q.results <- res
				}()
				content, loadErr := loader.Load(ctx, spec.Path)
				if loadErr == nil {
					res.Node, loadErr = NewAssetNode(spec, content, opts.Centre, opts.FitSize)
				}
				res.Err = loadErr
				return nil
			})
		}
		// only a recovered panic surfaces here; ordinary failures travel in
		// the results
		if err := g.Wait(); err != nil {
			log.Printf("asset loads: %v", err)
		}
		close(q.results)
	}()
	return q
}

// Total is the number of assets the queue was started with.
func (q *LoadQueue) Total() int {
	return q.total
}

// Poll returns the results that are ready without blocking.
func (q *LoadQueue) Poll() []LoadResult {
	var out []LoadResult
	for !q.done {
		select {
		case r, ok := <-q.results:
			if !ok {
				q.done = true
				return out
			}
			out = append(out, r)
		default:
			return out
		}
	}
	return out
}

// Wait blocks until every load has finished and returns the results not yet
// collected by Poll.
func (q *LoadQueue) Wait() []LoadResult {
	var out []LoadResult
	if q.done {
		return out
	}
	for r := range q.results {
		out = append(out, r)
	}
	q.done = true
	return out
}

// Done reports whether every result has been collected.
func (q *LoadQueue) Done() bool {
	return q.done
}
