// Package workerpool realizes the parallel parsing model spec §5
// describes: segment one large input buffer into disjoint record
// groups up front (cheap delimiter scanning, done once, single-
// threaded), then hand each group to its own goroutine, which parses
// its records with logtree.ParseRecordAt and its own AutoState and
// settings copy — no tree, builder, or settings mutation is ever
// shared across goroutines. Source order is reconstructed afterward
// from each Record's SourceSpan, never from goroutine completion order.
package workerpool

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	logtree "github.com/cybergodev/logtree"
)

// Result pairs one parsed Record with the error from parsing it, if
// any. Exactly one of the two is non-nil.
type Result struct {
	Record *logtree.Record
	Err    error
	Span   logtree.Span
}

// Pool parses one large buffer across a fixed number of goroutines by
// pre-segmenting it into records and partitioning those records into
// contiguous groups, one per worker.
type Pool struct {
	Settings logtree.Settings
	Delim    logtree.Delimiter
	Workers  int
}

// New returns a Pool configured for workers goroutines (clamped to at
// least 1).
func New(settings logtree.Settings, delim logtree.Delimiter, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{Settings: settings, Delim: delim, Workers: workers}
}

// Run segments buf, parses every record across p.Workers goroutines,
// and returns the results in source order. It returns a non-nil error
// only if ctx is canceled; a per-record parse failure is reported via
// that record's own Result.Err, not as Run's return error, matching
// spec §7's per-record (not whole-stream) error granularity.
func (p *Pool) Run(ctx context.Context, buf []byte) ([]Result, error) {
	spans := logtree.Split(buf, p.Delim)
	if len(spans) == 0 {
		return nil, nil
	}

	groups := partition(spans, p.Workers)
	perGroup := make([][]Result, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			settings := p.Settings
			var state logtree.AutoState
			out := make([]Result, 0, len(group))
			for _, sp := range group {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				rec, err := logtree.ParseRecordAt(&settings, buf, sp, &state)
				out = append(out, Result{Record: rec, Err: err, Span: sp})
			}
			perGroup[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Result
	for _, group := range perGroup {
		all = append(all, group...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Span.Start < all[j].Span.Start
	})
	return all, nil
}

// partition splits spans into up to n contiguous, roughly-equal groups,
// preserving order within and across groups.
func partition(spans []logtree.Span, n int) [][]logtree.Span {
	if n > len(spans) {
		n = len(spans)
	}
	if n <= 1 {
		return [][]logtree.Span{spans}
	}
	groups := make([][]logtree.Span, 0, n)
	base := len(spans) / n
	rem := len(spans) % n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		groups = append(groups, spans[start:start+size])
		start += size
	}
	return groups
}
