package sim

import (
	"context"
	"sync"
)

// Fleet runs independent vehicle instances in parallel. Each runner owns
// its entire arbitration core, so instances share no mutable state and
// need no locking.
type Fleet struct {
	build     func(idx int, seed int64) *Runner
	numRuns   int
	seedStart int64
}

// NewFleet builds a fleet of numRuns instances. The build function must
// return a fully independent runner per call.
func NewFleet(build func(idx int, seed int64) *Runner, numRuns int, seedStart int64) *Fleet {
	return &Fleet{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (f *Fleet) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, f.numRuns)
	errs := make([]error, f.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < f.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = f.seedStart + int64(idx)

			r := f.build(idx, cfgCopy.Seed)
			results[idx], errs[idx] = r.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
