package sim

import (
	"context"
	"sync"

	"github.com/san-kum/polysim/internal/scene"
)

// Builder creates a fresh, independent scene for one ensemble member.
type Builder func(seed int64) (*scene.Scene, error)

// Ensemble runs several independently built scenes concurrently. Each
// scene is still driven by exactly one goroutine.
type Ensemble struct {
	build     Builder
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Builder, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sc, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}

			s := New(sc)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
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
