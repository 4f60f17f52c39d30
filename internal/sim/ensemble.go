package sim

import (
	"context"
	"sync"

	"github.com/san-kum/procanim/internal/verlet"
)

// Ensemble runs independent copies of a scene concurrently. Each run gets
// its own world and its own metrics, so nothing is shared between
// goroutines.
type Ensemble struct {
	build   func() (*verlet.World, error)
	metrics func() []Metric
	numRuns int
}

func NewEnsemble(build func() (*verlet.World, error), numRuns int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

// WithMetrics sets a factory called once per run.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.metrics = fn
	return e
}

// Run returns one result per run, in run order. The first build or run
// error is returned.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w, err := e.build()
			if err != nil {
				errs[idx] = err
				return
			}

			s := New(w)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
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

// Deterministic reports whether every result ended on the same fingerprint.
func Deterministic(results []*Result) bool {
	for _, r := range results[min(1, len(results)):] {
		if r.Fingerprint != results[0].Fingerprint {
			return false
		}
	}
	return true
}
