package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/procanim/internal/verlet"
)

func TestEnsembleDeterministic(t *testing.T) {
	build := func() (*verlet.World, error) { return testWorld(), nil }

	results, err := NewEnsemble(build, 4).
		WithMetrics(func() []Metric { return []Metric{&testMetric{}} }).
		Run(context.Background(), Config{Dt: 1.0 / 60, Ticks: 120})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.TicksTaken != 120 || r.Metrics["test"] != 120 {
			t.Errorf("run %d: %d ticks, metric %v", i, r.TicksTaken, r.Metrics["test"])
		}
	}
	if !Deterministic(results) {
		t.Error("identical worlds diverged")
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	build := func() (*verlet.World, error) { return nil, boom }

	if _, err := NewEnsemble(build, 3).Run(context.Background(), Config{Dt: 0.01, Ticks: 1}); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}

func TestDeterministic(t *testing.T) {
	if !Deterministic(nil) {
		t.Error("empty ensemble is trivially deterministic")
	}
	if Deterministic([]*Result{{Fingerprint: 1}, {Fingerprint: 2}}) {
		t.Error("different fingerprints reported as deterministic")
	}
}
