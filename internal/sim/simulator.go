package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/procanim/internal/verlet"
)

// Simulator drives a World at a fixed time step.
type Simulator struct {
	world     *verlet.World
	metrics   []Metric
	observers []Observer
}

func New(world *verlet.World) *Simulator {
	return &Simulator{
		world:     world,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) World() *verlet.World { return s.world }

// Run advances the world cfg.Ticks times. The context is checked between
// ticks only; a tick always completes once started.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	frameEvery := cfg.FrameEvery
	if frameEvery < 1 {
		frameEvery = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Ticks/frameEvery+1),
		Reports: make([]verlet.TickReport, 0, cfg.Ticks),
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var t float32
	snap := s.world.Snapshot()
	result.Frames = append(result.Frames, frame(snap, t))

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			result.Fingerprint = snap.Fingerprint()
			return result, ctx.Err()
		default:
		}

		report, err := s.world.Tick(cfg.Dt)
		if err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		t += cfg.Dt
		result.TicksTaken++
		result.Reports = append(result.Reports, report)

		snap = s.world.Snapshot()
		if !snap.Finite() {
			result.Errors = append(result.Errors, SimError{Time: t, Tick: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		for _, m := range s.metrics {
			m.Observe(snap, cfg.Dt)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}
		for _, obs := range s.observers {
			obs.OnTick(snap, report, t)
		}

		if (i+1)%frameEvery == 0 {
			result.Frames = append(result.Frames, frame(snap, t))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Fingerprint = snap.Fingerprint()

	return result, nil
}

// RunWithCallback ticks until duration elapses or callback returns false.
// The callback runs between ticks and may mutate the world.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(verlet.Snapshot, float32) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	var t float32
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.world.Snapshot(), t) {
			return nil
		}

		if _, err := s.world.Tick(cfg.Dt); err != nil {
			return err
		}
		t += cfg.Dt
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.world == nil {
		return fmt.Errorf("simulator has no world")
	}
	if cfg.Dt < 0 {
		return fmt.Errorf("dt must not be negative, got %f", cfg.Dt)
	}
	if cfg.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", cfg.Ticks)
	}
	return nil
}

func frame(s verlet.Snapshot, t float32) Frame {
	return Frame{Tick: s.Tick, Time: t, Positions: s.Positions}
}
