package verlet

import (
	"github.com/chewxy/math32"
	"github.com/sirupsen/logrus"
)

// TickReport summarises the constraint work done by one Tick.
type TickReport struct {
	Tick       uint64
	Links      int // links relaxed
	Passes     int // relaxation passes over all links
	EarlyExits int // links that reached a fixed point within budget
	Broken     int // links skipped for a missing endpoint
	Clamped    int // untouched particles clamped by the final pass
}

// Tick advances the world by dt seconds: integrate every particle, relax
// every link in slot order, then clamp every particle so no position leaves
// the tick outside the bounds.
//
// A link with a missing endpoint is skipped and logged, or, with
// Settings.StrictLinks, aborts the tick with a *TickError wrapping
// ErrMissingParticle. An aborted tick leaves integration and earlier links
// applied.
func (w *World) Tick(dt float32) (TickReport, error) {
	report := TickReport{Tick: w.ticks + 1}
	if dt < 0 || math32.IsNaN(dt) || math32.IsInf(dt, 0) {
		return report, ErrInvalidDt
	}

	w.integrate(dt)

	if err := w.relax(&report); err != nil {
		return report, err
	}

	bounds := w.settings.Bounds
	for i := range w.particles {
		slot := &w.particles[i]
		if !slot.alive {
			continue
		}
		// a link's last correction can push a touched endpoint back out
		slot.particle.Position = bounds.Clamp(slot.particle.Position)
		if !slot.touched {
			report.Clamped++
		}
	}

	w.ticks++
	if report.Broken > 0 {
		w.log.WithFields(logrus.Fields{
			"tick":   report.Tick,
			"broken": report.Broken,
		}).Warn("skipped links with missing particles")
	}
	return report, nil
}

func (w *World) integrate(dt float32) {
	for i := range w.particles {
		slot := &w.particles[i]
		if !slot.alive {
			continue
		}
		slot.touched = false
		slot.particle.AccumulateForces(w.settings.Gravity)
		slot.particle.Verlet(dt)
	}
}

func (w *World) relax(report *TickReport) error {
	bounds := w.settings.Bounds
	iterations := w.settings.Iterations

	for i := range w.links {
		ls := &w.links[i]
		if !ls.alive {
			continue
		}
		link := ls.link

		a, errA := w.particleSlot(link.A)
		b, errB := w.particleSlot(link.B)
		if errA != nil || errB != nil {
			id := LinkID{Index: uint32(i), Generation: ls.generation}
			if w.settings.StrictLinks {
				return &TickError{Tick: report.Tick, Link: id, Wrapped: ErrMissingParticle}
			}
			w.log.WithFields(logrus.Fields{
				"link": id.String(),
				"a":    link.A.String(),
				"b":    link.B.String(),
			}).Debug("link endpoint missing")
			report.Broken++
			continue
		}

		passes := RelaxLink(&a.particle, &b.particle, link.Kind, bounds, iterations)
		a.touched = true
		b.touched = true

		report.Links++
		report.Passes += passes
		if passes < iterations {
			report.EarlyExits++
		}
	}
	return nil
}
