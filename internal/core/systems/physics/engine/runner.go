package engine

import (
	"context"
	"time"

	"github.com/zeusync/physics2d/internal/core/observability/log"
)

// TickFunc receives the world state after each step.
type TickFunc func(Snapshot)

// Runner steps an engine with a fixed delta on a wall-clock interval.
type Runner struct {
	engine   *Engine
	interval time.Duration
	delta    float64
	onTick   TickFunc
}

// NewRunner creates a runner. onTick may be nil.
func NewRunner(e *Engine, interval time.Duration, delta float64, onTick TickFunc) *Runner {
	return &Runner{engine: e, interval: interval, delta: delta, onTick: onTick}
}

// Run steps on every tick until ctx is done or a step fails.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.engine.logger.Info("runner started",
		log.Duration("interval", r.interval),
		log.Float64("delta", r.delta),
	)
	for {
		select {
		case <-ctx.Done():
			r.engine.logger.Info("runner stopped", log.Uint64("steps", r.engine.timing.Steps))
			return ctx.Err()
		case <-ticker.C:
			if err := r.tick(); err != nil {
				return err
			}
		}
	}
}

// RunSteps performs n steps back to back, ignoring the interval.
func (r *Runner) RunSteps(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) tick() error {
	if err := r.engine.Step(r.delta); err != nil {
		r.engine.logger.Error("step failed", log.Error(err))
		return err
	}
	if r.onTick != nil {
		r.onTick(r.engine.Snapshot())
	}
	return nil
}
