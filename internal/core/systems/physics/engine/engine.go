// Package engine advances a world of bodies in discrete ticks.
//
// Every Step runs three phases over the flattened world, each finishing
// before the next begins: clear force buffers, accumulate gravity, then
// integrate. Static bodies take no gravity and are not integrated.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zeusync/physics2d/internal/core/events/bus"
	"github.com/zeusync/physics2d/internal/core/observability/log"
	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/body"
	"github.com/zeusync/physics2d/internal/core/systems/physics/collection"
	"github.com/zeusync/physics2d/pkg/concurrent"
)

const (
	EventBeforeStep = "engine.beforeStep"
	EventAfterStep  = "engine.afterStep"
)

var (
	ErrStepInProgress = errors.New("engine step already in progress")
	ErrInvalidDelta   = errors.New("time delta must be finite and non-negative")
	ErrInvalidGravity = errors.New("gravity must be finite")
	ErrNilWorld       = errors.New("world collection is nil")
)

// Gravity is a direction scaled by strength M before it is added to each
// body's force. M is unrelated to body mass.
type Gravity struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	M float64 `json:"m" yaml:"m"`
}

func DefaultGravity() Gravity {
	return Gravity{X: 0, Y: 1, M: 0.0001}
}

// Inactive reports whether gravity contributes nothing.
func (g Gravity) Inactive() bool {
	return (g.X == 0 && g.Y == 0) || g.M == 0
}

// Force is the per-body force contribution.
func (g Gravity) Force() physics.Vector2 {
	return physics.Vec(g.X*g.M, g.Y*g.M)
}

func (g Gravity) validate() error {
	for _, v := range []float64{g.X, g.Y, g.M} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidGravity, g)
		}
	}
	return nil
}

// Timing tracks the current and previous deltas and the simulated time.
type Timing struct {
	Delta     float64 `json:"delta"`
	DeltaPrev float64 `json:"deltaPrev"`
	Timestamp float64 `json:"timestamp"`
	Steps     uint64  `json:"steps"`
}

type Option func(*Engine)

func WithGravity(g Gravity) Option {
	return func(e *Engine) { e.gravity = g }
}

// WithWorld sets the root collection. Without it the engine creates an
// empty collection named "World".
func WithWorld(world *collection.Collection) Option {
	return func(e *Engine) { e.world = world; e.worldSet = true }
}

func WithLogger(l log.Log) Option {
	return func(e *Engine) { e.logger = l }
}

// WithBus sets the bus lifecycle events are published on.
func WithBus(b bus.EventBus) Option {
	return func(e *Engine) { e.bus = b }
}

// WithIDs shares an id source with the bodies and collections of the world.
func WithIDs(ids physics.IDSource) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithWorkers spreads each phase over up to n goroutines. n <= 1 keeps
// every phase on the caller's goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// Engine drives one world. Step must not be called concurrently; a
// concurrent or re-entrant call fails with ErrStepInProgress.
type Engine struct {
	id    physics.ID
	runID uuid.UUID
	ids   physics.IDSource

	world    *collection.Collection
	worldSet bool
	gravity  Gravity
	timing   Timing
	workers  int

	logger log.Log
	bus    bus.EventBus

	stepping atomic.Bool
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		runID:   uuid.New(),
		gravity: DefaultGravity(),
		logger:  log.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.ids == nil {
		e.ids = physics.NewIDAllocator()
	}
	if e.bus == nil {
		e.bus = bus.New()
	}
	if err := e.gravity.validate(); err != nil {
		return nil, err
	}
	e.id = e.ids.Next()

	if e.worldSet && e.world == nil {
		return nil, ErrNilWorld
	}
	if e.world == nil {
		world, err := collection.New(e.ids, collection.DefaultName, collection.WithLogger(e.logger))
		if err != nil {
			return nil, err
		}
		e.world = world
	}

	e.logger = e.logger.With(log.Int64("engine", int64(e.id)), log.String("run", e.runID.String()))
	return e, nil
}

func (e *Engine) ID() physics.ID                { return e.id }
func (e *Engine) RunID() uuid.UUID              { return e.runID }
func (e *Engine) IDs() physics.IDSource         { return e.ids }
func (e *Engine) World() *collection.Collection { return e.world }
func (e *Engine) Gravity() Gravity              { return e.gravity }
func (e *Engine) Timing() Timing                { return e.timing }
func (e *Engine) Bus() bus.EventBus             { return e.bus }
func (e *Engine) Workers() int                  { return e.workers }

// SetGravity replaces the gravity used from the next step on.
func (e *Engine) SetGravity(g Gravity) error {
	if err := g.validate(); err != nil {
		return err
	}
	e.gravity = g
	return nil
}

// Add appends items to the world.
func (e *Engine) Add(items ...collection.Item) error {
	return e.world.Add(items...)
}

// Step advances the world by dt.
func (e *Engine) Step(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDelta, dt)
	}
	if !e.stepping.CompareAndSwap(false, true) {
		return ErrStepInProgress
	}
	defer e.stepping.Store(false)

	e.timing.DeltaPrev = e.timing.Delta
	e.timing.Delta = dt
	e.publish(EventBeforeStep)

	bodies := e.world.AllBodies()
	ctx := context.Background()

	if err := e.clearForces(ctx, bodies); err != nil {
		return err
	}
	if err := e.applyGravity(ctx, bodies); err != nil {
		return err
	}
	if err := e.updateBodies(ctx, bodies, dt); err != nil {
		return err
	}

	e.timing.Timestamp += dt
	e.timing.Steps++
	e.logger.Debug("step",
		log.Uint64("steps", e.timing.Steps),
		log.Float64("dt", dt),
		log.Int("bodies", len(bodies)),
	)
	e.publish(EventAfterStep)
	return nil
}

func (e *Engine) clearForces(ctx context.Context, bodies []*body.Body) error {
	return concurrent.ForEach(ctx, bodies, e.workers, func(b *body.Body) error {
		b.ClearForces()
		return nil
	})
}

func (e *Engine) applyGravity(ctx context.Context, bodies []*body.Body) error {
	if e.gravity.Inactive() {
		return nil
	}
	f := e.gravity.Force()
	return concurrent.ForEach(ctx, bodies, e.workers, func(b *body.Body) error {
		if b.Static() {
			return nil
		}
		return b.ApplyForce(f)
	})
}

func (e *Engine) updateBodies(ctx context.Context, bodies []*body.Body, dt float64) error {
	return concurrent.ForEach(ctx, bodies, e.workers, func(b *body.Body) error {
		b.Update(dt)
		return nil
	})
}

func (e *Engine) publish(eventType string) {
	if err := e.bus.Publish(bus.NewEvent(eventType, e.runID.String(), e.timing)); err != nil {
		e.logger.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}
