package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/physics2d/internal/core/events/bus"
	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/body"
	"github.com/zeusync/physics2d/internal/core/systems/physics/collection"
)

func addBody(t *testing.T, e *Engine, target *collection.Collection, mutate func(*body.Config)) *body.Body {
	t.Helper()
	cfg := body.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	b, err := body.New(e.IDs(), cfg)
	require.NoError(t, err)
	if target == nil {
		target = e.World()
	}
	require.NoError(t, target.Add(collection.OfBody(b)))
	return b
}

func newCollection(t *testing.T, ids physics.IDSource, name string) *collection.Collection {
	t.Helper()
	c, err := collection.New(ids, name)
	require.NoError(t, err)
	return c
}

func TestNewDefaults(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	assert.Equal(t, DefaultGravity(), e.Gravity())
	assert.Equal(t, physics.ID(0), e.ID())
	assert.Equal(t, collection.DefaultName, e.World().Name())
	assert.NotEqual(t, e.ID(), e.World().ID())
	assert.NotEmpty(t, e.RunID().String())
	assert.NotNil(t, e.Bus())
	assert.Zero(t, e.Timing())
}

func TestNewErrors(t *testing.T) {
	_, err := New(WithWorld(nil))
	assert.ErrorIs(t, err, ErrNilWorld)

	_, err = New(WithGravity(Gravity{X: math.NaN(), Y: 1, M: 1}))
	assert.ErrorIs(t, err, ErrInvalidGravity)

	e, err := New()
	require.NoError(t, err)
	assert.ErrorIs(t, e.SetGravity(Gravity{M: math.Inf(1)}), ErrInvalidGravity)
}

func TestSingleCircleScenario(t *testing.T) {
	e, err := New(WithGravity(Gravity{X: 0, Y: 1, M: 0.0001}))
	require.NoError(t, err)
	b := addBody(t, e, nil, func(c *body.Config) { c.Sides = 0; c.Radius = 50 })

	require.NoError(t, e.Step(1))

	assert.InDelta(t, 0, b.Force().X, 1e-15)
	assert.InDelta(t, 0.0001, b.Force().Y, 1e-15)
	assert.InDelta(t, 0.0001, b.Velocity().Y, 1e-12)
	assert.InDelta(t, 0.0001, b.Position().Y, 1e-12)
	assert.Equal(t, 0.0, b.Position().X)
}

func TestInactiveGravityLeavesForceZero(t *testing.T) {
	for _, g := range []Gravity{{X: 0, Y: 0, M: 5}, {X: 3, Y: 1, M: 0}} {
		e, err := New(WithGravity(g))
		require.NoError(t, err)
		b := addBody(t, e, nil, nil)
		require.NoError(t, b.ApplyForce(physics.Vec(9, 9)))

		require.NoError(t, e.Step(1))

		assert.Equal(t, physics.Vector2{}, b.Force(), "gravity=%+v", g)
		assert.Equal(t, physics.Vector2{}, b.Position())
	}
}

func TestClearPhaseResetsAccumulators(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	b := addBody(t, e, nil, nil)
	require.NoError(t, b.ApplyForce(physics.Vec(100, 100)))
	require.NoError(t, b.ApplyTorque(4))

	require.NoError(t, e.Step(1))

	assert.Equal(t, e.Gravity().Force(), b.Force())
	assert.Zero(t, b.Torque())
}

func TestStaticBodiesAreSkipped(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	static := addBody(t, e, nil, func(c *body.Config) { c.Static = true; c.Position = physics.Vec(5, 5) })
	moving := addBody(t, e, nil, nil)

	for i := 0; i < 10; i++ {
		require.NoError(t, e.Step(1))
	}

	assert.Equal(t, physics.Vector2{}, static.Force())
	assert.Equal(t, physics.Vec(5, 5), static.Position())
	assert.Greater(t, moving.Position().Y, 0.0)
}

func TestNestedCollectionsAreStepped(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	child := newCollection(t, e.IDs(), "child")
	grandchild := newCollection(t, e.IDs(), "grandchild")
	require.NoError(t, child.Add(grandchild))
	require.NoError(t, e.Add(child))

	top := addBody(t, e, nil, nil)
	mid := addBody(t, e, child, nil)
	deep := addBody(t, e, grandchild, nil)

	require.NoError(t, e.Step(1))

	for _, b := range []*body.Body{top, mid, deep} {
		assert.Equal(t, physics.Vec(0, 0.0001), b.Force())
		assert.Greater(t, b.Position().Y, 0.0)
	}
}

func TestBodyIntegratedOncePerStep(t *testing.T) {
	e, err := New(WithGravity(Gravity{}))
	require.NoError(t, err)
	inner := newCollection(t, e.IDs(), "inner")
	require.NoError(t, e.Add(inner))
	b := addBody(t, e, nil, nil)
	require.NoError(t, b.SetVelocity(physics.Vec(1, 0)))

	assert.ErrorIs(t, inner.Add(collection.OfBody(b)), collection.ErrAlreadyOwned)
	require.NoError(t, e.Step(1))

	assert.Equal(t, 1, e.World().Len())
	assert.InDelta(t, 0.99, b.Position().X, 1e-12)
}

func TestTiming(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	b := addBody(t, e, nil, nil)

	require.NoError(t, e.Step(1))
	require.NoError(t, e.Step(0.5))

	assert.Equal(t, Timing{Delta: 0.5, DeltaPrev: 1, Timestamp: 1.5, Steps: 2}, e.Timing())
	assert.Equal(t, 0.5, b.Delta())
	assert.Equal(t, 1.0, b.DeltaPrev())
}

func TestInvalidDelta(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, e.Step(dt), ErrInvalidDelta)
	}
	assert.Zero(t, e.Timing().Steps)
	assert.NoError(t, e.Step(0))
}

func TestReentrantStepRejected(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	var inner error
	_, err = e.Bus().Subscribe(EventBeforeStep, func(bus.Event) error {
		inner = e.Step(1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, e.Step(1))
	assert.ErrorIs(t, inner, ErrStepInProgress)
	assert.Equal(t, uint64(1), e.Timing().Steps)
}

func TestLifecycleEvents(t *testing.T) {
	b := bus.New()
	e, err := New(WithBus(b))
	require.NoError(t, err)

	var order []string
	var after Timing
	_, _ = b.Subscribe(EventBeforeStep, func(ev bus.Event) error {
		order = append(order, ev.Type())
		return nil
	})
	_, _ = b.Subscribe(EventAfterStep, func(ev bus.Event) error {
		order = append(order, ev.Type())
		after = ev.Data().(Timing)
		return errors.New("handler failures do not fail the step")
	})

	require.NoError(t, e.Step(2))

	assert.Equal(t, []string{EventBeforeStep, EventAfterStep}, order)
	assert.Equal(t, uint64(1), after.Steps)
	assert.Equal(t, 2.0, after.Timestamp)
}

func buildWorld(t *testing.T, workers int) *Engine {
	t.Helper()
	ids := physics.NewIDAllocator()
	e, err := New(WithIDs(ids), WithWorkers(workers), WithGravity(Gravity{X: 0.3, Y: 1, M: 0.01}))
	require.NoError(t, err)

	groups := []*collection.Collection{e.World()}
	for g := 0; g < 3; g++ {
		c := newCollection(t, ids, "")
		require.NoError(t, groups[len(groups)-1].Add(c))
		groups = append(groups, c)
	}
	for i := 0; i < 64; i++ {
		b := addBody(t, e, groups[i%len(groups)], func(c *body.Config) {
			c.Sides = 3 + i%6
			c.Radius = 5 + float64(i)
			c.Mass = 1 + float64(i%4)
			c.Static = i%9 == 0
			c.Position = physics.Vec(float64(i), float64(-i))
		})
		require.NoError(t, b.SetAngularVelocity(0.01 * float64(i%5)))
	}
	return e
}

func TestDeterminism(t *testing.T) {
	run := func(workers int) (uint64, Snapshot) {
		e := buildWorld(t, workers)
		for i := 0; i < 50; i++ {
			require.NoError(t, e.Step(0.5))
		}
		return e.StateHash(), e.Snapshot()
	}

	h1, s1 := run(0)
	h2, s2 := run(0)
	h3, s3 := run(4)

	assert.Equal(t, h1, h2)
	assert.Equal(t, h1, h3, "parallel phases must match sequential ones")
	assert.Equal(t, s1.Bodies, s2.Bodies)
	assert.Equal(t, s1.Bodies, s3.Bodies)
	assert.Equal(t, h1, s1.Hash)
}

func TestStateHashChangesWithState(t *testing.T) {
	e := buildWorld(t, 0)
	before := e.StateHash()
	require.NoError(t, e.Step(1))
	assert.NotEqual(t, before, e.StateHash())
}

func TestSnapshot(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	addBody(t, e, nil, func(c *body.Config) { c.Name = "ball"; c.Sides = 0 })
	require.NoError(t, e.Step(1))

	s := e.Snapshot()
	assert.Equal(t, e.ID(), s.Engine)
	assert.Equal(t, e.RunID().String(), s.Run)
	assert.Equal(t, uint64(1), s.Timing.Steps)
	require.Len(t, s.Bodies, 1)
	assert.Equal(t, "ball", s.Bodies[0].Name)
	assert.Equal(t, "circle", s.Bodies[0].Kind)
	assert.Equal(t, e.World().ID(), s.Bodies[0].Parent)
}

func TestRunnerRunSteps(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	addBody(t, e, nil, nil)

	var ticks int
	r := NewRunner(e, time.Hour, 1, func(s Snapshot) {
		ticks++
		assert.Equal(t, uint64(ticks), s.Timing.Steps)
	})

	require.NoError(t, r.RunSteps(context.Background(), 5))
	assert.Equal(t, 5, ticks)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	ticked := make(chan struct{}, 1)
	r := NewRunner(e, time.Millisecond, 1, func(Snapshot) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("runner never ticked")
	}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerPropagatesStepError(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	r := NewRunner(e, time.Millisecond, -1, nil)
	assert.ErrorIs(t, r.RunSteps(context.Background(), 1), ErrInvalidDelta)
	assert.ErrorIs(t, r.Run(context.Background()), ErrInvalidDelta)
}
