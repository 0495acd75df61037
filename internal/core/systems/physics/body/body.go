// Package body implements a rigid body integrated with a position Verlet
// scheme: velocity is derived from the current and previous position.
package body

import (
	"fmt"
	"math"

	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/geometry"
	"github.com/zeusync/physics2d/internal/core/systems/physics/internal/owner"
)

// Body is not safe for concurrent mutation. The engine never touches one
// body from two goroutines within a phase.
type Body struct {
	id     physics.ID
	name   string
	parent physics.ID

	shape  *geometry.Shape
	origin physics.Vector2
	center physics.Vector2
	render Render

	rotation float64
	vertices []geometry.Vertex

	position     physics.Vector2
	positionPrev physics.Vector2
	velocity     physics.Vector2
	angVelocity  float64

	mass        float64
	inertia     float64
	airFriction float64
	static      bool

	force  physics.Vector2
	torque float64

	delta     float64
	deltaPrev float64
}

// New builds a body from cfg. The vertex ring and edge graph are computed
// once here; the live ring is then materialised at cfg.Rotation.
func New(ids physics.IDSource, cfg Config) (*Body, error) {
	if ids == nil {
		return nil, ErrNilIDSource
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("body %q: %w", cfg.Name, err)
	}
	shape, err := cfg.shape()
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", cfg.Name, err)
	}

	b := &Body{
		id:           ids.Next(),
		name:         cfg.Name,
		parent:       physics.NoID,
		shape:        shape,
		origin:       physics.Vec(cfg.Radius, cfg.Radius),
		center:       shape.Center,
		render:       cfg.Render,
		rotation:     geometry.WrapAngle(cfg.Rotation),
		position:     cfg.Position,
		positionPrev: cfg.Position,
		mass:         cfg.Mass,
		airFriction:  cfg.AirFriction,
		static:       cfg.Static,
	}
	b.inertia = momentOfInertia(shape, cfg.Mass)
	b.vertices = shape.RotatedInto(nil, b.rotation)
	return b, nil
}

func momentOfInertia(s *geometry.Shape, mass float64) float64 {
	if s.IsRectangle() {
		return mass * (s.Width*s.Width + s.Height*s.Height) / 12
	}
	return mass * s.Radius * s.Radius / 2
}

// Update advances the body by dt. Force and torque are read, not cleared.
// Static bodies only record the time step.
func (b *Body) Update(dt float64) {
	b.deltaPrev = b.delta
	b.delta = dt

	if b.static {
		return
	}

	k := 1 - b.airFriction*dt
	dt2 := dt * dt

	implicit := b.position.Sub(b.positionPrev)
	b.velocity = implicit.Scale(k).Add(b.force.Scale(dt2 / b.mass))
	b.positionPrev = b.position
	b.position = b.position.Add(b.velocity)

	b.angVelocity = b.angVelocity*k + b.torque/b.inertia*dt2
	b.rotate(b.angVelocity)
}

// Rotate turns the body by angle radians. The live ring is always rebuilt
// from the canonical ring at the accumulated rotation.
func (b *Body) Rotate(angle float64) error {
	if !finite(angle) {
		return fmt.Errorf("%w: got %v", ErrInvalidAngle, angle)
	}
	b.rotate(angle)
	return nil
}

func (b *Body) rotate(angle float64) {
	if angle == 0 {
		return
	}
	b.rotation = geometry.WrapAngle(b.rotation + angle)
	b.vertices = b.shape.RotatedInto(b.vertices, b.rotation)
}

// ApplyForce adds f to the force accumulator.
func (b *Body) ApplyForce(f physics.Vector2) error {
	if !f.IsFinite() {
		return fmt.Errorf("%w: force %+v", ErrInvalidForce, f)
	}
	b.force = b.force.Add(f)
	return nil
}

// ApplyTorque adds t to the torque accumulator.
func (b *Body) ApplyTorque(t float64) error {
	if !finite(t) {
		return fmt.Errorf("%w: torque %v", ErrInvalidForce, t)
	}
	b.torque += t
	return nil
}

// ClearForces zeroes both accumulators.
func (b *Body) ClearForces() {
	b.force = physics.Vector2{}
	b.torque = 0
}

// SetPosition moves the body without changing its implicit velocity.
func (b *Body) SetPosition(p physics.Vector2) error {
	if !p.IsFinite() {
		return fmt.Errorf("%w: got %+v", ErrInvalidPosition, p)
	}
	d := p.Sub(b.position)
	b.position = p
	b.positionPrev = b.positionPrev.Add(d)
	return nil
}

// SetVelocity rewrites the previous position so the next update starts
// from velocity v.
func (b *Body) SetVelocity(v physics.Vector2) error {
	if !v.IsFinite() {
		return fmt.Errorf("%w: got %+v", ErrInvalidVelocity, v)
	}
	b.positionPrev = b.position.Sub(v)
	b.velocity = v
	return nil
}

func (b *Body) SetAngularVelocity(w float64) error {
	if !finite(w) {
		return fmt.Errorf("%w: got %v", ErrInvalidVelocity, w)
	}
	b.angVelocity = w
	return nil
}

// SetParent records the owning collection handle. The key can only be
// built inside the physics packages.
func (b *Body) SetParent(_ owner.Key, id physics.ID) { b.parent = id }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func (b *Body) ID() physics.ID                { return b.id }
func (b *Body) Name() string                  { return b.name }
func (b *Body) Parent() physics.ID            { return b.parent }
func (b *Body) Kind() geometry.Kind           { return b.shape.Kind }
func (b *Body) Sides() int                    { return b.shape.Sides }
func (b *Body) Radius() float64               { return b.shape.Radius }
func (b *Body) Origin() physics.Vector2       { return b.origin }
func (b *Body) Center() physics.Vector2       { return b.center }
func (b *Body) Render() Render                { return b.render }
func (b *Body) Rotation() float64             { return b.rotation }
func (b *Body) Position() physics.Vector2     { return b.position }
func (b *Body) PositionPrev() physics.Vector2 { return b.positionPrev }
func (b *Body) Velocity() physics.Vector2     { return b.velocity }
func (b *Body) AngularVelocity() float64      { return b.angVelocity }
func (b *Body) Mass() float64                 { return b.mass }
func (b *Body) Inertia() float64              { return b.inertia }
func (b *Body) AirFriction() float64          { return b.airFriction }
func (b *Body) Static() bool                  { return b.static }
func (b *Body) Force() physics.Vector2        { return b.force }
func (b *Body) Torque() float64               { return b.torque }
func (b *Body) Delta() float64                { return b.delta }
func (b *Body) DeltaPrev() float64            { return b.deltaPrev }

// Vertices returns a copy of the live (rotated) ring.
func (b *Body) Vertices() []geometry.Vertex {
	return append([]geometry.Vertex(nil), b.vertices...)
}

// CanonicalVertices returns a copy of the un-rotated ring.
func (b *Body) CanonicalVertices() []geometry.Vertex { return b.shape.Canonical() }

func (b *Body) Edges() []geometry.Edge         { return b.shape.Edges() }
func (b *Body) InternalEdges() []geometry.Edge { return b.shape.Internal() }
func (b *Body) ExternalEdges() []geometry.Edge { return b.shape.Boundary() }
