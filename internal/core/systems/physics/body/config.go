package body

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/geometry"
)

var (
	ErrInvalidMass        = errors.New("mass must be positive and finite")
	ErrInvalidAirFriction = errors.New("air friction must be non-negative and finite")
	ErrInvalidPosition    = errors.New("position must be finite")
	ErrInvalidVelocity    = errors.New("velocity must be finite")
	ErrInvalidAngle       = errors.New("angle must be finite")
	ErrInvalidForce       = errors.New("force must be finite")
	ErrNilIDSource        = physics.ErrNilIDSource
)

// Render carries style hints for external renderers. The engine never
// reads them.
type Render struct {
	FillStyle   string  `json:"fillStyle,omitempty" yaml:"fillStyle,omitempty"`
	StrokeStyle string  `json:"strokeStyle,omitempty" yaml:"strokeStyle,omitempty"`
	LineWidth   float64 `json:"lineWidth" yaml:"lineWidth"`
}

// Config describes a body at construction time.
//
// Sides == 0 builds a circle (approximated by a 30-gon). Sides == 4 with
// both Width and Height set builds an axis-aligned rectangle instead of
// a regular polygon.
type Config struct {
	Name        string          `json:"name" yaml:"name"`
	Sides       int             `json:"sides" yaml:"sides"`
	Radius      float64         `json:"radius" yaml:"radius"`
	Width       float64         `json:"width,omitempty" yaml:"width,omitempty"`
	Height      float64         `json:"height,omitempty" yaml:"height,omitempty"`
	Mass        float64         `json:"mass" yaml:"mass"`
	AirFriction float64         `json:"airFriction" yaml:"airFriction"`
	Static      bool            `json:"static" yaml:"static"`
	Position    physics.Vector2 `json:"position" yaml:"position"`
	Rotation    float64         `json:"rotation" yaml:"rotation"`
	Render      Render          `json:"render" yaml:"render"`
}

// DefaultConfig returns the documented body defaults.
func DefaultConfig() Config {
	return Config{
		Name:        "Body",
		Sides:       5,
		Radius:      100,
		Mass:        1,
		AirFriction: 0.01,
		Render: Render{
			LineWidth: 2,
		},
	}
}

func (c Config) rectangle() bool {
	return c.Sides == 4 && c.Width != 0 && c.Height != 0
}

// Validate checks the physical parameters. Shape parameters are checked
// again by the geometry builders.
func (c Config) Validate() error {
	if !(c.Mass > 0) || math.IsInf(c.Mass, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidMass, c.Mass)
	}
	if !(c.AirFriction >= 0) || math.IsInf(c.AirFriction, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAirFriction, c.AirFriction)
	}
	if !(c.Width >= 0) || !(c.Height >= 0) || math.IsInf(c.Width, 0) || math.IsInf(c.Height, 0) {
		return fmt.Errorf("%w: got %vx%v", geometry.ErrInvalidSize, c.Width, c.Height)
	}
	if !(c.Radius >= 0) || math.IsInf(c.Radius, 0) {
		return fmt.Errorf("%w: got %v", geometry.ErrInvalidRadius, c.Radius)
	}
	if !c.Position.IsFinite() {
		return fmt.Errorf("%w: got %+v", ErrInvalidPosition, c.Position)
	}
	if !finite(c.Rotation) {
		return fmt.Errorf("%w: rotation %v", ErrInvalidAngle, c.Rotation)
	}
	return nil
}

func (c Config) shape() (*geometry.Shape, error) {
	if c.rectangle() {
		return geometry.NewRectangle(c.Width, c.Height, c.Radius)
	}
	return geometry.NewPolygon(c.Sides, c.Radius)
}
