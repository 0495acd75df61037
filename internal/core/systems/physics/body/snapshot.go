package body

import (
	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/geometry"
)

// Snapshot is a detached, read-only copy of what a renderer needs.
type Snapshot struct {
	ID            physics.ID        `json:"id"`
	Name          string            `json:"name"`
	Parent        physics.ID        `json:"parent"`
	Kind          string            `json:"kind"`
	Static        bool              `json:"static"`
	Position      physics.Vector2   `json:"position"`
	Velocity      physics.Vector2   `json:"velocity"`
	Rotation      float64           `json:"rotation"`
	Vertices      []geometry.Vertex `json:"vertices"`
	ExternalEdges []geometry.Edge   `json:"externalEdges"`
	InternalEdges []geometry.Edge   `json:"internalEdges"`
	Render        Render            `json:"render"`
}

func (b *Body) Snapshot() Snapshot {
	return Snapshot{
		ID:            b.id,
		Name:          b.name,
		Parent:        b.parent,
		Kind:          b.shape.Kind.String(),
		Static:        b.static,
		Position:      b.position,
		Velocity:      b.velocity,
		Rotation:      b.rotation,
		Vertices:      b.Vertices(),
		ExternalEdges: b.shape.Boundary(),
		InternalEdges: b.shape.Internal(),
		Render:        b.render,
	}
}
