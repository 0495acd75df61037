package engine

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/body"
)

// Snapshot is a detached copy of the world, valid until the next step.
type Snapshot struct {
	Engine  physics.ID      `json:"engine"`
	Run     string          `json:"run"`
	Timing  Timing          `json:"timing"`
	Gravity Gravity         `json:"gravity"`
	Hash    uint64          `json:"hash"`
	Bodies  []body.Snapshot `json:"bodies"`
}

func (e *Engine) Snapshot() Snapshot {
	bodies := e.world.AllBodies()
	out := Snapshot{
		Engine:  e.id,
		Run:     e.runID.String(),
		Timing:  e.timing,
		Gravity: e.gravity,
		Hash:    stateHash(bodies),
		Bodies:  make([]body.Snapshot, len(bodies)),
	}
	for i, b := range bodies {
		out.Bodies[i] = b.Snapshot()
	}
	return out
}

// StateHash digests the kinematic state of every body in traversal
// order. Two worlds built and stepped identically hash identically.
func (e *Engine) StateHash() uint64 {
	return stateHash(e.world.AllBodies())
}

func stateHash(bodies []*body.Body) uint64 {
	h := xxhash.New()
	var buf [8]byte
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	for _, b := range bodies {
		binary.LittleEndian.PutUint64(buf[:], uint64(b.ID()))
		_, _ = h.Write(buf[:])
		p, pp := b.Position(), b.PositionPrev()
		put(p.X)
		put(p.Y)
		put(pp.X)
		put(pp.Y)
		put(b.Rotation())
		put(b.AngularVelocity())
	}
	return h.Sum64()
}
