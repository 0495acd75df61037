package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/physics2d/internal/core/observability/log"
	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/body"
)

func newBodies(t *testing.T, ids physics.IDSource, names ...string) []*body.Body {
	t.Helper()
	out := make([]*body.Body, len(names))
	for i, name := range names {
		cfg := body.DefaultConfig()
		cfg.Name = name
		b, err := body.newCollection(t, ids, cfg)
		require.NoError(t, err)
		out[i] = b
	}
	return out
}

func names(bs []*body.Body) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Name()
	}
	return out
}

func newCollection(t *testing.T, ids physics.IDSource, name string, opts ...Option) *Collection {
	t.Helper()
	c, err := New(ids, name, opts...)
	require.NoError(t, err)
	return c
}

func TestNewDefaults(t *testing.T) {
	c := newCollection(t, physics.NewIDAllocator(), "")
	assert.Equal(t, DefaultName, c.Name())
	assert.Equal(t, physics.ID(0), c.ID())
	assert.Equal(t, physics.NoID, c.Parent())
	assert.Zero(t, c.Len())
}

func TestNewRejectsNilIDSource(t *testing.T) {
	c, err := New(nil, "world")
	assert.ErrorIs(t, err, physics.ErrNilIDSource)
	assert.Nil(t, c)
}

func TestAddClassifiesItems(t *testing.T) {
	ids := physics.NewIDAllocator()
	world := newCollection(t, ids, "world")
	child := newCollection(t, ids, "child")
	bs := newBodies(t, ids, "a", "b")

	require.NoError(t, world.Add(OfBody(bs[0]), child, OfBody(bs[1])))

	assert.Equal(t, []string{"a", "b"}, names(world.Bodies()))
	require.Len(t, world.Collections(), 1)
	assert.Same(t, child, world.Collections()[0])
	assert.Equal(t, world.ID(), bs[0].Parent())
	assert.Equal(t, world.ID(), child.Parent())
}

func TestTraversalOrderIsDepthFirst(t *testing.T) {
	ids := physics.NewIDAllocator()
	world := newCollection(t, ids, "world")
	left := newCollection(t, ids, "left")
	right := newCollection(t, ids, "right")
	deep := newCollection(t, ids, "deep")
	bs := newBodies(t, ids, "w1", "l1", "d1", "r1", "w2", "l2")

	require.NoError(t, deep.Add(OfBody(bs[2])))
	require.NoError(t, left.Add(OfBody(bs[1]), deep, OfBody(bs[5])))
	require.NoError(t, right.Add(OfBody(bs[3])))
	require.NoError(t, world.Add(OfBody(bs[0]), left, right, OfBody(bs[4])))

	want := []string{"w1", "w2", "l1", "l2", "d1", "r1"}
	assert.Equal(t, want, names(world.AllBodies()))
	assert.Equal(t, want, names(world.AllBodies()), "traversal must be repeatable")
	assert.Equal(t, 6, world.Len())
	assert.Equal(t, deep.ID(), bs[2].Parent())
}

func TestRejectedItemsAreReportedAndDropped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ids := physics.NewIDAllocator()
	world := newCollection(t, ids, "world", WithLogger(log.FromZap(zap.New(core), log.LevelDebug)))
	bs := newBodies(t, ids, "ok")

	var nilCollection *Collection
	err := world.Add(nil, OfBody(nil), nilCollection, OfBody(bs[0]))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Equal(t, []string{"ok"}, names(world.Bodies()))
	assert.Empty(t, world.Collections())
	assert.Equal(t, 3, logs.FilterMessage("collection item rejected").Len())
}

func TestOwnershipIsExclusive(t *testing.T) {
	ids := physics.NewIDAllocator()
	a := newCollection(t, ids, "a")
	b := newCollection(t, ids, "b")
	child := newCollection(t, ids, "child")
	bs := newBodies(t, ids, "x")

	require.NoError(t, a.Add(OfBody(bs[0]), child))

	err := b.Add(OfBody(bs[0]))
	assert.ErrorIs(t, err, ErrAlreadyOwned)
	err = b.Add(child)
	assert.ErrorIs(t, err, ErrAlreadyOwned)
	err = a.Add(OfBody(bs[0]))
	assert.ErrorIs(t, err, ErrAlreadyOwned)

	assert.Zero(t, b.Len())
	assert.Equal(t, 1, a.Len())
}

func TestOwnedBodyCannotJoinDescendant(t *testing.T) {
	ids := physics.NewIDAllocator()
	world := newCollection(t, ids, "world")
	inner := newCollection(t, ids, "inner")
	bs := newBodies(t, ids, "x")
	require.NoError(t, world.Add(OfBody(bs[0]), inner))

	assert.ErrorIs(t, inner.Add(OfBody(bs[0])), ErrAlreadyOwned)
	assert.Equal(t, 1, world.Len())
	assert.Equal(t, world.ID(), bs[0].Parent())

	_, ok := world.RemoveBody(bs[0].ID())
	require.True(t, ok)
	require.NoError(t, inner.Add(OfBody(bs[0])))
	assert.Equal(t, 1, world.Len())
	assert.Equal(t, inner.ID(), bs[0].Parent())
}

func TestCyclesRejected(t *testing.T) {
	ids := physics.NewIDAllocator()
	root := newCollection(t, ids, "root")
	mid := newCollection(t, ids, "mid")
	leaf := newCollection(t, ids, "leaf")
	require.NoError(t, root.Add(mid))
	require.NoError(t, mid.Add(leaf))

	assert.ErrorIs(t, root.Add(root), ErrCycle)
	assert.ErrorIs(t, leaf.Add(root), ErrCycle)
	assert.Equal(t, physics.NoID, root.Parent())
}

func TestFind(t *testing.T) {
	ids := physics.NewIDAllocator()
	root := newCollection(t, ids, "root")
	mid := newCollection(t, ids, "mid")
	bs := newBodies(t, ids, "x", "y")
	require.NoError(t, root.Add(mid, OfBody(bs[0])))
	require.NoError(t, mid.Add(OfBody(bs[1])))

	got, ok := root.Find(bs[1].Parent())
	require.True(t, ok)
	assert.Same(t, mid, got)

	got, ok = root.Find(root.ID())
	require.True(t, ok)
	assert.Same(t, root, got)

	_, ok = root.Find(999)
	assert.False(t, ok)

	found, ok := root.FindBody(bs[1].ID())
	require.True(t, ok)
	assert.Same(t, bs[1], found)
}

func TestRemove(t *testing.T) {
	ids := physics.NewIDAllocator()
	root := newCollection(t, ids, "root")
	mid := newCollection(t, ids, "mid")
	bs := newBodies(t, ids, "a", "b", "c", "d")
	require.NoError(t, root.Add(Bodies(bs[0], bs[1], bs[2])...))
	require.NoError(t, mid.Add(OfBody(bs[3])))
	require.NoError(t, root.Add(mid))

	removed, ok := root.RemoveBody(bs[1].ID())
	require.True(t, ok)
	assert.Same(t, bs[1], removed)
	assert.Equal(t, physics.NoID, removed.Parent())
	assert.Equal(t, []string{"a", "c", "d"}, names(root.AllBodies()))

	_, ok = root.RemoveBody(bs[1].ID())
	assert.False(t, ok)

	sub, ok := root.RemoveCollection(mid.ID())
	require.True(t, ok)
	assert.Same(t, mid, sub)
	assert.Equal(t, physics.NoID, mid.Parent())
	assert.Equal(t, []string{"a", "c"}, names(root.AllBodies()))

	require.NoError(t, root.Add(OfBody(removed)), "removed bodies can be re-added")
	assert.Equal(t, []string{"a", "c", "b"}, names(root.AllBodies()))
}

func TestAllStopsEarly(t *testing.T) {
	ids := physics.NewIDAllocator()
	root := newCollection(t, ids, "root")
	child := newCollection(t, ids, "child")
	require.NoError(t, root.Add(Bodies(newBodies(t, ids, "a", "b")...)...))
	require.NoError(t, child.Add(Bodies(newBodies(t, ids, "c")...)...))
	require.NoError(t, root.Add(child))

	var seen []string
	for b := range root.All() {
		seen = append(seen, b.Name())
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}
