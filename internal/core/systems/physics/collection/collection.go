// Package collection groups bodies into a tree. A collection is an
// iteration boundary only; it has no physical presence.
package collection

import (
	"errors"
	"fmt"
	"iter"

	"github.com/zeusync/physics2d/internal/core/observability/log"
	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/body"
	"github.com/zeusync/physics2d/internal/core/systems/physics/internal/owner"
	"github.com/zeusync/physics2d/pkg/sequence"
)

// DefaultName is used when a collection is created without a name.
const DefaultName = "World"

var (
	ErrUnknownItem  = errors.New("unrecognised collection item")
	ErrAlreadyOwned = errors.New("item already belongs to a collection")
	ErrCycle        = errors.New("adding collection would create a cycle")
)

// Item is either a body or a collection. Build one with OfBody or pass a
// *Collection directly.
type Item interface {
	item()
}

type bodyItem struct{ b *body.Body }

func (bodyItem) item()    {}
func (*Collection) item() {}

// OfBody wraps a body as an Item.
func OfBody(b *body.Body) Item { return bodyItem{b: b} }

// Bodies wraps several bodies as Items.
func Bodies(bs ...*body.Body) []Item {
	items := make([]Item, len(bs))
	for i, b := range bs {
		items[i] = OfBody(b)
	}
	return items
}

type Option func(*Collection)

// WithLogger sets the logger used to report rejected items.
func WithLogger(l log.Log) Option {
	return func(c *Collection) { c.logger = l }
}

// Collection owns its bodies and child collections. Parent is a handle,
// never followed during simulation.
type Collection struct {
	id          physics.ID
	name        string
	parent      physics.ID
	bodies      []*body.Body
	collections []*Collection
	logger      log.Log
}

// New creates an empty collection with an id drawn from ids.
func New(ids physics.IDSource, name string, opts ...Option) (*Collection, error) {
	if ids == nil {
		return nil, physics.ErrNilIDSource
	}
	if name == "" {
		name = DefaultName
	}
	c := &Collection{
		id:     ids.Next(),
		name:   name,
		parent: physics.NoID,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Collection) ID() physics.ID     { return c.id }
func (c *Collection) Name() string       { return c.name }
func (c *Collection) Parent() physics.ID { return c.parent }

// Add appends each item to the matching list in argument order. Rejected
// items are logged and skipped; the rest are still added. The returned
// error joins every rejection.
func (c *Collection) Add(items ...Item) error {
	var errs error
	for i, it := range items {
		if err := c.add(it); err != nil {
			c.logger.Warn("collection item rejected",
				log.Int64("collection", int64(c.id)),
				log.Int("index", i),
				log.Error(err),
			)
			errs = errors.Join(errs, fmt.Errorf("item %d: %w", i, err))
		}
	}
	return errs
}

func (c *Collection) add(it Item) error {
	switch v := it.(type) {
	case bodyItem:
		if v.b == nil {
			return ErrUnknownItem
		}
		if v.b.Parent() != physics.NoID {
			return fmt.Errorf("%w: body %d", ErrAlreadyOwned, v.b.ID())
		}
		v.b.SetParent(owner.Key{}, c.id)
		c.bodies = append(c.bodies, v.b)
		return nil
	case *Collection:
		if v == nil {
			return ErrUnknownItem
		}
		if v.parent != physics.NoID {
			return fmt.Errorf("%w: collection %d", ErrAlreadyOwned, v.id)
		}
		if v == c || v.contains(c) {
			return fmt.Errorf("%w: collection %d", ErrCycle, v.id)
		}
		v.parent = c.id
		c.collections = append(c.collections, v)
		return nil
	default:
		return ErrUnknownItem
	}
}

func (c *Collection) contains(target *Collection) bool {
	for _, child := range c.collections {
		if child == target || child.contains(target) {
			return true
		}
	}
	return false
}

// Bodies returns a copy of the directly owned bodies.
func (c *Collection) Bodies() []*body.Body {
	return append([]*body.Body(nil), c.bodies...)
}

// Collections returns a copy of the direct children.
func (c *Collection) Collections() []*Collection {
	return append([]*Collection(nil), c.collections...)
}

// All yields every body in the subtree depth-first: a collection's own
// bodies in insertion order, then each child collection in insertion order.
func (c *Collection) All() iter.Seq[*body.Body] {
	return func(yield func(*body.Body) bool) {
		c.walk(yield)
	}
}

func (c *Collection) walk(yield func(*body.Body) bool) bool {
	for _, b := range c.bodies {
		if !yield(b) {
			return false
		}
	}
	for _, child := range c.collections {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// Iter is All as a chainable iterator.
func (c *Collection) Iter() *sequence.Iterator[*body.Body] {
	return sequence.FromSeq(c.All())
}

// AllBodies flattens the subtree in traversal order.
func (c *Collection) AllBodies() []*body.Body {
	return c.Iter().Collect()
}

// Len counts bodies in the subtree.
func (c *Collection) Len() int {
	return c.Iter().Count()
}

// Find resolves a collection handle within the subtree, c included.
func (c *Collection) Find(id physics.ID) (*Collection, bool) {
	if c.id == id {
		return c, true
	}
	for _, child := range c.collections {
		if found, ok := child.Find(id); ok {
			return found, true
		}
	}
	return nil, false
}

// FindBody resolves a body id within the subtree.
func (c *Collection) FindBody(id physics.ID) (*body.Body, bool) {
	return c.Iter().Find(func(b *body.Body) bool { return b.ID() == id })
}

// RemoveBody detaches the body with the given id from wherever it lives in
// the subtree. Remaining order is preserved.
func (c *Collection) RemoveBody(id physics.ID) (*body.Body, bool) {
	for i, b := range c.bodies {
		if b.ID() == id {
			c.bodies = append(c.bodies[:i], c.bodies[i+1:]...)
			b.SetParent(owner.Key{}, physics.NoID)
			return b, true
		}
	}
	for _, child := range c.collections {
		if b, ok := child.RemoveBody(id); ok {
			return b, true
		}
	}
	return nil, false
}

// RemoveCollection detaches a descendant collection with its subtree.
func (c *Collection) RemoveCollection(id physics.ID) (*Collection, bool) {
	for i, child := range c.collections {
		if child.id == id {
			c.collections = append(c.collections[:i], c.collections[i+1:]...)
			child.parent = physics.NoID
			return child, true
		}
		if found, ok := child.RemoveCollection(id); ok {
			return found, true
		}
	}
	return nil, false
}
