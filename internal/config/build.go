package config

import (
	"fmt"

	"github.com/zeusync/physics2d/internal/core/observability/log"
	"github.com/zeusync/physics2d/internal/core/systems/physics"
	"github.com/zeusync/physics2d/internal/core/systems/physics/body"
	"github.com/zeusync/physics2d/internal/core/systems/physics/collection"
	"github.com/zeusync/physics2d/internal/core/systems/physics/engine"
)

// Build validates s and constructs its engine and world.
func Build(s *Scene, logger log.Log) (*engine.Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ids := physics.NewIDAllocator()
	world, err := collection.New(ids, s.World.Name, collection.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	e, err := engine.New(
		engine.WithIDs(ids),
		engine.WithGravity(s.Engine.Gravity),
		engine.WithWorkers(s.Engine.Workers),
		engine.WithLogger(logger),
		engine.WithWorld(world),
	)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	if err = populate(e.World(), s.World, ids, logger, e.World().Name()); err != nil {
		return nil, err
	}

	logger.Info("scene built",
		log.Int("bodies", e.World().Len()),
		log.Int("workers", s.Engine.Workers),
	)
	return e, nil
}

func populate(c *collection.Collection, spec CollectionSpec, ids physics.IDSource, logger log.Log, path string) error {
	for i, bs := range spec.Bodies {
		b, err := body.New(ids, body.Config(bs))
		if err != nil {
			return fmt.Errorf("%w: %s/bodies[%d]: %w", ErrInvalidScene, path, i, err)
		}
		if err = c.Add(collection.OfBody(b)); err != nil {
			return err
		}
	}
	for i, cs := range spec.Collections {
		child, err := collection.New(ids, cs.Name, collection.WithLogger(logger))
		if err != nil {
			return err
		}
		if err = populate(child, cs, ids, logger, fmt.Sprintf("%s/collections[%d]", path, i)); err != nil {
			return err
		}
		if err = c.Add(child); err != nil {
			return err
		}
	}
	return nil
}
