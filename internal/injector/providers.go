// Package injector wires a runnable simulation from a scene file.
package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/physics2d/internal/config"
	"github.com/zeusync/physics2d/internal/core/observability/log"
	"github.com/zeusync/physics2d/internal/core/systems/physics/engine"
	"github.com/zeusync/physics2d/internal/server"
)

// ScenePath is the scene file to load. Empty means the default scene.
type ScenePath string

// App is everything a running simulation needs.
type App struct {
	Scene  *config.Scene
	Logger *log.Logger
	Engine *engine.Engine
	Server *server.Server
	Runner *engine.Runner
}

var ProviderSet = wire.NewSet(
	ProvideScene,
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideEngine,
	ProvideServer,
	ProvideRunner,
	NewApp,
)

// ProvideScene loads the scene and applies environment overrides.
func ProvideScene(path ScenePath) (*config.Scene, error) {
	var (
		scene *config.Scene
		err   error
	)
	if path == "" {
		def := config.Default()
		scene = &def
	} else if scene, err = config.LoadFile(string(path)); err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}

	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	env.Apply(scene)

	if err = scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}

func ProvideLogger(scene *config.Scene) (*log.Logger, error) {
	level, err := log.ParseLevel(scene.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideEngine(scene *config.Scene, logger log.Log) (*engine.Engine, error) {
	return config.Build(scene, logger)
}

func ProvideServer(scene *config.Scene, logger log.Log) *server.Server {
	cfg := server.DefaultConfig()
	cfg.Addr = scene.Server.Addr
	return server.New(cfg, logger)
}

// ProvideRunner feeds every step's snapshot to the server.
func ProvideRunner(scene *config.Scene, e *engine.Engine, srv *server.Server, logger log.Log) *engine.Runner {
	return engine.NewRunner(e, scene.Server.Tick.Duration, scene.Engine.Delta, func(snap engine.Snapshot) {
		if err := srv.Publish(snap); err != nil {
			logger.Warn("publish snapshot failed", log.Error(err))
		}
	})
}

func NewApp(scene *config.Scene, logger *log.Logger, e *engine.Engine, srv *server.Server, r *engine.Runner) *App {
	return &App{Scene: scene, Logger: logger, Engine: e, Server: srv, Runner: r}
}
