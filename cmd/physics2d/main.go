package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/physics2d/internal/core/observability/log"
	"github.com/zeusync/physics2d/internal/injector"
)

func main() {
	scene := flag.String("scene", "", "scene file (.yaml or .json); empty runs an empty world")
	steps := flag.Int("steps", 0, "run this many steps without serving, then print the state hash")
	flag.Parse()

	app, err := injector.InitializeApp(injector.ScenePath(*scene))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing:", err)
		os.Exit(1)
	}
	defer func() { _ = app.Logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *steps > 0 {
		if err = app.Runner.RunSteps(ctx, *steps); err != nil {
			app.Logger.Error("headless run failed", log.Error(err))
			os.Exit(1)
		}
		fmt.Printf("%016x\n", app.Engine.StateHash())
		return
	}

	if err = app.Server.Start(ctx); err != nil {
		app.Logger.Error("Error starting server", log.Error(err))
		os.Exit(1)
	}

	if err = app.Runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Error("runner failed", log.Error(err))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err = app.Server.Stop(stopCtx); err != nil {
		app.Logger.Error("Error stopping server", log.Error(err))
	}
}
