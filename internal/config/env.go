package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces environment overrides, e.g. PHYSICS2D_ADDR.
const EnvPrefix = "PHYSICS2D"

// Env holds optional environment overrides. Unset variables leave the
// scene untouched.
type Env struct {
	Addr     *string        `envconfig:"ADDR"`
	Tick     *time.Duration `envconfig:"TICK"`
	Delta    *float64       `envconfig:"DELTA"`
	Workers  *int           `envconfig:"WORKERS"`
	LogLevel *string        `envconfig:"LOG_LEVEL"`
}

// LoadEnv reads overrides from the process environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("read environment: %w", err)
	}
	return env, nil
}

// Apply copies every set override onto s.
func (e Env) Apply(s *Scene) {
	if e.Addr != nil {
		s.Server.Addr = *e.Addr
	}
	if e.Tick != nil {
		s.Server.Tick = Duration{*e.Tick}
	}
	if e.Delta != nil {
		s.Engine.Delta = *e.Delta
	}
	if e.Workers != nil {
		s.Engine.Workers = *e.Workers
	}
	if e.LogLevel != nil {
		s.Log.Level = *e.LogLevel
	}
}
