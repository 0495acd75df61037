// Package config loads scene files and builds engines from them.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/physics2d/internal/core/systems/physics/body"
	"github.com/zeusync/physics2d/internal/core/systems/physics/engine"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported scene format")
	ErrInvalidScene      = errors.New("invalid scene")
)

// Scene is the full description of a simulation run.
type Scene struct {
	Log    LogConfig      `json:"log" yaml:"log"`
	Server ServerConfig   `json:"server" yaml:"server"`
	Engine EngineConfig   `json:"engine" yaml:"engine"`
	World  CollectionSpec `json:"world" yaml:"world"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type ServerConfig struct {
	Addr string   `json:"addr" yaml:"addr"`
	Tick Duration `json:"tick" yaml:"tick"`
}

type EngineConfig struct {
	Gravity engine.Gravity `json:"gravity" yaml:"gravity"`
	Workers int            `json:"workers" yaml:"workers"`
	// Delta is the simulated time advanced per tick.
	Delta float64 `json:"delta" yaml:"delta"`
}

// CollectionSpec describes a collection and everything it owns.
type CollectionSpec struct {
	Name        string           `json:"name" yaml:"name"`
	Bodies      []BodySpec       `json:"bodies,omitempty" yaml:"bodies,omitempty"`
	Collections []CollectionSpec `json:"collections,omitempty" yaml:"collections,omitempty"`
}

// BodySpec is a body.Config whose unset fields keep body.DefaultConfig
// values when decoded.
type BodySpec body.Config

// UnmarshalYAML re-encodes the node because Node.Decode does not honour
// the outer decoder's KnownFields setting.
func (s *BodySpec) UnmarshalYAML(value *yaml.Node) error {
	raw, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	cfg := body.DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	*s = BodySpec(cfg)
	return nil
}

func (s *BodySpec) UnmarshalJSON(data []byte) error {
	cfg := body.DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return err
	}
	*s = BodySpec(cfg)
	return nil
}

// Duration accepts Go duration strings ("16ms") in YAML and JSON.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns a scene with an empty world and default settings.
func Default() Scene {
	return Scene{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
			Tick: Duration{16 * time.Millisecond},
		},
		Engine: EngineConfig{
			Gravity: engine.DefaultGravity(),
			Delta:   1,
		},
		World: CollectionSpec{Name: "World"},
	}
}

// LoadYAML decodes a scene over the defaults.
func LoadYAML(r io.Reader) (*Scene, error) {
	s := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml scene: %w", err)
	}
	return &s, nil
}

// LoadJSON decodes a scene over the defaults.
func LoadJSON(r io.Reader) (*Scene, error) {
	s := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json scene: %w", err)
	}
	return &s, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Validate checks run settings. Body parameters are validated when the
// world is built.
func (s *Scene) Validate() error {
	if s.Engine.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidScene, s.Engine.Workers)
	}
	if d := s.Engine.Delta; d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: delta must be finite and >= 0, got %v", ErrInvalidScene, d)
	}
	if s.Server.Tick.Duration <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %s", ErrInvalidScene, s.Server.Tick)
	}
	return nil
}
