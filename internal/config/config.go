// Package config loads the game settings file. Missing fields keep their
// defaults, so a config only needs the values it changes.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"tireroll/internal/tire"

	"github.com/pkg/errors"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Window struct {
	Width     int32  `json:"width"`
	Height    int32  `json:"height"`
	Title     string `json:"title"`
	TargetFPS int32  `json:"targetFps"`
}

type Tuning struct {
	BlendFactor float32 `json:"blendFactor"`
	YawDamping  float32 `json:"yawDamping"`
	FallFloor   float32 `json:"fallFloor"`
}

// TireOverride replaces catalog values for one tire type. Zero fields keep
// the catalog value.
type TireOverride struct {
	Radius      float32  `json:"radius,omitempty"`
	Width       float32  `json:"width,omitempty"`
	Mass        float32  `json:"mass,omitempty"`
	Friction    float32  `json:"friction,omitempty"`
	Restitution *float32 `json:"restitution,omitempty"`
}

type Config struct {
	Window        Window                  `json:"window"`
	Tuning        Tuning                  `json:"tuning"`
	Tire          string                  `json:"tire"`
	Tires         map[string]TireOverride `json:"tires,omitempty"`
	Level         string                  `json:"level,omitempty"`
	LaunchSpeed   float32                 `json:"launchSpeed"`
	TrailCapacity int                     `json:"trailCapacity"`
	Seed          int64                   `json:"seed"`
}

func Default() Config {
	t := tire.DefaultTuning()
	return Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "Tire Roll",
			TargetFPS: 120,
		},
		Tuning: Tuning{
			BlendFactor: t.BlendFactor,
			YawDamping:  t.YawDamping,
			FallFloor:   t.FallFloor,
		},
		Tire:          tire.Standard.String(),
		LaunchSpeed:   14,
		TrailCapacity: tire.DefaultTrailCapacity,
		Seed:          1,
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(ErrInvalidConfig, "parse %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TargetFPS < 0 {
		return invalid("targetFps %d", c.Window.TargetFPS)
	}
	if c.Tuning.BlendFactor <= 0 || c.Tuning.BlendFactor > 1 {
		return invalid("blendFactor %.3f outside (0,1]", c.Tuning.BlendFactor)
	}
	if c.Tuning.YawDamping < 0 || c.Tuning.YawDamping > 1 {
		return invalid("yawDamping %.3f outside [0,1]", c.Tuning.YawDamping)
	}
	if c.Tuning.FallFloor >= 0 {
		return invalid("fallFloor %.1f must be below 0", c.Tuning.FallFloor)
	}
	if _, err := tire.ParseType(c.Tire); err != nil {
		return invalid("tire %q", c.Tire)
	}
	if c.LaunchSpeed <= 0 {
		return invalid("launchSpeed %.2f", c.LaunchSpeed)
	}
	if c.TrailCapacity < 0 {
		return invalid("trailCapacity %d", c.TrailCapacity)
	}
	if _, err := c.Specs(); err != nil {
		return err
	}
	return nil
}

func (c Config) TireType() tire.Type {
	t, err := tire.ParseType(c.Tire)
	if err != nil {
		return tire.Standard
	}
	return t
}

func (c Config) TireTuning() tire.Tuning {
	return tire.Tuning{
		BlendFactor: c.Tuning.BlendFactor,
		YawDamping:  c.Tuning.YawDamping,
		FallFloor:   c.Tuning.FallFloor,
	}
}

// Specs applies the overrides to the catalog. Only overridden types appear in
// the result.
func (c Config) Specs() (map[tire.Type]tire.Spec, error) {
	specs := make(map[tire.Type]tire.Spec, len(c.Tires))
	for name, o := range c.Tires {
		t, err := tire.ParseType(name)
		if err != nil {
			return nil, invalid("tires: %q is not a tire type", name)
		}
		spec, _ := tire.SpecFor(t)
		if o.Radius != 0 {
			spec.Radius = o.Radius
		}
		if o.Width != 0 {
			spec.Width = o.Width
		}
		if o.Mass != 0 {
			spec.Mass = o.Mass
		}
		if o.Friction != 0 {
			spec.Friction = o.Friction
		}
		if o.Restitution != nil {
			spec.Restitution = *o.Restitution
		}
		if err := spec.Validate(); err != nil {
			return nil, invalid("tires.%s: %v", strings.ToLower(name), err)
		}
		if spec.Friction < 0 || spec.Restitution < 0 || spec.Restitution > 1 {
			return nil, invalid("tires.%s: friction %.2f restitution %.2f", strings.ToLower(name), spec.Friction, spec.Restitution)
		}
		specs[t] = spec
	}
	return specs, nil
}
