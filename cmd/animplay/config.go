package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"gopkg.in/yaml.v2"
)

// Config is the animplay configuration file.
type Config struct {
	LogLevel string  `yaml:"logLevel"`
	TickRate float64 `yaml:"tickRate"`
	Clock    string  `yaml:"clock"`
	Duration string  `yaml:"duration"`
	Profile  bool    `yaml:"profile"`
	Workers  int     `yaml:"workers"`

	Objects []ObjectConfig `yaml:"objects"`
	Clips   []ClipConfig   `yaml:"clips"`

	Mqtt struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"clientID"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		QoS      byte   `yaml:"qos"`
		Topics   struct {
			Pose    string `yaml:"pose"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
}

// ObjectConfig declares one animated object.
type ObjectConfig struct {
	Name         string      `yaml:"name"`
	Position     [3]float32  `yaml:"position"`
	Rotation     *[4]float32 `yaml:"rotation"`
	Scale        *[3]float32 `yaml:"scale"`
	MorphTargets int         `yaml:"morphTargets"`
}

// ClipConfig names a clip file and per-file playback overrides.
type ClipConfig struct {
	Path           string `yaml:"path"`
	Loop           *bool  `yaml:"loop"`
	Autoplay       *bool  `yaml:"autoplay"`
	DurationPolicy string `yaml:"durationPolicy"`
	WeightsPolicy  string `yaml:"weightsPolicy"`
}

func readConfig(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.SetStrict(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	seen := make(map[string]bool, len(c.Objects))
	for i, o := range c.Objects {
		if o.Name == "" {
			return fmt.Errorf("object %d has no name", i)
		}
		if seen[o.Name] {
			return fmt.Errorf("object %q is declared twice", o.Name)
		}
		seen[o.Name] = true
	}
	if _, err := c.runFor(); err != nil {
		return err
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Clock {
	case "", "system", "glfw":
	default:
		return fmt.Errorf("unknown clock %q (want system or glfw)", c.Clock)
	}
	for _, clip := range c.Clips {
		if _, err := clip.options(); err != nil {
			return fmt.Errorf("clip %s: %w", clip.Path, err)
		}
	}
	return nil
}

// runFor is how long to run; zero means until interrupted.
func (c Config) runFor() (time.Duration, error) {
	if c.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Duration)
	if err != nil {
		return 0, fmt.Errorf("bad duration: %w", err)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("bad log level: %w", err)
	}
	return level, nil
}

// options converts the per-file overrides into clip options.
func (c ClipConfig) options() ([]animation.ClipBuilderOption, error) {
	var opts []animation.ClipBuilderOption
	if c.Loop != nil {
		opts = append(opts, animation.WithLoop(*c.Loop))
	}
	if c.Autoplay != nil {
		opts = append(opts, animation.WithAutoplay(*c.Autoplay))
	}
	switch strings.ToLower(c.DurationPolicy) {
	case "", "longest":
	case "first":
		opts = append(opts, animation.WithDurationPolicy(animation.DurationFirstChannel))
	default:
		return nil, fmt.Errorf("unknown duration policy %q", c.DurationPolicy)
	}
	switch strings.ToLower(c.WeightsPolicy) {
	case "", "interpolated":
	case "next":
		opts = append(opts, animation.WithWeightsPolicy(animation.WeightsNextKeyframe))
	default:
		return nil, fmt.Errorf("unknown weights policy %q", c.WeightsPolicy)
	}
	return opts, nil
}
