// Package config loads and validates the wiring and timing configuration
// from YAML.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"ledlife/internal/life"
)

// Defaults match a bare 8x8 common-cathode matrix on a Raspberry Pi header
// with the two buttons on spare pins.
const (
	DefaultChip       = "gpiochip0"
	DefaultPeriod     = time.Second
	DefaultFrameDelay = 4 * time.Millisecond
	DefaultRowHold    = 200 * time.Microsecond
	DefaultDensity    = 0.5
)

// Duration wraps time.Duration so YAML configs can use forms like "250ms";
// yaml.v3 has no native duration support.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return errors.Wrap(err, "duration must be a string like 250ms")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "parsing duration %q", s)
	}
	*d = Duration(v)
	return nil
}

// Config describes the pin wiring and loop timings.
type Config struct {
	Chip       string   `yaml:"chip"`
	RowPins    []int    `yaml:"row_pins"`
	ColPins    []int    `yaml:"col_pins"`
	PausePin   int      `yaml:"pause_pin"`
	StepPin    int      `yaml:"step_pin"`
	Period     Duration `yaml:"period"`
	FrameDelay Duration `yaml:"frame_delay"`
	RowHold    Duration `yaml:"row_hold"`
	Seed       int64    `yaml:"seed"`
	Density    float64  `yaml:"density"`
	Pattern    string   `yaml:"pattern"`
}

// DefaultConfig returns a runnable configuration. Seed zero means "derive
// from the clock at startup"; the original hardware seeded from analog noise
// and the clock is the equivalent here.
func DefaultConfig() *Config {
	return &Config{
		Chip:       DefaultChip,
		RowPins:    []int{2, 3, 4, 17, 27, 22, 10, 9},
		ColPins:    []int{11, 5, 6, 13, 19, 26, 20, 21},
		PausePin:   23,
		StepPin:    24,
		Period:     Duration(DefaultPeriod),
		FrameDelay: Duration(DefaultFrameDelay),
		RowHold:    Duration(DefaultRowHold),
		Density:    DefaultDensity,
	}
}

// Load reads path and overlays it on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating config %s", path)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the wiring and timings are usable.
func (c *Config) Validate() error {
	if c.Chip == "" {
		return errors.New("chip name is empty")
	}
	if len(c.RowPins) != life.Rows {
		return errors.Errorf("need %d row pins, got %d", life.Rows, len(c.RowPins))
	}
	if len(c.ColPins) != life.Cols {
		return errors.Errorf("need %d column pins, got %d", life.Cols, len(c.ColPins))
	}
	seen := map[int]string{}
	check := func(offset int, role string) error {
		if prev, dup := seen[offset]; dup {
			return errors.Errorf("pin %d assigned to both %s and %s", offset, prev, role)
		}
		seen[offset] = role
		return nil
	}
	for _, p := range c.RowPins {
		if err := check(p, "row"); err != nil {
			return err
		}
	}
	for _, p := range c.ColPins {
		if err := check(p, "column"); err != nil {
			return err
		}
	}
	if err := check(c.PausePin, "pause button"); err != nil {
		return err
	}
	if err := check(c.StepPin, "step button"); err != nil {
		return err
	}
	if c.Period <= 0 {
		return errors.New("period must be positive")
	}
	if c.FrameDelay <= 0 {
		return errors.New("frame_delay must be positive")
	}
	if c.RowHold < 0 {
		return errors.New("row_hold must not be negative")
	}
	if c.Density < 0 || c.Density > 1 {
		return errors.Errorf("density must be in [0,1], got %f", c.Density)
	}
	if c.Pattern != "" {
		if _, ok := life.Lookup(c.Pattern); !ok {
			return errors.Errorf("unknown pattern %q", c.Pattern)
		}
	}
	return nil
}

// EffectiveSeed resolves the configured seed, substituting the clock when it
// is unset.
func (c *Config) EffectiveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
