// Package config loads and validates training configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	ModelDir        string  `yaml:"model_dir"`
	NumSteps        int     `yaml:"num_steps"`
	LogEvery        int     `yaml:"log_every"`
	InitialStep     int     `yaml:"initial_step"`
	BatchSize       int     `yaml:"batch_size"`
	LatentDim       int     `yaml:"latent_dim"`
	GeneratorLR     float32 `yaml:"generator_lr"`
	DiscriminatorLR float32 `yaml:"discriminator_lr"`
	Seed            int64   `yaml:"seed"`
}

// Defaults returns the default training configuration.
//
// The learning rates follow the BigGAN recipe: the discriminator steps
// four times faster than the generator, both with beta1 = 0.
func Defaults() Config {
	return Config{
		ModelDir:        "runs",
		NumSteps:        10000,
		LogEvery:        100,
		BatchSize:       64,
		LatentDim:       32,
		GeneratorLR:     1e-4,
		DiscriminatorLR: 4e-4,
		Seed:            1,
	}
}

// Load reads a Config from a YAML file, applying defaults for absent keys,
// and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Overrides captures CLI supplied values.
type Overrides struct {
	ModelDir    string
	NumSteps    int
	LogEvery    int
	InitialStep int
	BatchSize   int
	Seed        int64
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.ModelDir != "" {
		c.ModelDir = o.ModelDir
	}
	if o.NumSteps > 0 {
		c.NumSteps = o.NumSteps
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.InitialStep > 0 {
		c.InitialStep = o.InitialStep
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c.ModelDir == "" {
		return fmt.Errorf("model_dir must be set")
	}
	if c.NumSteps <= 0 {
		return fmt.Errorf("num_steps must be > 0 (got %d)", c.NumSteps)
	}
	if c.LogEvery <= 0 {
		return fmt.Errorf("log_every must be > 0 (got %d)", c.LogEvery)
	}
	if c.InitialStep < 0 {
		return fmt.Errorf("initial_step must be >= 0 (got %d)", c.InitialStep)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.LatentDim <= 0 {
		return fmt.Errorf("latent_dim must be > 0 (got %d)", c.LatentDim)
	}
	if c.GeneratorLR <= 0 || c.DiscriminatorLR <= 0 {
		return fmt.Errorf("learning rates must be > 0 (got g=%g d=%g)", c.GeneratorLR, c.DiscriminatorLR)
	}
	return nil
}
