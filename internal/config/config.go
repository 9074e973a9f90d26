// Package config provides configuration loading and structs for manabu.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a training run.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Sampling SamplingConfig `yaml:"sampling"`
	Model    ModelConfig    `yaml:"model"`
	Training TrainingConfig `yaml:"training"`
}

// SamplingConfig holds corpus sampling settings.
type SamplingConfig struct {
	MaxWindowSize       int     `yaml:"max_window_size"`
	SubsampleThreshold  float64 `yaml:"subsample_threshold"`
	NegativeMultiplier  int     `yaml:"negative_multiplier"`
	CandidateBufferSize int     `yaml:"candidate_buffer_size"`
}

// ModelConfig holds embedding table settings.
type ModelConfig struct {
	EmbeddingDim int `yaml:"embedding_dim"`
}

// TrainingConfig holds training loop settings.
type TrainingConfig struct {
	BatchSize    int     `yaml:"batch_size"`
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	Prefetch     int     `yaml:"prefetch"`
	Seed         int64   `yaml:"seed"`
}

// Load reads and parses the config file at path and applies defaults.
// Returns an error if the file cannot be read, parsed, or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with every option set to its default value.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Validate checks option ranges. Load calls it after ApplyDefaults, so it
// only fires on explicit bad values in the file.
func Validate(cfg *Config) error {
	if cfg.Sampling.MaxWindowSize < 1 {
		return fmt.Errorf("max_window_size must be >= 1, got %d", cfg.Sampling.MaxWindowSize)
	}
	if cfg.Sampling.SubsampleThreshold <= 0 {
		return fmt.Errorf("subsample_threshold must be positive, got %g", cfg.Sampling.SubsampleThreshold)
	}
	if cfg.Sampling.NegativeMultiplier < 1 {
		return fmt.Errorf("negative_multiplier must be >= 1, got %d", cfg.Sampling.NegativeMultiplier)
	}
	if cfg.Sampling.CandidateBufferSize < 1 {
		return fmt.Errorf("candidate_buffer_size must be >= 1, got %d", cfg.Sampling.CandidateBufferSize)
	}
	if cfg.Model.EmbeddingDim < 1 {
		return fmt.Errorf("embedding_dim must be >= 1, got %d", cfg.Model.EmbeddingDim)
	}
	if cfg.Training.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1, got %d", cfg.Training.BatchSize)
	}
	if cfg.Training.Epochs < 1 {
		return fmt.Errorf("epochs must be >= 1, got %d", cfg.Training.Epochs)
	}
	if cfg.Training.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %g", cfg.Training.LearningRate)
	}
	return nil
}
