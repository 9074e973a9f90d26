package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Sampling.MaxWindowSize == 0 {
		cfg.Sampling.MaxWindowSize = 5
	}
	if cfg.Sampling.SubsampleThreshold == 0 {
		cfg.Sampling.SubsampleThreshold = 1e-4
	}
	if cfg.Sampling.NegativeMultiplier == 0 {
		cfg.Sampling.NegativeMultiplier = 5
	}
	if cfg.Sampling.CandidateBufferSize == 0 {
		cfg.Sampling.CandidateBufferSize = 100000
	}
	if cfg.Model.EmbeddingDim == 0 {
		cfg.Model.EmbeddingDim = 100
	}
	if cfg.Training.BatchSize == 0 {
		cfg.Training.BatchSize = 512
	}
	if cfg.Training.Epochs == 0 {
		cfg.Training.Epochs = 5
	}
	if cfg.Training.LearningRate == 0 {
		cfg.Training.LearningRate = 0.025
	}
	if cfg.Training.Prefetch == 0 {
		cfg.Training.Prefetch = 4
	}
	// Seed 0 means derive from the clock at startup.
}
