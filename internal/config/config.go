package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	DataDir        string `env:"DATA_DIR" envDefault:"./data"`
	ChunkSize      int    `env:"CHUNK_SIZE" envDefault:"700"`
	ChunkOverlap   int    `env:"CHUNK_OVERLAP" envDefault:"150"`
	ChunkMethod    string `env:"CHUNK_METHOD"`
	Separators     string `env:"SEPARATORS" envDefault:"multilingual"`
	SeparatorsFile string `env:"SEPARATORS_FILE"`
	MaxConcurrency int    `env:"MAX_CONCURRENCY" envDefault:"4"`
	ForceReprocess bool   `env:"FORCE_REPROCESS" envDefault:"false"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	MetadataFile   string
}

func Init(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse env: %w", err)
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	// Файл манифеста всегда лежит рядом с результатами
	cfg.MetadataFile = filepath.Join(cfg.DataDir, "manifest.json")
	return nil
}
