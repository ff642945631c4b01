// Package config resolves the tool's configuration from defaults, an
// optional TOML file, and environment variables, in that order of
// precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/alnah/yt-transcript/internal/chunk"
	"github.com/alnah/yt-transcript/internal/clean"
	"github.com/alnah/yt-transcript/internal/usage"
)

// ErrInvalidChunkSize indicates a non-positive configured chunk size.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Config holds the resolved configuration for one run.
type Config struct {
	APIKey          string `env:"OPENAI_API_KEY"`
	FastModel       string `env:"YT_TRANSCRIPT_FAST_MODEL"`
	CapableModel    string `env:"YT_TRANSCRIPT_CAPABLE_MODEL"`
	ChunkSize       int    `env:"YT_TRANSCRIPT_CHUNK_SIZE"`
	MaxOutputTokens int    `env:"YT_TRANSCRIPT_MAX_OUTPUT_TOKENS"`
	OutputDir       string `env:"YT_TRANSCRIPT_OUTPUT_DIR"`

	Pricing usage.Pricing `env:"-"`
}

// fileConfig mirrors the optional config.toml. Zero values mean "not set".
type fileConfig struct {
	OutputDir string `toml:"output_dir"`
	ChunkSize int    `toml:"chunk_size"`

	Models struct {
		Fast            string `toml:"fast"`
		Capable         string `toml:"capable"`
		MaxOutputTokens int    `toml:"max_output_tokens"`
	} `toml:"models"`

	Pricing struct {
		FastInputPerMTok     float64 `toml:"fast_input_per_mtok"`
		FastOutputPerMTok    float64 `toml:"fast_output_per_mtok"`
		CapableInputPerMTok  float64 `toml:"capable_input_per_mtok"`
		CapableOutputPerMTok float64 `toml:"capable_output_per_mtok"`
	} `toml:"pricing"`
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/yt-transcript.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "yt-transcript"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "yt-transcript"), nil
}

// StatePath returns the path of the resume-state database.
func StatePath() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "state.db"), nil
}

// Load resolves the configuration. A missing config file is not an error;
// a malformed one is.
func Load() (Config, error) {
	cfg := defaults()

	d, err := dir()
	if err != nil {
		return cfg, err
	}
	if err := applyFile(&cfg, filepath.Join(d, "config.toml")); err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}

	if cfg.ChunkSize <= 0 {
		return cfg, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, cfg.ChunkSize)
	}

	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	return cfg, nil
}

func defaults() Config {
	return Config{
		FastModel:       clean.DefaultFastModel,
		CapableModel:    clean.DefaultCapableModel,
		ChunkSize:       chunk.DefaultMaxWords,
		MaxOutputTokens: clean.DefaultMaxOutputTokens,
		OutputDir:       "~/transcripts",
		Pricing:         usage.DefaultPricing,
	}
}

// applyFile overlays config.toml values onto cfg. Only set (non-zero)
// values override.
func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.ChunkSize != 0 {
		cfg.ChunkSize = fc.ChunkSize
	}
	if fc.Models.Fast != "" {
		cfg.FastModel = fc.Models.Fast
	}
	if fc.Models.Capable != "" {
		cfg.CapableModel = fc.Models.Capable
	}
	if fc.Models.MaxOutputTokens != 0 {
		cfg.MaxOutputTokens = fc.Models.MaxOutputTokens
	}
	if fc.Pricing.FastInputPerMTok != 0 {
		cfg.Pricing.FastInputPerMTok = fc.Pricing.FastInputPerMTok
	}
	if fc.Pricing.FastOutputPerMTok != 0 {
		cfg.Pricing.FastOutputPerMTok = fc.Pricing.FastOutputPerMTok
	}
	if fc.Pricing.CapableInputPerMTok != 0 {
		cfg.Pricing.CapableInputPerMTok = fc.Pricing.CapableInputPerMTok
	}
	if fc.Pricing.CapableOutputPerMTok != 0 {
		cfg.Pricing.CapableOutputPerMTok = fc.Pricing.CapableOutputPerMTok
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}
