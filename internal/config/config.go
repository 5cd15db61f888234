// Package config loads client configuration from ~/.convive/config.yaml,
// with environment overrides for credentials. A missing file yields
// defaults; invalid yaml is an error.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/convive/convive/internal/notify"
)

// DefaultConfirmExpiry is the confirmation window applied when the config
// file does not set one.
const DefaultConfirmExpiry = 4 * time.Second

// Config holds all client configuration.
type Config struct {
	BaseURL       string                 `yaml:"base_url"`
	Token         string                 `yaml:"token"`
	ConfirmExpiry time.Duration          `yaml:"confirm_expiry"`
	HistoryLog    string                 `yaml:"history_log"`
	Webhooks      []notify.WebhookConfig `yaml:"webhooks"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:       "https://api.convive.app",
		ConfirmExpiry: DefaultConfirmExpiry,
		HistoryLog:    defaultHistoryPath(),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "convive-config.yaml")
	}
	return filepath.Join(home, ".convive", "config.yaml")
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "convive-history.jsonl")
	}
	return filepath.Join(home, ".convive", "history.jsonl")
}

// Load reads configuration from the given path. Empty path falls back to
// DefaultPath. Missing file returns defaults. Environment overrides
// (CONVIVE_TOKEN, CONVIVE_BASE_URL, and a .env file in the working
// directory) are applied last.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithHash(path)
	return cfg, err
}

// LoadWithHash additionally returns a sha256 of the raw config bytes, used
// to report which configuration produced a transition. The hash of the
// default config is "default".
func LoadWithHash(path string) (*Config, string, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	hash := "default"

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return nil, "", fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, "", fmt.Errorf("config: parse %s: %w", path, err)
		}
		sum := sha256.Sum256(data)
		hash = "sha256:" + hex.EncodeToString(sum[:])
	}

	if cfg.ConfirmExpiry <= 0 {
		cfg.ConfirmExpiry = DefaultConfirmExpiry
	}
	if cfg.HistoryLog == "" {
		cfg.HistoryLog = defaultHistoryPath()
	}

	applyEnv(cfg)
	return cfg, hash, nil
}

// applyEnv layers .env and process environment over the file config.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	if v := os.Getenv("CONVIVE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CONVIVE_TOKEN"); v != "" {
		cfg.Token = v
	}
}
