package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/classload"
	"github.com/fwojciec/classload/schedule"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by all commands. Values come from defaults,
// then the YAML config file, then flags and environment variables.
type Config struct {
	BaseURL     string          `yaml:"base_url"`
	Timeout     time.Duration   `yaml:"timeout"`
	Concurrency int             `yaml:"concurrency"`
	Rate        float64         `yaml:"rate"`
	RetryDelays []time.Duration `yaml:"retry_delays"`
	LogLevel    string          `yaml:"log_level"`
	DBPath      string          `yaml:"db_path"`
	Static      bool            `yaml:"static"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		BaseURL:     schedule.DefaultBaseURL,
		Timeout:     10 * time.Second,
		Concurrency: 1,
		Rate:        schedule.DefaultRate,
		RetryDelays: schedule.DefaultRetryDelays(),
		LogLevel:    "warn",
		DBPath:      defaultDBPath(),
	}
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, classload.Errorf(classload.EINVALID, "invalid config file %s: %v", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate returns an error if the config contains invalid values.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return classload.Errorf(classload.EINVALID, "concurrency must be at least 1")
	}
	if c.Rate <= 0 {
		return classload.Errorf(classload.EINVALID, "rate must be positive")
	}
	if c.Timeout <= 0 {
		return classload.Errorf(classload.EINVALID, "timeout must be positive")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// newLogger returns a text logger on w at the configured level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, classload.Errorf(classload.EINVALID, "invalid log level %q (use debug, info, warn or error)", s)
	}
	return lvl, nil
}

func classloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".classload")
}

func defaultDBPath() string {
	dir := classloadDir()
	if dir == "" {
		return "classload.db"
	}
	return filepath.Join(dir, "classload.db")
}

func defaultConfigPath() string {
	dir := classloadDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
