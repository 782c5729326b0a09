// Package config loads the optional per-user YAML configuration and
// the pattern list files referenced by flags. Flag values always win
// over file values.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds persistent user preferences. Every field has a flag
// equivalent; the file just saves retyping them.
type Config struct {
	Trust            []string `yaml:"trust"`
	ExcludeProcesses []string `yaml:"exclude_processes"`
	NoDefaultTrust   bool     `yaml:"no_default_trust"`
	Monitor          int      `yaml:"monitor"`
	Verbose          bool     `yaml:"verbose"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "wingather", "config.yaml")
}

// Load reads the config file at path. A missing file is not an error;
// it yields the zero config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ReadPatternFile reads a trust or exclusion list: one pattern per
// line, blank lines and #-comments skipped.
func ReadPatternFile(path string) ([]string, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
