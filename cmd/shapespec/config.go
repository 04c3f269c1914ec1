package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/shapespec/pkg/util"
)

const defaultConfigPath = ".shapespec/config.yaml"

// ProjectConfig holds the contents of .shapespec/config.yaml.
type ProjectConfig struct {
	Version        string `yaml:"version"`
	TokensPath     string `yaml:"tokens_path"`
	DimensionsPath string `yaml:"dimensions_path"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	LogFile        string `yaml:"log_file"`
}

// loadProjectConfig reads the config file at path.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// settings are the effective values after applying the fallback chain.
// Empty TokensPath and DimensionsPath select the built-in tables.
type settings struct {
	TokensPath     string
	DimensionsPath string
	LogLevel       util.LogLevel
	LogFormat      util.LogFormat
	LogFile        string
}

// flagValues are the raw persistent flag values; empty means unset.
type flagValues struct {
	Tokens     string
	Dimensions string
	LogLevel   string
	LogFormat  string
	LogFile    string
}

// resolveSettings applies the fallback chain for each setting:
//  1. Explicit flag value (non-empty override)
//  2. Value from .shapespec/config.yaml
//  3. Built-in default
func resolveSettings(flags flagValues, cfg *ProjectConfig) (settings, error) {
	if cfg == nil {
		cfg = &ProjectConfig{}
	}

	level, err := util.ParseLogLevel(firstNonEmpty(flags.LogLevel, cfg.LogLevel))
	if err != nil {
		return settings{}, err
	}
	format, err := util.ParseLogFormat(firstNonEmpty(flags.LogFormat, cfg.LogFormat))
	if err != nil {
		return settings{}, err
	}

	return settings{
		TokensPath:     firstNonEmpty(flags.Tokens, cfg.TokensPath),
		DimensionsPath: firstNonEmpty(flags.Dimensions, cfg.DimensionsPath),
		LogLevel:       level,
		LogFormat:      format,
		LogFile:        firstNonEmpty(flags.LogFile, cfg.LogFile),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
