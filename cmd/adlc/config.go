package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// projectConfig is the shape of the optional adlc.config.yaml file:
// project-wide defaults that CLI flags override. Absence of the file is
// not an error; every field simply keeps its documented flag default.
type projectConfig struct {
	Format struct {
		Default        string `yaml:"default"`
		IndentSize     int    `yaml:"indent"`
		MaxLineLength  int    `yaml:"maxLineLength"`
		TrailingCommas bool   `yaml:"trailingCommas"`
	} `yaml:"format"`
	Lint struct {
		Severity string   `yaml:"severity"`
		Rules    []string `yaml:"rules"`
	} `yaml:"lint"`
}

const configFileName = "adlc.config.yaml"

// loadProjectConfig reads adlc.config.yaml from the current directory. A
// missing file returns a zero-value config, not an error; a malformed one
// does, since a present-but-broken config is a user mistake worth
// surfacing rather than silently ignoring.
func loadProjectConfig() (projectConfig, error) {
	var cfg projectConfig
	data, err := os.ReadFile(configFileName)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", configFileName, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", configFileName, err)
	}
	return cfg, nil
}
