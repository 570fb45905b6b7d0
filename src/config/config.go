// Package config loads zerv's workflow-level configuration: a .zerv.yml
// carrying default schema/output choices and flow branch-rule overrides,
// read with gopkg.in/yaml.v3 (KnownFields(true), a Load/LoadWithWarnings
// split where warnings are non-fatal and structural errors are fatal).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".zerv.yml"

// Config is the top-level zerv workflow configuration.
type Config struct {
	// Schema is the default named schema (or preset) used when no
	// --schema/--schema-ron flag is given. It is applied as if given by
	// --schema, so it also takes precedence over a schema carried by a
	// piped NV.
	Schema string `yaml:"schema"`

	// OutputFormat is the default --output-format when none is given.
	OutputFormat string `yaml:"output_format"`

	// OutputTemplate is the default --output-template when none is given.
	OutputTemplate string `yaml:"output_template"`

	// Flow carries the branch-rule preset configuration consumed by the
	// `flow` sub-command's dispatcher (src/flowpolicy).
	Flow FlowConfig `yaml:"flow"`
}

// FlowConfig configures the `flow` sub-command's branch-rule dispatch.
type FlowConfig struct {
	// Rules maps a branch-rule preset name ("main", "develop",
	// "release/*", "feature/*", "hotfix/*") to an override bundle. Unset
	// entries fall back to the built-in defaults in src/flowpolicy.
	Rules map[string]BranchRule `yaml:"rules"`
}

// BranchRule is one named branch-rule preset: the bundle of overrides
// src/flowpolicy feeds into the override/bump resolver once a branch
// name has been matched against it.
type BranchRule struct {
	Match            string `yaml:"match"` // glob against the branch name
	PreReleaseLabel  string `yaml:"pre_release_label"`
	ResetDistance    bool   `yaml:"reset_distance"`
	BumpDev          bool   `yaml:"bump_dev"`
	BumpPost         bool   `yaml:"bump_post"`
}

// Load reads configuration from a YAML file. If path is empty, it tries
// the default file. Returns empty defaults if the file doesn't exist.
// Discards validation warnings; use LoadWithWarnings for full diagnostics.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithWarnings(path)
	return cfg, err
}

// LoadWithWarnings reads configuration from a YAML file and returns
// validation warnings alongside the config.
func LoadWithWarnings(path string) (*Config, []string, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil, nil
		}
		return nil, nil, err
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var warnings []string
	if cfg.OutputFormat != "" {
		switch cfg.OutputFormat {
		case "semver", "pep440", "zerv":
		default:
			warnings = append(warnings, fmt.Sprintf("%s: unknown output_format %q, ignoring", path, cfg.OutputFormat))
			cfg.OutputFormat = ""
		}
	}

	return cfg, warnings, nil
}
