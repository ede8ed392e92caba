// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/chuteworks/chute/lib/spool"
)

// DefaultMaxBodyBytes caps capture bodies when a unit does not set
// its own limit.
const DefaultMaxBodyBytes = 1 << 20

// UnitConfig describes one capture endpoint.
type UnitConfig struct {
	// Name selects the unit via the d query parameter. Required,
	// unique across the config.
	Name string `yaml:"name" json:"name"`

	// Secret authenticates captures, either as the final URL path
	// segment or in the X-Chute-Token header. Required; there are
	// no open units.
	Secret string `yaml:"secret" json:"secret"`

	// Out is the output path. Append units name one spool file and
	// must not contain %T; file units must contain %T so each
	// capture gets a distinct path. %% escapes a literal percent.
	Out string `yaml:"out" json:"out"`

	// Append selects spool mode: all captures append to Out under
	// an exclusive lock. When false, each capture writes its own
	// file at the expanded template path.
	Append bool `yaml:"append" json:"append"`

	// ContentType, when set, restricts captures to this exact
	// Content-Type header. Mismatched uploads are rejected with
	// 415 before the body is read.
	ContentType string `yaml:"content_type" json:"content_type"`

	// MaxBodyBytes caps the request body. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes"`

	// Fsync syncs the spool file after every append.
	Fsync bool `yaml:"fsync" json:"fsync"`

	// DisableCompression stores payloads raw regardless of size.
	DisableCompression bool `yaml:"disable_compression" json:"disable_compression"`
}

// maxBodyBytes returns the configured limit or the default.
func (u *UnitConfig) maxBodyBytes() int64 {
	if u.MaxBodyBytes > 0 {
		return u.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

// Config is the capture service configuration: the set of units.
type Config struct {
	Units []UnitConfig `yaml:"units" json:"units"`
}

// LoadConfig reads and validates a unit configuration file. Files
// ending in .json or .jsonc are parsed as JSONC (JSON extended with
// // line comments, /* block comments */, and trailing commas);
// everything else is parsed as YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &config, nil
}

// Validate checks every unit and returns all problems joined into one
// error, so a bad config file reports everything wrong with it in a
// single load instead of one complaint per restart.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Units) == 0 {
		errs = append(errs, errors.New("no units configured"))
	}

	seen := make(map[string]bool, len(c.Units))
	for i, unit := range c.Units {
		// Unnamed units can only be identified by position.
		label := fmt.Sprintf("unit %q", unit.Name)
		if unit.Name == "" {
			label = fmt.Sprintf("units[%d]", i)
			errs = append(errs, fmt.Errorf("%s: name is required", label))
		} else if seen[unit.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate name", label))
		}
		seen[unit.Name] = true

		if unit.Secret == "" {
			errs = append(errs, fmt.Errorf("%s: secret is required", label))
		}

		if unit.Out == "" {
			errs = append(errs, fmt.Errorf("%s: out is required", label))
			continue
		}
		if err := spool.ValidateTemplate(unit.Out); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
			continue
		}
		if unit.Append && spool.ContainsTimeDirective(unit.Out) {
			errs = append(errs, fmt.Errorf("%s: append unit must not use %%T in out (appends target one spool file)", label))
		}
		if !unit.Append && !spool.ContainsTimeDirective(unit.Out) {
			errs = append(errs, fmt.Errorf("%s: out must contain %%T (each capture writes a new file; set append: true to build a spool)", label))
		}

		if unit.MaxBodyBytes < 0 {
			errs = append(errs, fmt.Errorf("%s: max_body_bytes must not be negative", label))
		}
	}

	return errors.Join(errs...)
}
