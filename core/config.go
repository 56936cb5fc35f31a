// Package core provides the fundamental building blocks of the peneira
// data-access layer. This file defines the compile-mode policy and the
// YAML-backed configuration used to wire drivers and select that policy.
package core

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CompileMode selects how drivers treat operators they do not recognize.
//
// The lenient mode preserves the original availability-over-validation
// behavior: an unknown operator degrades to an inert equality match instead
// of rejecting the whole request. The strict mode turns the same situation
// into ErrUnknownOperator, for callers that prefer a typo to fail loudly.
type CompileMode string

const (
	// ModeLenient passes unrecognized operators through as equality matches.
	ModeLenient CompileMode = "lenient"
	// ModeStrict fails compilation on unrecognized operators.
	ModeStrict CompileMode = "strict"
)

// ErrUnknownOperator is returned by drivers compiling in strict mode when a
// condition carries an operator outside the supported set.
var ErrUnknownOperator = errors.New("unknown filter operator")

// Config holds the runtime configuration of the data-access layer.
//
// It is loaded from a YAML document and can be overridden through the
// PENEIRA_MODE, PENEIRA_MONGO_URI and PENEIRA_POSTGRES_DSN environment
// variables, so deployments can retarget drivers without editing files.
type Config struct {
	// Mode selects the lenient or strict compile policy. Empty means lenient.
	Mode CompileMode `yaml:"mode"`

	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`

	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
}

// LoadConfig reads and validates a Config from the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	config.applyEnv()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if mode := os.Getenv("PENEIRA_MODE"); mode != "" {
		c.Mode = CompileMode(mode)
	}
	if uri := os.Getenv("PENEIRA_MONGO_URI"); uri != "" {
		c.Mongo.URI = uri
	}
	if dsn := os.Getenv("PENEIRA_POSTGRES_DSN"); dsn != "" {
		c.Postgres.DSN = dsn
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case "", ModeLenient:
		c.Mode = ModeLenient
	case ModeStrict:
	default:
		return fmt.Errorf("config: invalid mode %q (want %q or %q)", c.Mode, ModeLenient, ModeStrict)
	}
	return nil
}
