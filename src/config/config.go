// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// EnvConfigFile names the environment variable consulted when no path is given.
const EnvConfigFile = "BRSSL_BRIDGE_CONFIG"

// Defaults.
const (
	DefaultBufferSize  = native.BufSizeBidi
	DefaultSessionSize = 32
	DefaultLogFormat   = "text"
)

// ErrInvalidConfig indicates a document that does not match the schema.
var ErrInvalidConfig = errors.New("config: invalid configuration")

//go:embed schema.json
var schemaJSON string

// format represents supported configuration file formats.
type format int

const (
	// formatJSON represents JSON configuration format (.json)
	formatJSON format = iota
	// formatYAML represents YAML configuration format (.yaml, .yml)
	formatYAML
)

// Config represents the brssl-bridge configuration structure.
type Config struct {
	// Heap: Host heap settings
	Heap struct {
		// LimitBytes: Maximum live bytes on the host heap (0 = unlimited)
		LimitBytes int64 `json:"limitBytes" yaml:"limitBytes"`
	} `json:"heap" yaml:"heap"`

	// Engine: Client engine settings
	Engine struct {
		// BufferSize: Size of the bidirectional I/O buffer bound to each engine
		BufferSize int `json:"bufferSize" yaml:"bufferSize"`
		// ServerName: Default server name sent on reset
		ServerName string `json:"serverName,omitempty" yaml:"serverName,omitempty"`
	} `json:"engine" yaml:"engine"`

	// Sessions: Session resumption cache settings
	Sessions struct {
		// MaxSize: Maximum cached sessions
		MaxSize int `json:"maxSize" yaml:"maxSize"`
		// MaxAge: Seconds a cached session stays usable (0 = no expiry)
		MaxAge int `json:"maxAgeSeconds,omitempty" yaml:"maxAgeSeconds,omitempty"`
	} `json:"sessions" yaml:"sessions"`

	// Log: Logging settings
	Log struct {
		// Format: "text" for human output, "json" for structured output
		Format string `json:"format" yaml:"format"`
		// Debug: Enable lifecycle debug events from the host and bridge
		Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
	} `json:"log" yaml:"log"`
}

// SessionMaxAge returns the session lifetime as a duration.
func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Sessions.MaxAge) * time.Second
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.Engine.BufferSize = DefaultBufferSize
	c.Sessions.MaxSize = DefaultSessionSize
	c.Log.Format = DefaultLogFormat
	return c
}

// detectFormat determines the configuration file format based on file extension.
// Matching is case-insensitive; anything other than .yaml or .yml is JSON.
func detectFormat(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// validate checks a document against the embedded schema.
//
// Parameters:
//   - data: Raw configuration file contents
//   - f: The document format
//
// Returns:
//   - error: A parse error, or [ErrInvalidConfig] listing every schema violation
//
// YAML documents are decoded to a generic tree first so both formats are
// validated by the same schema.
func validate(data []byte, f format) error {
	var doc gojsonschema.JSONLoader
	switch f {
	case formatYAML:
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
		if tree == nil {
			tree = map[string]any{}
		}
		doc = gojsonschema.NewGoLoader(tree)
	default:
		doc = gojsonschema.NewBytesLoader(data)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schemaJSON), doc)
	if err != nil {
		return fmt.Errorf("failed to parse JSON config file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return nil
}

// unmarshal decodes a validated document into c.
func unmarshal(data []byte, c *Config, f format) error {
	switch f {
	case formatYAML:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// normalize resets out-of-range values to their defaults.
func (c *Config) normalize() {
	if c.Heap.LimitBytes < 0 {
		c.Heap.LimitBytes = 0
	}
	if c.Engine.BufferSize <= 0 {
		c.Engine.BufferSize = DefaultBufferSize
	}
	if c.Sessions.MaxSize <= 0 {
		c.Sessions.MaxSize = DefaultSessionSize
	}
	if c.Sessions.MaxAge < 0 {
		c.Sessions.MaxAge = 0
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Load loads configuration from a JSON or YAML file or applies defaults.
//
// Parameters:
//   - path: Path to the configuration file (optional, can be empty)
//     Supported formats: .json, .yaml, .yml
//
// Returns:
//   - A pointer to the loaded Config struct with defaults applied
//   - An error if the file cannot be read, parsed or validated
//
// Configuration Priority:
//  1. Default values are set
//  2. BRSSL_BRIDGE_CONFIG environment variable is checked if path is empty
//  3. Config file values override defaults (if a path is known)
//  4. Invalid values are reset to their defaults
func Load(path string) (*Config, error) {
	c := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f := detectFormat(path)
	if err := validate(data, f); err != nil {
		return nil, err
	}
	if err := unmarshal(data, c, f); err != nil {
		return nil, err
	}

	c.normalize()
	return c, nil
}
