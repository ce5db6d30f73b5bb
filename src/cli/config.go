// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/installcert/src/internal/handshake"
	"github.com/H0llyW00dzZ/installcert/src/internal/truststore"
)

const (
	// configFileEnv names the environment variable holding the config path.
	configFileEnv = "INSTALLCERT_CONFIG_FILE"
	// proxyEnv supplies a proxy when neither the file nor a flag sets one.
	proxyEnv = "INSTALLCERT_PROXY"

	defaultTimeoutSeconds = 10
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config holds the settings flags fall back to.
//
// It is loaded from a JSON or YAML file named by --config or the
// INSTALLCERT_CONFIG_FILE environment variable, with defaults applied for
// missing or invalid values. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Defaults: Connection and store defaults
	Defaults struct {
		// Timeout: Handshake timeout in seconds
		Timeout int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
		// Passphrase: Trust store passphrase when none is given on the command line
		Passphrase string `json:"passphrase" yaml:"passphrase"`
		// Port: Port used when the target has none
		Port int `json:"port" yaml:"port"`
	} `json:"defaults" yaml:"defaults"`

	// TrustStore: Where to read and write certificates
	TrustStore struct {
		// Path: Store to load; empty means the standard search order
		Path string `json:"path,omitempty" yaml:"path,omitempty"`
		// Output: Store to write
		Output string `json:"output,omitempty" yaml:"output,omitempty"`
	} `json:"trustStore" yaml:"trustStore"`

	// Proxy: host:port or URL of an HTTP CONNECT or SOCKS5 proxy
	Proxy string `json:"proxy,omitempty" yaml:"proxy,omitempty"`
}

// detectConfigFormat determines the configuration file format based on file
// extension, case-insensitively. Anything but .yaml/.yml is read as JSON.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// loadConfig loads the configuration from a JSON or YAML file or applies defaults.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//
// Returns:
//   - A pointer to the loaded Config struct with defaults applied
//   - An error if the configuration file cannot be read or parsed
//
// Configuration Priority:
//  1. Default values are set
//  2. INSTALLCERT_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (invalid values are reset)
//  4. INSTALLCERT_PROXY fills in the proxy if still unset
//
// Command-line flags are applied on top by the caller.
func loadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	if configPath == "" {
		configPath = os.Getenv(configFileEnv)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		format := detectConfigFormat(configPath)
		if err := unmarshalConfig(data, config, format); err != nil {
			return nil, err
		}

		// Validate and set defaults for invalid values
		if config.Defaults.Timeout <= 0 {
			config.Defaults.Timeout = defaultTimeoutSeconds
		}
		if config.Defaults.Port <= 0 || config.Defaults.Port > 65535 {
			config.Defaults.Port = handshake.DefaultPort
		}
		if config.Defaults.Passphrase == "" {
			config.Defaults.Passphrase = truststore.DefaultPassphrase
		}
		if config.TrustStore.Output == "" {
			config.TrustStore.Output = truststore.DefaultOutput
		}
	}

	if config.Proxy == "" {
		config.Proxy = os.Getenv(proxyEnv)
	}

	return config, nil
}

func defaultConfig() *Config {
	config := &Config{}
	config.Defaults.Timeout = defaultTimeoutSeconds
	config.Defaults.Passphrase = truststore.DefaultPassphrase
	config.Defaults.Port = handshake.DefaultPort
	config.TrustStore.Output = truststore.DefaultOutput
	return config
}
