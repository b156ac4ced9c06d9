// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pc-builder/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Database contains build store configuration
	Database DatabaseConfig `json:"database"`

	// Compatibility contains compatibility service configuration
	Compatibility CompatibilityConfig `json:"compatibility"`

	// Catalog contains catalog configuration
	Catalog CatalogConfig `json:"catalog"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Address is the listen address
	Address string `json:"address"`

	// ReadTimeoutSeconds bounds request reads
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds response writes
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`

	// AllowedOrigins for CORS
	AllowedOrigins []string `json:"allowed_origins"`
}

// DatabaseConfig contains build store settings
type DatabaseConfig struct {
	// DSN is the PostgreSQL connection string; empty selects the in-memory store
	DSN string `json:"dsn"`

	// MaxOpenConns limits the connection pool
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns limits idle pooled connections
	MaxIdleConns int `json:"max_idle_conns"`
}

// CompatibilityConfig contains compatibility service settings
type CompatibilityConfig struct {
	// ServiceURL is the remote validation endpoint; empty selects the built-in rules
	ServiceURL string `json:"service_url"`

	// TimeoutSeconds bounds a single validation request
	TimeoutSeconds int `json:"timeout_seconds"`
}

// CatalogConfig contains catalog settings
type CatalogConfig struct {
	// DataFile is the path to the catalog JSON file
	DataFile string `json:"data_file"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataFile := filepath.Join(homeDir, ".pc-builder", "catalog.json")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Address:             ":8080",
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
			AllowedOrigins:      []string{"*"},
		},
		Database: DatabaseConfig{
			MaxOpenConns: 25,
			MaxIdleConns: 25,
		},
		Compatibility: CompatibilityConfig{
			TimeoutSeconds: 10,
		},
		Catalog: CatalogConfig{
			DataFile: dataFile,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
