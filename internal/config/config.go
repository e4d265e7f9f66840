package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultCatalogURL is the published price list feed.
const DefaultCatalogURL = "https://raw.githubusercontent.com/getto-dev/price-data/main/catalog.json"

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Catalog feed settings
	Catalog CatalogConfig `yaml:"catalog"`

	// Export settings
	Export ExportConfig `yaml:"export"`

	// Logging settings
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type CatalogConfig struct {
	URL string `yaml:"url"` // Price list feed URL
}

type ExportConfig struct {
	OutputDir string `yaml:"output_dir"` // Directory for exported HTML estimates
}

type LogConfig struct {
	Level string `yaml:"level"` // zerolog level name (debug, info, warn, error)
}

// DefaultConfigPath returns ~/.config/smeta/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "smeta", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "smeta", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir, ".config", "smeta", "smeta.db"),
		},
		Catalog: CatalogConfig{
			URL: DefaultCatalogURL,
		},
		Export: ExportConfig{
			OutputDir: filepath.Join(homeDir, ".config", "smeta", "exports"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse YAML
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (for database, exports, etc.)
func (c *Config) EnsureDirectories() error {
	// Create database directory
	dbDir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	// Create export output directory
	if err := os.MkdirAll(c.Export.OutputDir, 0755); err != nil {
		return err
	}

	return nil
}
