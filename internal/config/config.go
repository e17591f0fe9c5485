package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultDataDir    = "game_data"
	defaultCatalogURL = "https://db-api.unstable.life"
	defaultAssetURL   = "https://infinity.unstable.life"
	defaultPageSize   = 15
)

// Config holds application configuration.
type Config struct {
	DataDir        string `yaml:"data_dir" env:"FLASHMAN_DATA_DIR"`
	CatalogURL     string `yaml:"catalog_url" env:"FLASHMAN_CATALOG_URL"`
	AssetURL       string `yaml:"asset_url" env:"FLASHMAN_ASSET_URL"`
	CollectionFile string `yaml:"collection_file" env:"FLASHMAN_COLLECTION"`
	PageSize       int    `yaml:"page_size" env:"FLASHMAN_PAGE_SIZE"`

	Cache   CacheConfig   `yaml:"cache"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend string `yaml:"backend" env:"FLASHMAN_CACHE_BACKEND"` // "file" or "sqlite"
	Dir     string `yaml:"dir" env:"FLASHMAN_CACHE_DIR"`
	DBPath  string `yaml:"db_path" env:"FLASHMAN_CACHE_DB"`
}

// AssetsConfig configures the image fetcher.
type AssetsConfig struct {
	Workers int `yaml:"workers" env:"FLASHMAN_ASSET_WORKERS"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Format string `yaml:"format" env:"FLASHMAN_LOG_FORMAT"`
	Level  string `yaml:"level" env:"FLASHMAN_LOG_LEVEL"`
	File   string `yaml:"file" env:"FLASHMAN_LOG_FILE"`
}

// MetricsConfig configures the prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"FLASHMAN_METRICS_ADDR"`
}

// TracingConfig configures span export. An empty endpoint falls back to
// OTEL_EXPORTER_OTLP_ENDPOINT.
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint" env:"FLASHMAN_OTLP_ENDPOINT"`
	Insecure    *bool   `yaml:"insecure" env:"FLASHMAN_OTLP_INSECURE"`
	SampleRatio float64 `yaml:"sample_ratio" env:"FLASHMAN_TRACE_SAMPLE_RATIO"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DataDir:    defaultDataDir,
		CatalogURL: defaultCatalogURL,
		AssetURL:   defaultAssetURL,
		PageSize:   defaultPageSize,
		Cache: CacheConfig{
			Backend: "file",
		},
		Assets: AssetsConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// configPaths returns the list of paths to search for config file.
func configPaths() []string {
	paths := []string{
		".flashman.yaml",
		".flashman.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "flashman", "config.yaml"),
			filepath.Join(home, ".config", "flashman", "config.yml"),
			filepath.Join(home, ".flashman.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env FLASHMAN_CONFIG > search paths > defaults, then
// FLASHMAN_* variables override individual values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("FLASHMAN_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		if err := cfg.applyEnvOverrides(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path from env or fixed search list
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// GetDataDir returns the directory holding images, cache and collection.
func (c *Config) GetDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return defaultDataDir
}

// GetCacheDir returns the response cache directory.
func (c *Config) GetCacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(c.GetDataDir(), "cache")
}

// GetCacheDBPath returns the sqlite cache database path.
func (c *Config) GetCacheDBPath() string {
	if c.Cache.DBPath != "" {
		return c.Cache.DBPath
	}
	return filepath.Join(c.GetDataDir(), "cache.db")
}

// GetCollectionPath returns the path of the collection file.
func (c *Config) GetCollectionPath() string {
	if c.CollectionFile != "" {
		return c.CollectionFile
	}
	return filepath.Join(c.GetDataDir(), "my_games.json")
}

// GetCatalogURL returns the catalog API base URL.
func (c *Config) GetCatalogURL() string {
	if c.CatalogURL != "" {
		return c.CatalogURL
	}
	return defaultCatalogURL
}

// GetAssetURL returns the image host base URL.
func (c *Config) GetAssetURL() string {
	if c.AssetURL != "" {
		return c.AssetURL
	}
	return defaultAssetURL
}

// GetPageSize returns the number of records per page.
func (c *Config) GetPageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return defaultPageSize
}

// GetLogFile returns the log file path, relative paths resolved under the data dir.
func (c *Config) GetLogFile() string {
	if c.Logging.File == "" || filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(c.GetDataDir(), c.Logging.File)
}

// GetTracingEndpoint returns the OTLP endpoint, or "" when tracing is off.
func (c *Config) GetTracingEndpoint() string {
	if c.Tracing.Endpoint != "" {
		return c.Tracing.Endpoint
	}
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
}

// GetTracingInsecure reports whether the collector is reached in plaintext.
// Defaults to true, matching a local collector.
func (c *Config) GetTracingInsecure() bool {
	if c.Tracing.Insecure != nil {
		return *c.Tracing.Insecure
	}
	return true
}
