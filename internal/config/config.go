package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the wbindicators pipeline configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Batch    BatchConfig    `yaml:"batch"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Topline  ToplineConfig  `yaml:"topline"`
	Combined CombinedConfig `yaml:"combined"`
	Publish  PublishConfig  `yaml:"publish"`
	Cache    CacheConfig    `yaml:"cache"`
	Run      RunConfig      `yaml:"run"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds status server settings.
type HTTPConfig struct {
	Port        int `yaml:"port"` // 0 disables the status server
	ShutdownSec int `yaml:"shutdown_timeout_sec"`
}

// ProviderConfig holds World Bank API settings.
type ProviderConfig struct {
	BaseURL           string  `yaml:"base_url"`
	PortalURL         string  `yaml:"portal_url"`
	UserAgent         string  `yaml:"user_agent"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	PerPage           int     `yaml:"per_page"`
}

// BatchConfig holds the indicator batching budget.
type BatchConfig struct {
	IndicatorLimit    int `yaml:"indicator_limit"`
	CharacterLimit    int `yaml:"character_limit"`
	IndicatorSubtract int `yaml:"indicator_subtract"`
}

// CatalogConfig holds topic catalog filters.
type CatalogConfig struct {
	ExcludedIndicators []string          `yaml:"excluded_indicators"`
	TagMappings        map[string]string `yaml:"tag_mappings"`
	Countries          []string          `yaml:"countries"` // optional ISO3 allow-list
}

// IndicatorRef names an indicator in a data source.
type IndicatorRef struct {
	Code   string `yaml:"code"`
	Source string `yaml:"source"`
}

// ToplineConfig holds topline settings.
type ToplineConfig struct {
	Mode        string         `yaml:"mode"` // derived, query (default: derived)
	Indicators  []IndicatorRef `yaml:"indicators"`
	PostgresDSN string         `yaml:"postgres_dsn"`
}

// HeadlineConfig is one fixed combined-dataset chart.
type HeadlineConfig struct {
	Code  string `yaml:"code"`
	Title string `yaml:"title"`
	Unit  string `yaml:"unit"`
}

// CombinedConfig holds combined dataset settings.
type CombinedConfig struct {
	HeadlineIndicators []HeadlineConfig `yaml:"headline_indicators"`
}

// S3Config holds artifact upload settings. Upload is enabled when Endpoint is set.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"`
}

// Enabled reports whether uploads are configured.
func (c S3Config) Enabled() bool { return c.Endpoint != "" }

// PublishConfig holds artifact output settings.
type PublishConfig struct {
	OutputDir          string   `yaml:"output_dir"`
	DatasetURL         string   `yaml:"dataset_url"`
	QuickChartResource int      `yaml:"quickchart_resource"`
	S3                 S3Config `yaml:"s3"`
}

// CacheConfig holds response cache and progress store settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // memory, valkey, redis, none (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	Size             int      `yaml:"size"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RunConfig holds run driver settings.
type RunConfig struct {
	Workers int    `yaml:"workers"`
	BatchID string `yaml:"batch_id"`
	Resume  bool   `yaml:"resume"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables in data, decodes it, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://api.worldbank.org/"
	}
	if c.Provider.PortalURL == "" {
		c.Provider.PortalURL = "https://data.worldbank.org/"
	}
	if c.Provider.UserAgent == "" {
		c.Provider.UserAgent = "wbindicators"
	}
	if c.Provider.TimeoutSec <= 0 {
		c.Provider.TimeoutSec = 30
	}
	if c.Provider.RequestsPerSecond <= 0 {
		c.Provider.RequestsPerSecond = 5
	}
	if c.Provider.Burst <= 0 {
		c.Provider.Burst = 1
	}
	if c.Provider.PerPage <= 0 {
		c.Provider.PerPage = 10000
	}
	if c.Batch.IndicatorLimit == 0 {
		c.Batch.IndicatorLimit = 60
	}
	if c.Batch.CharacterLimit == 0 {
		c.Batch.CharacterLimit = 1400
	}
	if c.Batch.IndicatorSubtract == 0 {
		c.Batch.IndicatorSubtract = 1
	}
	if c.Topline.Mode == "" {
		c.Topline.Mode = "derived"
	}
	if c.Publish.OutputDir == "" {
		c.Publish.OutputDir = "./output"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = 4096
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Run.Workers <= 0 {
		c.Run.Workers = 1
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Batch.IndicatorLimit <= 0 || c.Batch.CharacterLimit <= 0 || c.Batch.IndicatorSubtract <= 0 {
		return fmt.Errorf("batch limits must be positive, got indicator_limit=%d character_limit=%d indicator_subtract=%d",
			c.Batch.IndicatorLimit, c.Batch.CharacterLimit, c.Batch.IndicatorSubtract)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 0 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Topline.Mode {
	case "derived", "query":
	default:
		return fmt.Errorf("topline.mode must be \"derived\" or \"query\", got %q", c.Topline.Mode)
	}
	for i, ind := range c.Topline.Indicators {
		if ind.Code == "" {
			return fmt.Errorf("topline.indicators[%d].code is required", i)
		}
	}
	if n := len(c.Combined.HeadlineIndicators); n > 3 {
		return fmt.Errorf("combined.headline_indicators allows at most 3 entries, got %d", n)
	}
	for i, h := range c.Combined.HeadlineIndicators {
		if h.Code == "" {
			return fmt.Errorf("combined.headline_indicators[%d].code is required", i)
		}
	}
	if c.Publish.QuickChartResource < 0 {
		return fmt.Errorf("publish.quickchart_resource must not be negative, got %d", c.Publish.QuickChartResource)
	}
	if c.Publish.S3.Enabled() && c.Publish.S3.Bucket == "" {
		return fmt.Errorf("publish.s3.bucket is required when publish.s3.endpoint is set")
	}
	switch c.Cache.Driver {
	case "memory", "none":
	case "valkey", "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be one of memory, valkey, redis, none; got %q", c.Cache.Driver)
	}
	if c.Run.Resume && strings.TrimSpace(c.Run.BatchID) == "" {
		return fmt.Errorf("run.batch_id is required when run.resume is set")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
