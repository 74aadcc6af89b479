package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the gallerysrc configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Site    SiteConfig    `yaml:"site"`
	Source  SourceConfig  `yaml:"source"`
	Cache   CacheConfig   `yaml:"cache"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SiteConfig describes the remote gallery site.
type SiteConfig struct {
	BaseURL           string  `yaml:"base_url"`
	LTNURL            string  `yaml:"ltn_url"`
	UserAgent         string  `yaml:"user_agent"`
	RequestTimeoutSec int     `yaml:"request_timeout_sec"`
	RateLimitRPS      float64 `yaml:"rate_limit_rps"` // 0 = unlimited
	RateLimitBurst    int     `yaml:"rate_limit_burst"`
}

// SourceConfig tunes the source core.
type SourceConfig struct {
	HighQualityThumbnails bool `yaml:"high_quality_thumbnails"`
	FetchConcurrency      int  `yaml:"fetch_concurrency"`
	VersionTTLSec         int  `yaml:"version_ttl_sec"`
	ScriptTimeoutSec      int  `yaml:"script_timeout_sec"`
}

// CacheConfig holds the optional term lookup cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// VersionTTL returns the index version TTL as a duration.
func (s SourceConfig) VersionTTL() time.Duration { return time.Duration(s.VersionTTLSec) * time.Second }

// ScriptTimeout returns the sandbox evaluation budget.
func (s SourceConfig) ScriptTimeout() time.Duration {
	return time.Duration(s.ScriptTimeoutSec) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout.
func (s SiteConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// Default returns a validated configuration with every default applied.
// Commands that talk to the site directly use it when no config file exists.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = "https://hitomi.la"
	}
	if c.Site.LTNURL == "" {
		c.Site.LTNURL = "https://ltn.hitomi.la"
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	c.Site.LTNURL = strings.TrimRight(c.Site.LTNURL, "/")
	if c.Site.UserAgent == "" {
		c.Site.UserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	}
	if c.Site.RequestTimeoutSec <= 0 {
		c.Site.RequestTimeoutSec = 30
	}
	if c.Site.RateLimitBurst <= 0 {
		c.Site.RateLimitBurst = 25
	}
	if c.Source.FetchConcurrency <= 0 {
		c.Source.FetchConcurrency = 25
	}
	if c.Source.VersionTTLSec <= 0 {
		c.Source.VersionTTLSec = 600
	}
	if c.Source.ScriptTimeoutSec <= 0 {
		c.Source.ScriptTimeoutSec = 5
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	for name, raw := range map[string]string{"site.base_url": c.Site.BaseURL, "site.ltn_url": c.Site.LTNURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.Site.RateLimitRPS < 0 {
		return fmt.Errorf("site.rate_limit_rps must not be negative, got %v", c.Site.RateLimitRPS)
	}
	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "valkey", "redis":
			// ok
		default:
			return fmt.Errorf("cache.driver must be \"valkey\" or \"redis\", got %q", c.Cache.Driver)
		}
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required when cache.enabled")
		}
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

// Exists reports whether a config file for env can be found.
func Exists(env string) bool { return fileExists(findConfigPath(env)) }

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
