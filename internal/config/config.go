package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	once     sync.Once
	instance *Config
)

// ComponentConfig holds the network settings for an HTTP listener.
type ComponentConfig struct {
	Protocol string `yaml:"protocol"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Debug    bool   `yaml:"debug"`
}

// SourceConfig describes one museum upstream.
type SourceConfig struct {
	BaseURL     string `yaml:"base_url"`
	IIIFBaseURL string `yaml:"iiif_base_url"`
	PageSize    int    `yaml:"page_size"`
	UseRelay    bool   `yaml:"use_relay"`
}

// HTTPConfig tunes the shared outbound client.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	RateLimitRPS float64       `yaml:"rate_limit_rps"`
	Burst        int           `yaml:"burst"`
}

// SearchConfig holds the artist-search knobs.
type SearchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// SessionConfig controls the in-memory session registry.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// MetricsConfig is the exporter listener.
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// Config is the root of the configuration tree, matching musegate.yaml.
type Config struct {
	Gateway   ComponentConfig `yaml:"gateway"`
	Cleveland SourceConfig    `yaml:"cleveland"`
	Chicago   SourceConfig    `yaml:"chicago"`
	HTTP      HTTPConfig      `yaml:"http"`
	Search    SearchConfig    `yaml:"search"`
	Session   SessionConfig   `yaml:"session"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Default returns the configuration used when a field is absent from the
// YAML file. The upstream URLs and page sizes match what each museum's
// open-access API documents.
func Default() *Config {
	return &Config{
		Gateway: ComponentConfig{Protocol: "http", Host: "0.0.0.0", Port: 8080},
		Cleveland: SourceConfig{
			BaseURL:  "https://openaccess-api.clevelandart.org",
			PageSize: 10,
			UseRelay: true,
		},
		Chicago: SourceConfig{
			BaseURL:     "https://api.artic.edu",
			IIIFBaseURL: "https://www.artic.edu/iiif/2",
			PageSize:    20,
		},
		HTTP:    HTTPConfig{Timeout: 10 * time.Second, RateLimitRPS: 5, Burst: 5},
		Search:  SearchConfig{Debounce: 300 * time.Millisecond},
		Session: SessionConfig{TTL: 30 * time.Minute},
		Metrics: MetricsConfig{Port: 9090},
	}
}

// Load reads and validates a configuration file, filling gaps with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(f, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Cleveland.BaseURL == "" || c.Chicago.BaseURL == "" {
		return fmt.Errorf("both source base URLs are required")
	}
	if c.Cleveland.PageSize < 1 || c.Chicago.PageSize < 1 {
		return fmt.Errorf("page sizes must be >= 1")
	}
	if c.Search.Debounce <= 0 {
		return fmt.Errorf("search debounce must be positive")
	}
	return nil
}

// Get returns the process-wide configuration (singleton). The file path
// comes from MUSEGATE_CONFIG, defaulting to musegate.yaml; a missing file
// falls back to defaults so the gateway can run without any config at all.
func Get() *Config {
	once.Do(func() {
		path := os.Getenv("MUSEGATE_CONFIG")
		if path == "" {
			path = "musegate.yaml"
		}

		cfg, err := Load(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				instance = Default()
				return
			}
			log.Fatalf("[CONFIG ERROR] %v", err)
		}
		instance = cfg
	})
	return instance
}

// Address returns host:port.
func (c ComponentConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FullURL returns protocol://host:port.
func (c ComponentConfig) FullURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}
