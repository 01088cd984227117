// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

// APIConfig points at the remote activation code API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	JWTSecret          string        `yaml:"jwt_secret"`
	TTL                time.Duration `yaml:"ttl"`
	SecureCookie       bool          `yaml:"secure_cookie"`
	CookieDomain       string        `yaml:"cookie_domain"`
	LoginRatePerMinute int           `yaml:"login_rate_per_minute"`
}

type SecurityConfig struct {
	EncryptionKey string `yaml:"encryption_key"`
}

type OfflineConfig struct {
	CacheName string   `yaml:"cache_name"`
	Precache  []string `yaml:"precache"`
	Store     string   `yaml:"store"` // memory|redis
}

// UIConfig selects the console message catalog.
type UIConfig struct {
	Lang string `yaml:"lang"`
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	API      APIConfig      `yaml:"api"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Security SecurityConfig `yaml:"security"`
	Offline  OfflineConfig  `yaml:"offline"`
	UI       UIConfig       `yaml:"ui"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates required fields.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Session.JWTSecret == "" {
		return nil, errors.New("session.jwt_secret is required")
	}
	if cfg.Offline.Store != "memory" && cfg.Offline.Store != "redis" {
		return nil, fmt.Errorf("offline.store must be memory or redis, got %q", cfg.Offline.Store)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	cfg.HTTP.RequestTimeout = normalize(cfg.HTTP.RequestTimeout, 30*time.Second)
	cfg.HTTP.ShutdownGrace = normalize(cfg.HTTP.ShutdownGrace, 10*time.Second)
	cfg.API.Timeout = normalize(cfg.API.Timeout, 15*time.Second)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Session.TTL = normalize(cfg.Session.TTL, 12*time.Hour)
	if cfg.Session.LoginRatePerMinute <= 0 {
		cfg.Session.LoginRatePerMinute = 10
	}
	if cfg.Offline.CacheName == "" {
		cfg.Offline.CacheName = "admin-cache"
	}
	if len(cfg.Offline.Precache) == 0 {
		cfg.Offline.Precache = []string{"/admin.html", "/manifest.json"}
	}
	if cfg.Offline.Store == "" {
		cfg.Offline.Store = "memory"
	}
	if cfg.UI.Lang == "" {
		cfg.UI.Lang = "en"
	}
}

func normalize(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
