package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDSN        = "root:password@tcp(127.0.0.1:3306)/chalkroute?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL   = "redis://localhost:6379/0"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int
	Env            string // "development" | "production"
	DSN            string
	RedisURL       string
	JWTSecret      string
	AllowedOrigins []string
	AI             AIConfig
	Summarizer     SummarizerConfig
}

// AIConfig lists the configured generative model providers and which provider
// serves which concern.
type AIConfig struct {
	Providers    []AIProvider       `yaml:"providers"`
	SummaryModel *AIModelAssignment `yaml:"summary_model"`
	EnrichModel  *AIModelAssignment `yaml:"enrich_model"`
}

// AIProvider describes one generative text model endpoint.
type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // "openai" | "anthropic" | "openai-compatible" | "openrouter"
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// AIModelAssignment pins a concern to a provider (and optionally a model).
type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

// SummarizerConfig bounds the summary generation pipeline.
type SummarizerConfig struct {
	ChunkChars int
	MaxChunks  int
	CacheTTL   time.Duration
}

type rawAppConfig struct {
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"`
	DSN            string   `yaml:"dsn"`
	RedisURL       string   `yaml:"redis_url"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AI             AIConfig `yaml:"ai"`
	Summarizer     struct {
		ChunkChars    int `yaml:"chunk_chars"`
		MaxChunks     int `yaml:"max_chunks"`
		CacheTTLHours int `yaml:"cache_ttl_hours"`
	} `yaml:"summarizer"`
}

// Load reads the YAML config from path, applies environment overrides and
// defaults. A missing file is not an error; env vars and defaults apply.
func Load(path string) (*AppConfig, error) {
	var raw rawAppConfig
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &AppConfig{
		Port:           raw.Port,
		Env:            raw.Env,
		DSN:            raw.DSN,
		RedisURL:       raw.RedisURL,
		JWTSecret:      raw.JWTSecret,
		AllowedOrigins: raw.AllowedOrigins,
		AI:             raw.AI,
		Summarizer: SummarizerConfig{
			ChunkChars: raw.Summarizer.ChunkChars,
			MaxChunks:  raw.Summarizer.MaxChunks,
			CacheTTL:   time.Duration(raw.Summarizer.CacheTTLHours) * time.Hour,
		},
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.Summarizer.ChunkChars <= 0 {
		cfg.Summarizer.ChunkChars = 3500
	}
	if cfg.Summarizer.MaxChunks <= 0 {
		cfg.Summarizer.MaxChunks = 12
	}
	if cfg.Summarizer.CacheTTL <= 0 {
		cfg.Summarizer.CacheTTL = 7 * 24 * time.Hour
	}
}
