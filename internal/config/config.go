package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	AI        AIConfig        `yaml:"ai"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Mode        string `yaml:"mode"` // debug, release, test
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// AIConfig lists the generation providers in the order they are tried.
type AIConfig struct {
	Providers []LLMProviderConfig `yaml:"providers"`
}

type LLMProviderConfig struct {
	Name        string  `yaml:"name"`
	Provider    string  `yaml:"provider"` // gemini, openai, azure, anthropic, ollama
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// RateLimitConfig holds per-IP limits. Each limiter allows Max requests per
// WindowMinutes.
type RateLimitConfig struct {
	Review LimiterConfig `yaml:"review"`
	Auth   LimiterConfig `yaml:"auth"`
}

type LimiterConfig struct {
	Max           int `yaml:"max"`
	WindowMinutes int `yaml:"window_minutes"`
}

// PerSecond converts the window into a token refill rate.
func (l LimiterConfig) PerSecond() float64 {
	if l.Max <= 0 || l.WindowMinutes <= 0 {
		return 0
	}
	return float64(l.Max) / (float64(l.WindowMinutes) * 60)
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "3000",
			Mode:        "debug",
			Environment: "development",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "codereview.db",
		},
		JWT: JWTConfig{
			Secret:     "codereview-secret-key-change-in-production",
			ExpireHour: 24 * 7,
		},
		AI: AIConfig{
			Providers: []LLMProviderConfig{
				{Name: "gemini", Provider: "gemini", Model: "gemini-2.0-flash-exp", Temperature: 0.3},
			},
		},
		RateLimit: RateLimitConfig{
			Review: LimiterConfig{Max: 10, WindowMinutes: 15},
			Auth:   LimiterConfig{Max: 10, WindowMinutes: 60},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		c.Server.Environment = env
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if hours := os.Getenv("JWT_EXPIRE_HOUR"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			c.JWT.ExpireHour = h
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
	c.overrideAIFromEnv()
}

// overrideAIFromEnv applies AI_* variables to the primary provider. The
// provider-specific key variables fill in a missing api_key for any provider
// of that kind.
func (c *Config) overrideAIFromEnv() {
	if len(c.AI.Providers) == 0 {
		c.AI.Providers = DefaultConfig().AI.Providers
	}
	primary := &c.AI.Providers[0]

	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		primary.Provider = provider
		primary.Name = provider
	}
	if model := os.Getenv("AI_MODEL"); model != "" {
		primary.Model = model
	}
	if baseURL := os.Getenv("AI_BASE_URL"); baseURL != "" {
		primary.BaseURL = baseURL
	}
	if apiKey := os.Getenv("AI_API_KEY"); apiKey != "" {
		primary.APIKey = apiKey
	}

	envKeys := map[string]string{
		"gemini":    os.Getenv("GOOGLE_GEMINI_KEY"),
		"openai":    os.Getenv("OPENAI_API_KEY"),
		"anthropic": os.Getenv("ANTHROPIC_API_KEY"),
	}
	for i := range c.AI.Providers {
		p := &c.AI.Providers[i]
		if p.APIKey == "" && envKeys[p.Provider] != "" {
			p.APIKey = envKeys[p.Provider]
		}
	}
}
