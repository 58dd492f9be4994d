package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Knowledge source kinds.
const (
	KnowledgeSourceFile     = "file"
	KnowledgeSourcePostgres = "postgres"
	KnowledgeSourceObject   = "object"
)

// Reply cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendValkey = "valkey"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Chat      ChatConfig      `yaml:"chat"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// ChatConfig controls the chat responder.
type ChatConfig struct {
	Prompt string      `yaml:"prompt"`
	Cache  CacheConfig `yaml:"cache"`
}

// CacheConfig controls the optional reply cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Backend    string        `yaml:"backend"`
	Addr       string        `yaml:"addr"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"maxEntries"`
}

// KnowledgeConfig selects where the knowledge base is read from at startup.
type KnowledgeConfig struct {
	Source   string         `yaml:"source"`
	Path     string         `yaml:"path"`
	Postgres PostgresConfig `yaml:"postgres"`
	Object   ObjectConfig   `yaml:"object"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
}

// ObjectConfig locates the knowledge document in S3 compatible storage.
type ObjectConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file, an optional .env file and
// environment variables, in that order of precedence (lowest first).
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(envOr("DOTENV_PATH", ".env")); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// loadDotEnv populates unset variables from path. A missing file is fine.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("CHAT_PROMPT"); v != "" {
		cfg.Chat.Prompt = v
	}
	if v := os.Getenv("CHAT_CACHE_ENABLED"); v != "" {
		cfg.Chat.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("CHAT_CACHE_BACKEND"); v != "" {
		cfg.Chat.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("CHAT_CACHE_ADDR"); v != "" {
		cfg.Chat.Cache.Addr = v
	}
	if v := os.Getenv("CHAT_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Chat.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CHAT_CACHE_MAX_ENTRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.Cache.MaxEntries = parsed
		}
	}
	if v := os.Getenv("KNOWLEDGE_SOURCE"); v != "" {
		cfg.Knowledge.Source = strings.ToLower(v)
	}
	if v := os.Getenv("KNOWLEDGE_PATH"); v != "" {
		cfg.Knowledge.Path = v
	}
	if v := os.Getenv("KNOWLEDGE_POSTGRES_DSN"); v != "" {
		cfg.Knowledge.Postgres.DSN = v
	}
	if v := os.Getenv("KNOWLEDGE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Knowledge.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("KNOWLEDGE_OBJECT_ENDPOINT"); v != "" {
		cfg.Knowledge.Object.Endpoint = v
	}
	if v := os.Getenv("KNOWLEDGE_OBJECT_ACCESS_KEY"); v != "" {
		cfg.Knowledge.Object.AccessKey = v
	}
	if v := os.Getenv("KNOWLEDGE_OBJECT_SECRET_KEY"); v != "" {
		cfg.Knowledge.Object.SecretKey = v
	}
	if v := os.Getenv("KNOWLEDGE_OBJECT_BUCKET"); v != "" {
		cfg.Knowledge.Object.Bucket = v
	}
	if v := os.Getenv("KNOWLEDGE_OBJECT_KEY"); v != "" {
		cfg.Knowledge.Object.Key = v
	}
	if v := os.Getenv("KNOWLEDGE_OBJECT_REGION"); v != "" {
		cfg.Knowledge.Object.Region = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":5000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 75 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
		},
		Chat: ChatConfig{
			Prompt: "You are Uphill, a helpful assistant for real estate agents. Use the knowledge base context and the computed result to answer the user's question clearly and concisely. Do not recompute the figure.",
			Cache: CacheConfig{
				Enabled:    false,
				Backend:    CacheBackendMemory,
				TTL:        time.Hour,
				MaxEntries: 1024,
			},
		},
		Knowledge: KnowledgeConfig{
			Source: KnowledgeSourceFile,
			Path:   "data/knowledge.json",
			Postgres: PostgresConfig{
				MaxConns: 2,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm.apiKey is required (set LLM_API_KEY or OPENAI_API_KEY)")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Chat.Cache.Enabled {
		switch c.Chat.Cache.Backend {
		case CacheBackendMemory:
		case CacheBackendValkey:
			if strings.TrimSpace(c.Chat.Cache.Addr) == "" {
				return errors.New("chat.cache.addr cannot be empty when the valkey backend is enabled")
			}
		default:
			return fmt.Errorf("chat.cache.backend %q is not supported", c.Chat.Cache.Backend)
		}
		if c.Chat.Cache.TTL < 0 {
			return errors.New("chat.cache.ttl cannot be negative")
		}
	}
	switch c.Knowledge.Source {
	case KnowledgeSourceFile:
		if strings.TrimSpace(c.Knowledge.Path) == "" {
			return errors.New("knowledge.path cannot be empty for the file source")
		}
	case KnowledgeSourcePostgres:
		if strings.TrimSpace(c.Knowledge.Postgres.DSN) == "" {
			return errors.New("knowledge.postgres.dsn cannot be empty for the postgres source")
		}
	case KnowledgeSourceObject:
		if c.Knowledge.Object.Endpoint == "" || c.Knowledge.Object.Bucket == "" || c.Knowledge.Object.Key == "" {
			return errors.New("knowledge.object endpoint, bucket and key are required for the object source")
		}
	default:
		return fmt.Errorf("knowledge.source %q is not supported", c.Knowledge.Source)
	}
	return nil
}
