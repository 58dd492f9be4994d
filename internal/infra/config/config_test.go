package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	isolateEnv(t)

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "llm.apiKey")
}

func TestLoadDefaultsWithAPIKey(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sk-env", cfg.LLM.APIKey)
	require.Equal(t, ":5000", cfg.HTTP.Address)
	require.Equal(t, KnowledgeSourceFile, cfg.Knowledge.Source)
	require.Equal(t, "data/knowledge.json", cfg.Knowledge.Path)
	require.False(t, cfg.Chat.Cache.Enabled)
	require.False(t, cfg.HTTP.RateLimit.Enabled)
}

func TestShippedConfigKeepsLimiterAndCacheOff(t *testing.T) {
	shipped, err := filepath.Abs(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	isolateEnv(t)
	t.Setenv("CONFIG_PATH", shipped)
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.HTTP.RateLimit.Enabled)
	require.False(t, cfg.Chat.Cache.Enabled)
	require.Equal(t, KnowledgeSourceFile, cfg.Knowledge.Source)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
llm:
  apiKey: "sk-file"
  model: "gpt-file"
chat:
  cache:
    enabled: true
    ttl: 10m
knowledge:
  path: "kb.json"
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_MODEL", "gpt-env")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "sk-file", cfg.LLM.APIKey)
	require.Equal(t, "gpt-env", cfg.LLM.Model)
	require.True(t, cfg.Chat.Cache.Enabled)
	require.Equal(t, 10*time.Minute, cfg.Chat.Cache.TTL)
	require.Equal(t, "kb.json", cfg.Knowledge.Path)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolateEnv(t)
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("LLM_API_KEY=sk-dotenv\nPORT=7000\n"), 0o600))
	t.Setenv("DOTENV_PATH", envPath)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sk-dotenv", cfg.LLM.APIKey)
	require.Equal(t, ":7000", cfg.HTTP.Address)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.LLM.APIKey = "sk"
		return cfg
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"empty address":      func(c *Config) { c.HTTP.Address = "" },
		"bad source":         func(c *Config) { c.Knowledge.Source = "ftp" },
		"postgres no dsn":    func(c *Config) { c.Knowledge.Source = KnowledgeSourcePostgres },
		"object no bucket":   func(c *Config) { c.Knowledge.Source = KnowledgeSourceObject; c.Knowledge.Object.Endpoint = "x" },
		"valkey no addr":     func(c *Config) { c.Chat.Cache.Enabled = true; c.Chat.Cache.Backend = CacheBackendValkey },
		"unknown cache":      func(c *Config) { c.Chat.Cache.Enabled = true; c.Chat.Cache.Backend = "memcached" },
		"zero rate":          func(c *Config) { c.HTTP.RateLimit.Enabled = true; c.HTTP.RateLimit.RequestsPerMinute = 0 },
		"blank model":        func(c *Config) { c.LLM.Model = " " },
		"empty file path":    func(c *Config) { c.Knowledge.Path = "" },
		"negative cache ttl": func(c *Config) { c.Chat.Cache.Enabled = true; c.Chat.Cache.TTL = -time.Second },
	}
	for name, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		require.Error(t, cfg.Validate(), name)
	}
}

// isolateEnv clears every variable Load reads and moves into a temp dir so
// no stray configs/config.yaml or .env is picked up.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "DOTENV_PATH", "HTTP_ADDRESS", "PORT", "HTTP_CORS_ORIGINS",
		"HTTP_RATE_LIMIT_ENABLED", "HTTP_RATE_LIMIT_RPM", "HTTP_RATE_LIMIT_BURST",
		"LLM_API_KEY", "OPENAI_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "LLM_TEMPERATURE",
		"CHAT_PROMPT", "CHAT_CACHE_ENABLED", "CHAT_CACHE_BACKEND", "CHAT_CACHE_ADDR",
		"CHAT_CACHE_TTL", "CHAT_CACHE_MAX_ENTRIES", "KNOWLEDGE_SOURCE", "KNOWLEDGE_PATH",
		"KNOWLEDGE_POSTGRES_DSN", "KNOWLEDGE_POSTGRES_MAX_CONNS", "KNOWLEDGE_OBJECT_ENDPOINT",
		"KNOWLEDGE_OBJECT_ACCESS_KEY", "KNOWLEDGE_OBJECT_SECRET_KEY", "KNOWLEDGE_OBJECT_BUCKET",
		"KNOWLEDGE_OBJECT_KEY", "KNOWLEDGE_OBJECT_REGION",
	} {
		// Setenv registers the restore; the unset lets godotenv fill the key.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}
