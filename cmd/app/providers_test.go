package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/uphill-chatbot/internal/infra/config"
	"github.com/yanqian/uphill-chatbot/internal/infra/knowledgesource"
	"github.com/yanqian/uphill-chatbot/internal/infra/replycache"
)

func TestProvideKnowledgeSource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Knowledge: config.KnowledgeConfig{Source: config.KnowledgeSourceFile, Path: "kb.json"}}
	require.IsType(t, &knowledgesource.FileSource{}, provideKnowledgeSource(cfg, logger))

	cfg.Knowledge.Source = config.KnowledgeSourcePostgres
	require.IsType(t, &knowledgesource.PostgresSource{}, provideKnowledgeSource(cfg, logger))

	cfg.Knowledge.Source = config.KnowledgeSourceObject
	cfg.Knowledge.Object = config.ObjectConfig{Endpoint: "http://localhost:9000", Bucket: "kb", Key: "k.json"}
	require.IsType(t, &knowledgesource.ObjectSource{}, provideKnowledgeSource(cfg, logger))
}

func TestProvideKnowledgeBaseDegradesToEmpty(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	missing := knowledgesource.NewFileSource(filepath.Join(t.TempDir(), "missing.json"))
	require.Equal(t, 0, provideKnowledgeBase(missing, logger).Len())

	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":{"keywords":["x"],"formula":"gci"}}`), 0o600))
	require.Equal(t, 1, provideKnowledgeBase(knowledgesource.NewFileSource(path), logger).Len())
}

func TestProvideReplyCache(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	require.Nil(t, provideReplyCache(cfg, logger))

	cfg.Chat.Cache = config.CacheConfig{Enabled: true, Backend: config.CacheBackendMemory, MaxEntries: 8}
	require.IsType(t, &replycache.MemoryCache{}, provideReplyCache(cfg, logger))
}

func TestProvideChatGPTClientRequiresKey(t *testing.T) {
	_, err := provideChatGPTClient(&config.Config{})
	require.Error(t, err)
}
