package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/uphill-chatbot/internal/domain/chat"
	"github.com/yanqian/uphill-chatbot/internal/domain/knowledge"
	"github.com/yanqian/uphill-chatbot/internal/infra/config"
	"github.com/yanqian/uphill-chatbot/internal/infra/knowledgesource"
	"github.com/yanqian/uphill-chatbot/internal/infra/llm/chatgpt"
	"github.com/yanqian/uphill-chatbot/internal/infra/replycache"
	"github.com/yanqian/uphill-chatbot/pkg/metrics"
)

const (
	knowledgeLoadTimeout = 30 * time.Second
	tokenizerWarmTimeout = 5 * time.Second
)

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Prompt:      cfg.Chat.Prompt,
		CacheTTL:    cfg.Chat.Cache.TTL,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) *metrics.TokenCounter {
	counter := metrics.NewTokenCounter(cfg.LLM.Model)
	ctx, cancel := context.WithTimeout(context.Background(), tokenizerWarmTimeout)
	defer cancel()
	if err := counter.Warm(ctx); err != nil {
		logger.Warn("tokenizer unavailable, using approximate prompt sizes", "model", cfg.LLM.Model, "error", err)
	}
	return counter
}

func provideKnowledgeSource(cfg *config.Config, logger *slog.Logger) knowledge.Source {
	switch cfg.Knowledge.Source {
	case config.KnowledgeSourcePostgres:
		return knowledgesource.NewPostgresSource(cfg.Knowledge.Postgres.DSN, cfg.Knowledge.Postgres.MaxConns)
	case config.KnowledgeSourceObject:
		obj := cfg.Knowledge.Object
		src, err := knowledgesource.NewObjectSource(knowledgesource.ObjectConfig{
			Endpoint:  obj.Endpoint,
			AccessKey: obj.AccessKey,
			SecretKey: obj.SecretKey,
			Bucket:    obj.Bucket,
			Key:       obj.Key,
			Region:    obj.Region,
		})
		if err != nil {
			logger.Error("invalid object storage configuration", "error", err)
			return nil
		}
		return src
	default:
		return knowledgesource.NewFileSource(cfg.Knowledge.Path)
	}
}

func provideKnowledgeBase(src knowledge.Source, logger *slog.Logger) *knowledge.Base {
	ctx, cancel := context.WithTimeout(context.Background(), knowledgeLoadTimeout)
	defer cancel()
	return knowledge.LoadOrEmpty(ctx, src, logger)
}

func provideReplyCache(cfg *config.Config, logger *slog.Logger) chat.ReplyCache {
	cacheCfg := cfg.Chat.Cache
	if !cacheCfg.Enabled {
		return nil
	}
	if cacheCfg.Backend == config.CacheBackendValkey {
		opt, err := buildValkeyOptions(cacheCfg.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return replycache.NewMemoryCache(cacheCfg.MaxEntries)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return replycache.NewMemoryCache(cacheCfg.MaxEntries)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("reply valkey cache enabled", "addr", cacheCfg.Addr)
			return replycache.NewValkeyCache(client, "chat")
		}
	}
	logger.Info("reply memory cache enabled", "max_entries", cacheCfg.MaxEntries)
	return replycache.NewMemoryCache(cacheCfg.MaxEntries)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
