package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/uphill-chatbot/internal/domain/formula"
	"github.com/yanqian/uphill-chatbot/internal/domain/knowledge"
	"github.com/yanqian/uphill-chatbot/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/uphill-chatbot/pkg/errors"
	"github.com/yanqian/uphill-chatbot/pkg/metrics"
	"github.com/yanqian/uphill-chatbot/pkg/util"
)

const defaultPrompt = "You are Uphill, a helpful assistant for real estate agents. Explain the computed figure to the user using the knowledge base context."

// Service answers chat messages.
type Service interface {
	Reply(ctx context.Context, req Request) Response
	KnowledgeSize() int
}

// ChatClient is the completion endpoint the service talks to.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg    Config
	base   *knowledge.Base
	client ChatClient
	cache  ReplyCache
	tokens *metrics.TokenCounter
	logger *slog.Logger
	now    util.Clock
}

// NewService wires up the chat domain. cache and tokens may be nil.
func NewService(cfg Config, base *knowledge.Base, client ChatClient, cache ReplyCache, tokens *metrics.TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		base:   base,
		client: client,
		cache:  cache,
		tokens: tokens,
		logger: logger.With("component", "chat.service"),
		now:    util.NowUTC,
	}
}

func (s *service) KnowledgeSize() int {
	return s.base.Len()
}

func (s *service) Reply(ctx context.Context, req Request) Response {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Response{Response: ReplyEmptyMessage, Outcome: OutcomeEmptyMessage}
	}

	matches, err := s.base.Match(message)
	if err != nil {
		if !errors.Is(err, knowledge.ErrNoMatch) {
			s.logger.Warn("knowledge match failed", "error", err)
		}
		return Response{Response: ReplyNoFormula, Outcome: OutcomeNoFormula}
	}
	entry, ok := matches.FirstWithFormula()
	if !ok {
		s.logger.Debug("knowledge matched without formula", "entries", matches.IDs())
		return Response{Response: ReplyNoFormula, Outcome: OutcomeNoFormula}
	}

	result, err := formula.Evaluate(entry.Formula, message)
	if err != nil {
		s.logger.Info("formula evaluation failed", "entry", entry.ID, "error", err)
		return Response{Response: ReplyComputeFailed, Outcome: OutcomeComputeFailed, EntryID: entry.ID}
	}
	value := result.Value
	s.logger.Debug("formula evaluated", "entry", entry.ID, "expression", result.Expression, "result", value)

	key := CacheKey(entry.ID, value, message)
	if cached, hit := s.lookupCache(ctx, key); hit {
		return Response{Response: cached.Reply, Outcome: OutcomeCached, EntryID: entry.ID, Result: &value}
	}

	messages, err := s.buildMessages(matches, entry, message, value)
	if err != nil {
		s.logger.Error("build completion prompt failed", "entry", entry.ID, "error", err)
		return Response{Response: ReplyCompletionFailed, Outcome: OutcomeCompletionFailed, EntryID: entry.ID, Result: &value}
	}

	answer, err := s.complete(ctx, messages)
	if err != nil {
		s.logger.Error("completion failed", "entry", entry.ID, "code", apperrors.CodeOf(err), "error", err)
		return Response{Response: ReplyCompletionFailed, Outcome: OutcomeCompletionFailed, EntryID: entry.ID, Result: &value}
	}

	s.storeCache(ctx, CachedReply{Key: key, EntryID: entry.ID, Result: value, Reply: answer, CreatedAt: s.now()})
	return Response{Response: answer, Outcome: OutcomeAnswered, EntryID: entry.ID, Result: &value}
}

func (s *service) buildMessages(matches knowledge.Matches, entry knowledge.Entry, message string, value float64) ([]chatgpt.Message, error) {
	contextJSON, err := matches.ContextJSON()
	if err != nil {
		return nil, err
	}
	prompt := strings.TrimSpace(s.cfg.Prompt)
	if prompt == "" {
		prompt = defaultPrompt
	}
	return []chatgpt.Message{
		{Role: "system", Content: prompt},
		{Role: "system", Content: "Knowledge base context:\n" + contextJSON},
		{Role: "user", Content: message},
		{Role: "user", Content: fmt.Sprintf("Computed result using formula %q: %.2f", entry.Formula, value)},
	}, nil
}

func (s *service) complete(ctx context.Context, messages []chatgpt.Message) (string, error) {
	if s.tokens != nil && s.logger.Enabled(ctx, slog.LevelDebug) {
		contents := make([]string, len(messages))
		for i, m := range messages {
			contents[i] = m.Content
		}
		estimate, exact := s.tokens.CountMessages(contents...)
		s.logger.Debug("completion prompt prepared", "estimated_prompt_tokens", estimate, "exact", exact)
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "chatgpt request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "chatgpt returned no choices", nil)
	}
	answer := resp.FirstContent()
	if answer == "" {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "chatgpt response empty", nil)
	}

	usage := metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	attrs := []any{"model", s.cfg.Model, "latency_ms", time.Since(start).Milliseconds()}
	if !usage.IsZero() {
		attrs = append(attrs, usage.LogAttrs()...)
	}
	s.logger.Info("completion received", attrs...)
	return answer, nil
}

func (s *service) lookupCache(ctx context.Context, key string) (CachedReply, bool) {
	if s.cache == nil {
		return CachedReply{}, false
	}
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("reply cache lookup failed", "error", err)
		return CachedReply{}, false
	}
	if !ok || strings.TrimSpace(cached.Reply) == "" {
		return CachedReply{}, false
	}
	s.logger.Debug("reply cache hit", "entry", cached.EntryID)
	return cached, true
}

func (s *service) storeCache(ctx context.Context, reply CachedReply) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, reply, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("reply cache save failed", "error", err)
	}
}
