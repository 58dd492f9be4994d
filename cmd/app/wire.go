//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/uphill-chatbot/internal/bootstrap"
	"github.com/yanqian/uphill-chatbot/internal/domain/chat"
	"github.com/yanqian/uphill-chatbot/internal/infra/config"
	"github.com/yanqian/uphill-chatbot/internal/infra/llm/chatgpt"
	httpiface "github.com/yanqian/uphill-chatbot/internal/interface/http"
	"github.com/yanqian/uphill-chatbot/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChatConfig,
		provideChatGPTClient,
		provideTokenCounter,
		provideKnowledgeSource,
		provideKnowledgeBase,
		provideReplyCache,
		chat.NewService,
		wire.Bind(new(chat.ChatClient), new(*chatgpt.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
