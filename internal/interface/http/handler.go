package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/uphill-chatbot/internal/domain/chat"
)

const welcomeMessage = "Welcome to Uphill Chatbot!"

// Handler wires the HTTP transport to the chat service.
type Handler struct {
	chatSvc chat.Service
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(chatSvc chat.Service, logger *slog.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger.With("component", "http.handler"),
	}
}

// Home is the plaintext liveness endpoint.
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, welcomeMessage)
}

// Health reports readiness along with the loaded knowledge size.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "entries": h.chatSvc.KnowledgeSize()})
}

// Chat answers a single chat message. Every domain outcome is a 200 with a
// response text; only undecodable bodies are rejected.
func (h *Handler) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "request body must be a JSON object with a string message", err))
		return
	}

	resp := h.chatSvc.Reply(c.Request.Context(), req)
	attrs := []any{"outcome", resp.Outcome, "request_id", c.GetString(requestIDKey)}
	if resp.EntryID != "" {
		attrs = append(attrs, "entry", resp.EntryID)
	}
	if resp.Result != nil {
		attrs = append(attrs, "result", *resp.Result)
	}
	h.logger.Info("chat replied", attrs...)

	c.JSON(http.StatusOK, resp)
}
