package knowledge

import (
	"context"
	"log/slog"
)

// Source produces the knowledge base. It is called once at process start.
type Source interface {
	Load(ctx context.Context) (*Base, error)
	Describe() string
}

// LoadOrEmpty loads from src and degrades to an empty base with a warning
// when the source fails. A missing knowledge base never stops the server.
func LoadOrEmpty(ctx context.Context, src Source, logger *slog.Logger) *Base {
	logger = logger.With("component", "knowledge.loader")
	if src == nil {
		logger.Warn("no knowledge source configured, serving with an empty knowledge base")
		return Empty()
	}
	base, err := src.Load(ctx)
	if err != nil {
		logger.Warn("knowledge base load failed, serving with an empty knowledge base", "source", src.Describe(), "error", err)
		return Empty()
	}
	if base == nil {
		base = Empty()
	}
	if len(base.replaced) > 0 {
		logger.Warn("duplicate knowledge entry ids, later entries kept", "source", src.Describe(), "ids", base.replaced)
	}
	logger.Info("knowledge base loaded", "source", src.Describe(), "entries", base.Len())
	return base
}
