package knowledgesource

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/uphill-chatbot/internal/domain/knowledge"
	apperrors "github.com/yanqian/uphill-chatbot/pkg/errors"
)

const loadKnowledgeSQL = `
	SELECT id, keywords, formula, attributes
	FROM knowledge_entries
	ORDER BY position, id
`

// PostgresSource reads knowledge entries from the knowledge_entries table.
// The pool only lives for the duration of Load.
type PostgresSource struct {
	dsn         string
	maxConns    int32
	pingTimeout time.Duration
}

// NewPostgresSource constructs the source.
func NewPostgresSource(dsn string, maxConns int32) *PostgresSource {
	return &PostgresSource{dsn: dsn, maxConns: maxConns, pingTimeout: 5 * time.Second}
}

// Load implements knowledge.Source.
func (s *PostgresSource) Load(ctx context.Context) (*knowledge.Base, error) {
	poolConfig, err := pgxpool.ParseConfig(s.dsn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "invalid postgres dsn", err)
	}
	if s.maxConns > 0 {
		poolConfig.MaxConns = s.maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "connect postgres", err)
	}
	defer pool.Close()

	pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "postgres ping failed", err)
	}

	rows, err := pool.Query(ctx, loadKnowledgeSQL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "query knowledge entries", err)
	}
	defer rows.Close()

	var entries []knowledge.Entry
	for rows.Next() {
		var (
			id         string
			keywords   []string
			formula    *string
			attributes []byte
		)
		if err := rows.Scan(&id, &keywords, &formula, &attributes); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "scan knowledge entry", err)
		}
		entry, err := entryFromRow(id, keywords, formula, attributes)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "decode knowledge entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "iterate knowledge entries", err)
	}
	return knowledge.NewBase(entries), nil
}

// Describe implements knowledge.Source.
func (s *PostgresSource) Describe() string {
	return "postgres:knowledge_entries"
}

func entryFromRow(id string, keywords []string, formula *string, attributes []byte) (knowledge.Entry, error) {
	entry := knowledge.Entry{ID: id, Keywords: keywords}
	if formula != nil {
		entry.Formula = *formula
	}
	if len(attributes) == 0 || string(attributes) == "null" {
		return entry, nil
	}
	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(attributes, &attrs); err != nil {
		return knowledge.Entry{}, fmt.Errorf("entry %q attributes: %w", id, err)
	}
	delete(attrs, "keywords")
	delete(attrs, "formula")
	if len(attrs) > 0 {
		entry.Attributes = attrs
	}
	return entry, nil
}

var _ knowledge.Source = (*PostgresSource)(nil)
