package knowledgesource

import (
	"context"
	"os"

	"github.com/yanqian/uphill-chatbot/internal/domain/knowledge"
	apperrors "github.com/yanqian/uphill-chatbot/pkg/errors"
)

// FileSource reads the knowledge document from local disk.
type FileSource struct {
	path string
}

// NewFileSource constructs a file backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load implements knowledge.Source.
func (s *FileSource) Load(_ context.Context) (*knowledge.Base, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "open knowledge file", err)
	}
	defer f.Close()
	base, err := knowledge.Decode(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "parse knowledge file", err)
	}
	return base, nil
}

// Describe implements knowledge.Source.
func (s *FileSource) Describe() string {
	return "file:" + s.path
}

var _ knowledge.Source = (*FileSource)(nil)
