package knowledgesource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/uphill-chatbot/internal/domain/knowledge"
	apperrors "github.com/yanqian/uphill-chatbot/pkg/errors"
)

const maxObjectSize = 8 << 20

// ObjectConfig locates the knowledge document in S3 compatible storage.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	Region    string
}

// ObjectSource reads the knowledge document from an S3/R2 bucket.
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSource constructs the storage client. No request is made until Load.
func NewObjectSource(cfg ObjectConfig) (*ObjectSource, error) {
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &ObjectSource{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// Load implements knowledge.Source.
func (s *ObjectSource) Load(ctx context.Context) (*knowledge.Base, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "get knowledge object", err)
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "stat knowledge object", err)
	}
	if info.Size > maxObjectSize {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, fmt.Sprintf("knowledge object too large: %d bytes", info.Size), nil)
	}
	base, err := knowledge.Decode(io.LimitReader(obj, maxObjectSize))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeKnowledgeError, "parse knowledge object", err)
	}
	return base, nil
}

// Describe implements knowledge.Source.
func (s *ObjectSource) Describe() string {
	return fmt.Sprintf("object:%s/%s", s.bucket, s.key)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ knowledge.Source = (*ObjectSource)(nil)
