package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectInfo represents metadata for a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage captures the S3-compatible operations forecast exports need.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	UploadObject(ctx context.Context, key string, data []byte) error
}

// ReportPrefix is the key prefix holding every report of one product.
func ReportPrefix(shopID, productID int64) string {
	return fmt.Sprintf("forecasts/%d/%d/", shopID, productID)
}

// ReportKey builds a unique object key for a forecast report generated at ts.
func ReportKey(shopID, productID int64, ts time.Time) string {
	name := fmt.Sprintf("%s-%s.json", ts.UTC().Format("20060102T150405"), uuid.NewString())
	return path.Join(ReportPrefix(shopID, productID), name)
}

type noopStorage struct{}

// NewNoopStorage returns storage that drops uploads and lists nothing.
func NewNoopStorage() ObjectStorage {
	return noopStorage{}
}

func (noopStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return []ObjectInfo{}, nil
}

func (noopStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("object %s: storage disabled", key)
}

func (noopStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	return nil
}
