package ports

import (
	"cloud-drive/internal/model"
	"context"
	"time"
)

// ObjectStorage : raw bytes live here, keyed by storage path
type ObjectStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration, opts model.AccessOptions) (string, error)
	Delete(ctx context.Context, key string) error
}

// Notifier : fire-and-forget realtime delivery, called only after commit
type Notifier interface {
	Publish(ctx context.Context, userID string, event model.Event) error
}
