package ports

import (
	"cloud-drive/internal/model"
	"context"
	"github.com/jmoiron/sqlx"
	"time"
)

// ObjectDeletionRepository : outbox of storage objects whose rows are already gone
type ObjectDeletionRepository interface {
	EnqueueObjectDeletions(ctx context.Context, exec sqlx.ExtContext, paths []string) error
	ListObjectDeletions(ctx context.Context, exec sqlx.ExtContext, limit int) ([]string, error)
	DequeueObjectDeletions(ctx context.Context, exec sqlx.ExtContext, paths []string) error
	RecordObjectDeletionFailure(ctx context.Context, exec sqlx.ExtContext, path string) error
}

type TrashService interface {
	SoftDelete(ctx context.Context, actorID, nodeID string) (string, error)
	ResumeSoftDelete(ctx context.Context, batchID string) (int64, error)
	ResumeInterrupted(ctx context.Context) (int, error)
	Restore(ctx context.Context, actorID, nodeID string) ([]*model.Node, error)
	PermanentDelete(ctx context.Context, actorID, nodeID string) (int, error)
	ListTrash(ctx context.Context, ownerID string) ([]*model.Node, error)
	PurgeExpired(ctx context.Context, before time.Time) (int, error)
	DrainObjectDeletions(ctx context.Context) (int, error)
}
