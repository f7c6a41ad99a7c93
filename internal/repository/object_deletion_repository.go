package repository

import (
	"cloud-drive/internal/util"
	"context"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ObjectDeletionRepository struct{}

func NewObjectDeletionRepository() *ObjectDeletionRepository {
	return &ObjectDeletionRepository{}
}

// EnqueueObjectDeletions : written in the same transaction that drops the version rows
func (r *ObjectDeletionRepository) EnqueueObjectDeletions(ctx context.Context, exec sqlx.ExtContext, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	query := `
		INSERT INTO pending_object_deletions (storage_path)
		SELECT unnest($1::text[])
		ON CONFLICT (storage_path) DO NOTHING
	`
	if _, err := exec.ExecContext(ctx, query, pq.Array(paths)); err != nil {
		return util.LogError("[ObjectDeletionRepo] enqueue", err)
	}
	return nil
}

func (r *ObjectDeletionRepository) ListObjectDeletions(ctx context.Context, exec sqlx.ExtContext, limit int) ([]string, error) {
	paths := []string{}
	query := `SELECT storage_path FROM pending_object_deletions ORDER BY attempts, enqueued_at LIMIT $1`
	if err := sqlx.SelectContext(ctx, exec, &paths, query, limit); err != nil {
		return nil, util.LogError("[ObjectDeletionRepo] list", err)
	}
	return paths, nil
}

func (r *ObjectDeletionRepository) DequeueObjectDeletions(ctx context.Context, exec sqlx.ExtContext, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM pending_object_deletions WHERE storage_path = ANY($1)`, pq.Array(paths)); err != nil {
		return util.LogError("[ObjectDeletionRepo] dequeue", err)
	}
	return nil
}

func (r *ObjectDeletionRepository) RecordObjectDeletionFailure(ctx context.Context, exec sqlx.ExtContext, path string) error {
	query := `UPDATE pending_object_deletions SET attempts = attempts + 1 WHERE storage_path = $1`
	if _, err := exec.ExecContext(ctx, query, path); err != nil {
		return util.LogError("[ObjectDeletionRepo] record failure", err)
	}
	return nil
}
