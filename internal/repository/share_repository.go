package repository

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const shareColumns = `share_id, file_id, permission, expires_at, revoked, password_hash, created_by, created_at`

type ShareRepository struct{}

func NewShareRepository() *ShareRepository {
	return &ShareRepository{}
}

func (r *ShareRepository) CreateShareLink(ctx context.Context, exec sqlx.ExtContext, link *model.ShareLink) error {
	query := `
		INSERT INTO share_links (share_id, file_id, permission, expires_at, revoked, password_hash, created_by, created_at)
		VALUES (:share_id, :file_id, :permission, :expires_at, :revoked, :password_hash, :created_by, :created_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, link); err != nil {
		return util.LogError("[ShareRepo] insert share link", err)
	}
	return nil
}

func (r *ShareRepository) ShareIDExists(ctx context.Context, exec sqlx.ExtContext, shareID string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, exec, &exists, `SELECT EXISTS (SELECT 1 FROM share_links WHERE share_id = $1)`, shareID)
	if err != nil {
		return false, util.LogError("[ShareRepo] check share id", err)
	}
	return exists, nil
}

func (r *ShareRepository) GetShareLink(ctx context.Context, exec sqlx.ExtContext, shareID string) (*model.ShareLink, error) {
	var link model.ShareLink
	query := `SELECT ` + shareColumns + ` FROM share_links WHERE share_id = $1`
	if err := sqlx.GetContext(ctx, exec, &link, query, shareID); err != nil {
		return nil, util.LogError("[ShareRepo] get share link", translateError(err, model.ErrNotFound))
	}
	return &link, nil
}

func (r *ShareRepository) RevokeShareLink(ctx context.Context, exec sqlx.ExtContext, shareID string) error {
	result, err := exec.ExecContext(ctx, `UPDATE share_links SET revoked = TRUE WHERE share_id = $1`, shareID)
	if err != nil {
		return util.LogError("[ShareRepo] revoke share link", err)
	}
	if err := expectAffected(result, model.ErrNotFound); err != nil {
		return util.LogError("[ShareRepo] revoke share link", err)
	}
	return nil
}

func (r *ShareRepository) ListShareLinks(ctx context.Context, exec sqlx.ExtContext, fileID string) ([]model.ShareLink, error) {
	links := []model.ShareLink{}
	query := `SELECT ` + shareColumns + ` FROM share_links WHERE file_id = $1 ORDER BY created_at DESC, share_id`
	if err := sqlx.SelectContext(ctx, exec, &links, query, fileID); err != nil {
		return nil, util.LogError("[ShareRepo] list share links", err)
	}
	return links, nil
}

func (r *ShareRepository) DeleteShareLinks(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM share_links WHERE file_id = ANY($1)`, pq.Array(fileIDs)); err != nil {
		return util.LogError("[ShareRepo] delete share links", err)
	}
	return nil
}
