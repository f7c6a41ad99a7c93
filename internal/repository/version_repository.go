package repository

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const versionColumns = `file_id, version_number, storage_path, size, checksum, created_at, created_by`

type VersionRepository struct{}

func NewVersionRepository() *VersionRepository {
	return &VersionRepository{}
}

func (r *VersionRepository) InsertVersion(ctx context.Context, exec sqlx.ExtContext, version *model.Version) error {
	query := `
		INSERT INTO versions (file_id, version_number, storage_path, size, checksum, created_at, created_by)
		VALUES (:file_id, :version_number, :storage_path, :size, :checksum, :created_at, :created_by)
	`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, version); err != nil {
		return util.LogError("[VersionRepo] insert version", err)
	}
	return nil
}

// MaxVersionNumber : 0 when the file has no versions yet
func (r *VersionRepository) MaxVersionNumber(ctx context.Context, exec sqlx.ExtContext, fileID string) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(version_number), 0) FROM versions WHERE file_id = $1`
	if err := sqlx.GetContext(ctx, exec, &max, query, fileID); err != nil {
		return 0, util.LogError("[VersionRepo] max version", err)
	}
	return max, nil
}

// ListVersions : newest first
func (r *VersionRepository) ListVersions(ctx context.Context, exec sqlx.ExtContext, fileID string) ([]model.Version, error) {
	versions := []model.Version{}
	query := `SELECT ` + versionColumns + ` FROM versions WHERE file_id = $1 ORDER BY version_number DESC`
	if err := sqlx.SelectContext(ctx, exec, &versions, query, fileID); err != nil {
		return nil, util.LogError("[VersionRepo] list versions", err)
	}
	return versions, nil
}

func (r *VersionRepository) GetVersion(ctx context.Context, exec sqlx.ExtContext, fileID string, number int) (*model.Version, error) {
	var version model.Version
	query := `SELECT ` + versionColumns + ` FROM versions WHERE file_id = $1 AND version_number = $2`
	if err := sqlx.GetContext(ctx, exec, &version, query, fileID, number); err != nil {
		return nil, util.LogError("[VersionRepo] get version", translateError(err, model.ErrVersionNotFound))
	}
	return &version, nil
}

func (r *VersionRepository) ListStoragePaths(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) ([]string, error) {
	paths := []string{}
	if len(fileIDs) == 0 {
		return paths, nil
	}

	query := `SELECT DISTINCT storage_path FROM versions WHERE file_id = ANY($1) ORDER BY storage_path`
	if err := sqlx.SelectContext(ctx, exec, &paths, query, pq.Array(fileIDs)); err != nil {
		return nil, util.LogError("[VersionRepo] list storage paths", err)
	}
	return paths, nil
}

func (r *VersionRepository) DeleteVersions(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM versions WHERE file_id = ANY($1)`, pq.Array(fileIDs)); err != nil {
		return util.LogError("[VersionRepo] delete versions", err)
	}
	return nil
}
