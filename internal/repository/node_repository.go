package repository

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"time"
)

const nodeColumns = `id, owner_id, parent_id, is_folder, name, mime_type, size, storage_path, current_version,
	tags, is_deleted, deleted_at, deleted_batch_id, is_favorite, sync_status, created_at, updated_at, last_modified_by`

type NodeRepository struct{}

func NewNodeRepository() *NodeRepository {
	return &NodeRepository{}
}

// CreateNode : inserts a node; a live sibling with the same name is ErrNameConflict
func (r *NodeRepository) CreateNode(ctx context.Context, exec sqlx.ExtContext, node *model.Node) error {
	query := `
		INSERT INTO nodes (id, owner_id, parent_id, is_folder, name, mime_type, size, storage_path, current_version,
		                   tags, is_favorite, sync_status, created_at, updated_at, last_modified_by)
		VALUES (:id, :owner_id, :parent_id, :is_folder, :name, :mime_type, :size, :storage_path, :current_version,
		        :tags, :is_favorite, :sync_status, :created_at, :updated_at, :last_modified_by)
	`
	if node.Tags == nil {
		node.Tags = pq.StringArray{}
	}

	if _, err := sqlx.NamedExecContext(ctx, exec, query, node); err != nil {
		return util.LogError("[NodeRepo] insert node", translateError(err, model.ErrNotFound))
	}
	return nil
}

func (r *NodeRepository) GetNode(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Node, error) {
	return r.getOne(ctx, exec, `SELECT `+nodeColumns+` FROM nodes WHERE id = $1`, id)
}

// GetNodeForUpdate : row-locks the node until the surrounding transaction ends
func (r *NodeRepository) GetNodeForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Node, error) {
	return r.getOne(ctx, exec, `SELECT `+nodeColumns+` FROM nodes WHERE id = $1 FOR UPDATE`, id)
}

func (r *NodeRepository) GetRoot(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Node, error) {
	return r.getOne(ctx, exec, `SELECT `+nodeColumns+` FROM nodes WHERE owner_id = $1 AND parent_id IS NULL`, ownerID)
}

// FindChildByName : live children only
func (r *NodeRepository) FindChildByName(ctx context.Context, exec sqlx.ExtContext, parentID, name string) (*model.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE parent_id = $1 AND name = $2 AND NOT is_deleted`
	return r.getOne(ctx, exec, query, parentID, name)
}

func (r *NodeRepository) getOne(ctx context.Context, exec sqlx.ExtContext, query string, args ...any) (*model.Node, error) {
	var node model.Node
	if err := sqlx.GetContext(ctx, exec, &node, query, args...); err != nil {
		return nil, util.LogError("[NodeRepo] get node", translateError(err, model.ErrNotFound))
	}
	return &node, nil
}

func (r *NodeRepository) selectMany(ctx context.Context, exec sqlx.ExtContext, message, query string, args ...any) ([]*model.Node, error) {
	nodes := []*model.Node{}
	if err := sqlx.SelectContext(ctx, exec, &nodes, query, args...); err != nil {
		return nil, util.LogError(message, err)
	}
	return nodes, nil
}

// ListChildren : ordered by the whitelisted sort column, then name and id for stability
func (r *NodeRepository) ListChildren(ctx context.Context, exec sqlx.ExtContext, parentID string, opts model.ListOptions) ([]*model.Node, error) {
	opts = opts.Normalize()
	direction := "ASC"
	if opts.Descending {
		direction = "DESC"
	}

	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE parent_id = $1`
	if !opts.IncludeDeleted {
		query += ` AND NOT is_deleted`
	}
	query += fmt.Sprintf(` ORDER BY %s %s, name %s, id`, opts.Sort, direction, direction)

	return r.selectMany(ctx, exec, "[NodeRepo] list children", query, parentID)
}

// ListRecent : live files, newest change first, optionally filtered by MIME prefix
func (r *NodeRepository) ListRecent(ctx context.Context, exec sqlx.ExtContext, ownerID string, mimePrefixes []string, limit int) ([]*model.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE owner_id = $1 AND NOT is_folder AND NOT is_deleted`
	args := []any{ownerID, limit}
	if len(mimePrefixes) > 0 {
		patterns := make([]string, 0, len(mimePrefixes))
		for _, prefix := range mimePrefixes {
			patterns = append(patterns, prefix+"%")
		}
		query += ` AND mime_type LIKE ANY($3)`
		args = append(args, pq.Array(patterns))
	}
	query += ` ORDER BY updated_at DESC, id LIMIT $2`

	return r.selectMany(ctx, exec, "[NodeRepo] list recent", query, args...)
}

func (r *NodeRepository) update(ctx context.Context, exec sqlx.ExtContext, message, query string, args ...any) error {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return util.LogError(message, translateError(err, model.ErrNotFound))
	}
	if err := expectAffected(result, model.ErrNotFound); err != nil {
		return util.LogError(message, err)
	}
	return nil
}

func (r *NodeRepository) UpdateName(ctx context.Context, exec sqlx.ExtContext, id, name, actorID string, at time.Time) error {
	query := `UPDATE nodes SET name = $2, updated_at = $3, last_modified_by = $4 WHERE id = $1`
	return r.update(ctx, exec, "[NodeRepo] rename", query, id, name, at, actorID)
}

func (r *NodeRepository) UpdateParent(ctx context.Context, exec sqlx.ExtContext, id, parentID, actorID string, at time.Time) error {
	query := `UPDATE nodes SET parent_id = $2, updated_at = $3, last_modified_by = $4 WHERE id = $1`
	return r.update(ctx, exec, "[NodeRepo] move", query, id, parentID, at, actorID)
}

func (r *NodeRepository) UpdateFavorite(ctx context.Context, exec sqlx.ExtContext, id string, favorite bool, actorID string, at time.Time) error {
	query := `UPDATE nodes SET is_favorite = $2, updated_at = $3, last_modified_by = $4 WHERE id = $1`
	return r.update(ctx, exec, "[NodeRepo] favorite", query, id, favorite, at, actorID)
}

func (r *NodeRepository) UpdateTags(ctx context.Context, exec sqlx.ExtContext, id string, tags []string, actorID string, at time.Time) error {
	query := `UPDATE nodes SET tags = $2, updated_at = $3, last_modified_by = $4 WHERE id = $1`
	return r.update(ctx, exec, "[NodeRepo] tags", query, id, pq.Array(tags), at, actorID)
}

// UpdateContent : points the node at a new version and marks it syncing
func (r *NodeRepository) UpdateContent(ctx context.Context, exec sqlx.ExtContext, id string, content model.ContentRef, version int, actorID string, at time.Time) error {
	query := `
		UPDATE nodes
		SET storage_path = $2, size = $3, current_version = $4, sync_status = $5, updated_at = $6, last_modified_by = $7
		WHERE id = $1
	`
	return r.update(ctx, exec, "[NodeRepo] update content", query,
		id, content.StoragePath, content.Size, version, model.SyncStatusSyncing, at, actorID)
}

func (r *NodeRepository) UpdateSyncStatus(ctx context.Context, exec sqlx.ExtContext, id string, status model.SyncStatus, at time.Time) error {
	query := `UPDATE nodes SET sync_status = $2, updated_at = $3 WHERE id = $1`
	return r.update(ctx, exec, "[NodeRepo] sync status", query, id, status, at)
}

func (r *NodeRepository) ListBySyncStatus(ctx context.Context, exec sqlx.ExtContext, ownerID string) ([]*model.Node, error) {
	query := `
		SELECT ` + nodeColumns + ` FROM nodes
		WHERE owner_id = $1 AND NOT is_folder AND NOT is_deleted AND sync_status <> $2
		ORDER BY updated_at DESC, id
	`
	return r.selectMany(ctx, exec, "[NodeRepo] list unsynced", query, ownerID, model.SyncStatusSynced)
}

// MarkRootDeleted : first step of a soft-delete cascade
func (r *NodeRepository) MarkRootDeleted(ctx context.Context, exec sqlx.ExtContext, id, batchID string, at time.Time) error {
	query := `
		UPDATE nodes SET is_deleted = TRUE, deleted_at = $3, deleted_batch_id = $2
		WHERE id = $1 AND NOT is_deleted
	`
	return r.update(ctx, exec, "[NodeRepo] mark deleted", query, id, batchID, at)
}

// MarkChildrenDeleted : marks at most limit live children of batch members; 0 means the cascade is complete
func (r *NodeRepository) MarkChildrenDeleted(ctx context.Context, exec sqlx.ExtContext, batchID string, at time.Time, limit int) (int64, error) {
	query := `
		UPDATE nodes SET is_deleted = TRUE, deleted_at = $2, deleted_batch_id = $1
		WHERE id IN (
			SELECT c.id FROM nodes c
			JOIN nodes p ON c.parent_id = p.id
			WHERE p.deleted_batch_id = $1 AND p.is_deleted AND NOT c.is_deleted
			LIMIT $3
		)
	`
	return r.execCount(ctx, exec, "[NodeRepo] cascade delete", query, batchID, at, limit)
}

// ListInterruptedBatches : batches whose cascade stopped before reaching every descendant
func (r *NodeRepository) ListInterruptedBatches(ctx context.Context, exec sqlx.ExtContext, limit int) ([]string, error) {
	batches := []string{}
	query := `
		SELECT DISTINCT p.deleted_batch_id FROM nodes c
		JOIN nodes p ON c.parent_id = p.id
		WHERE p.is_deleted AND p.deleted_batch_id IS NOT NULL AND NOT c.is_deleted
		LIMIT $1
	`
	if err := sqlx.SelectContext(ctx, exec, &batches, query, limit); err != nil {
		return nil, util.LogError("[NodeRepo] list interrupted batches", err)
	}
	return batches, nil
}

// GetBatchRoots : batch members whose parent is not part of the same batch
func (r *NodeRepository) GetBatchRoots(ctx context.Context, exec sqlx.ExtContext, batchID string) ([]*model.Node, error) {
	query := `
		SELECT ` + nodeColumns + ` FROM nodes n
		WHERE n.deleted_batch_id = $1 AND n.is_deleted
		  AND NOT EXISTS (
			SELECT 1 FROM nodes p WHERE p.id = n.parent_id AND p.deleted_batch_id = $1 AND p.is_deleted
		  )
		ORDER BY n.created_at, n.id
	`
	return r.selectMany(ctx, exec, "[NodeRepo] batch roots", query, batchID)
}

func (r *NodeRepository) RestoreNode(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) error {
	query := `
		UPDATE nodes SET is_deleted = FALSE, deleted_at = NULL, deleted_batch_id = NULL, updated_at = $2
		WHERE id = $1 AND is_deleted
	`
	return r.update(ctx, exec, "[NodeRepo] restore", query, id, at)
}

// RestoreBatchChildren : restores at most limit batch members whose parent is already live
func (r *NodeRepository) RestoreBatchChildren(ctx context.Context, exec sqlx.ExtContext, batchID string, at time.Time, limit int) (int64, error) {
	query := `
		UPDATE nodes SET is_deleted = FALSE, deleted_at = NULL, deleted_batch_id = NULL, updated_at = $2
		WHERE id IN (
			SELECT c.id FROM nodes c
			JOIN nodes p ON c.parent_id = p.id
			WHERE c.deleted_batch_id = $1 AND c.is_deleted AND NOT p.is_deleted
			LIMIT $3
		)
	`
	return r.execCount(ctx, exec, "[NodeRepo] cascade restore", query, batchID, at, limit)
}

func (r *NodeRepository) ListTrash(ctx context.Context, exec sqlx.ExtContext, ownerID string) ([]*model.Node, error) {
	query := `
		SELECT ` + nodeColumns + ` FROM nodes
		WHERE owner_id = $1 AND is_deleted
		ORDER BY deleted_at DESC, name, id
	`
	return r.selectMany(ctx, exec, "[NodeRepo] list trash", query, ownerID)
}

// ListExpiredTrash : deleted nodes older than before that head their own batch.
// Members of the parent's batch go with the parent.
func (r *NodeRepository) ListExpiredTrash(ctx context.Context, exec sqlx.ExtContext, before time.Time, limit int) ([]*model.Node, error) {
	query := `
		SELECT ` + nodeColumns + ` FROM nodes n
		WHERE n.is_deleted AND n.deleted_at < $1
		  AND NOT EXISTS (
			SELECT 1 FROM nodes p
			WHERE p.id = n.parent_id AND p.is_deleted AND p.deleted_batch_id = n.deleted_batch_id
		  )
		ORDER BY n.deleted_at, n.id
		LIMIT $2
	`
	return r.selectMany(ctx, exec, "[NodeRepo] list expired trash", query, before, limit)
}

func (r *NodeRepository) ListChildRefs(ctx context.Context, exec sqlx.ExtContext, parentIDs []string) ([]model.NodeRef, error) {
	refs := []model.NodeRef{}
	if len(parentIDs) == 0 {
		return refs, nil
	}

	query := `SELECT id, is_folder, size FROM nodes WHERE parent_id = ANY($1) ORDER BY id`
	if err := sqlx.SelectContext(ctx, exec, &refs, query, pq.Array(parentIDs)); err != nil {
		return nil, util.LogError("[NodeRepo] list child refs", err)
	}
	return refs, nil
}

func (r *NodeRepository) DeleteNodes(ctx context.Context, exec sqlx.ExtContext, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.execCount(ctx, exec, "[NodeRepo] delete nodes", `DELETE FROM nodes WHERE id = ANY($1)`, pq.Array(ids))
}

func (r *NodeRepository) execCount(ctx context.Context, exec sqlx.ExtContext, message, query string, args ...any) (int64, error) {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, util.LogError(message, translateError(err, model.ErrNotFound))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, util.LogError(message, err)
	}
	return affected, nil
}
