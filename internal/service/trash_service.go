package service

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sync"
	"time"
)

// objectDeleteParallelism : concurrent storage deletes per drain pass
const objectDeleteParallelism = 8

type TrashService struct {
	core
}

func NewTrashService(deps Dependencies) *TrashService {
	return &TrashService{core: newCore(deps)}
}

// SoftDelete : marks the node and its live subtree with one new batch id.
// The first batch of children commits together with the node, the rest follows in bounded steps.
func (s *TrashService) SoftDelete(ctx context.Context, actorID, nodeID string) (batchID string, err error) {
	defer s.observe("soft_delete", time.Now(), &err)

	exec, rollback, commit, err := s.begin(ctx, "TrashService")
	if err != nil {
		return "", err
	}
	defer rollback()

	if _, err = s.lockTree(ctx, exec, actorID); err != nil {
		return "", util.LogError("[TrashService] lock tree", err)
	}
	node, err := s.loadLiveOwned(ctx, exec, actorID, nodeID, true)
	if err != nil {
		return "", util.LogError("[TrashService] load node", err)
	}
	if node.IsRoot() {
		return "", fmt.Errorf("%w: the root folder cannot be deleted", model.ErrValidation)
	}

	batchID = uuid.NewString()
	at := s.now()
	if err = s.Nodes.MarkRootDeleted(ctx, exec, node.ID, batchID, at); err != nil {
		return "", util.LogError("[TrashService] mark node deleted", err)
	}
	var marked int64
	if node.IsFolder {
		if marked, err = s.Nodes.MarkChildrenDeleted(ctx, exec, batchID, at, s.Options.BatchSize); err != nil {
			return "", util.LogError("[TrashService] mark children deleted", err)
		}
	}
	if err = commit(); err != nil {
		return "", util.LogError("[TrashService] commit soft delete", err)
	}

	node.IsDeleted, node.DeletedAt, node.DeletedBatchID = true, &at, &batchID
	s.publishNode(ctx, model.EventFileUpdated, node, actorID)

	if marked > 0 {
		rest, err := s.cascadeDelete(ctx, actorID, batchID, at)
		marked += rest
		if err != nil {
			logging.Warn("[TrashService] soft delete cascade interrupted, left for resume",
				zap.String("batch", batchID), zap.Error(err))
			return batchID, nil
		}
	}

	logging.Info("[TrashService] moved to trash",
		zap.String("node", nodeID), zap.String("batch", batchID), zap.Int64("descendants", marked))
	return batchID, nil
}

// cascadeDelete : one transaction per step until no live child of a batch member is left
func (s *TrashService) cascadeDelete(ctx context.Context, ownerID, batchID string, at time.Time) (int64, error) {
	var total int64
	for {
		marked, err := s.step(ctx, ownerID, func(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
			return s.Nodes.MarkChildrenDeleted(ctx, exec, batchID, at, s.Options.BatchSize)
		})
		total += marked
		if err != nil {
			return total, err
		}
		if marked == 0 {
			return total, nil
		}
	}
}

// ResumeSoftDelete : finishes a cascade that stopped part way; running it twice changes nothing
func (s *TrashService) ResumeSoftDelete(ctx context.Context, batchID string) (int64, error) {
	roots, err := s.Nodes.GetBatchRoots(ctx, s.Tx.Conn(), batchID)
	if err != nil {
		return 0, util.LogError("[TrashService] load batch", err)
	}
	if len(roots) == 0 {
		return 0, fmt.Errorf("%w: batch %s", model.ErrNotFound, batchID)
	}

	marked, err := s.cascadeDelete(ctx, roots[0].OwnerID, batchID, s.now())
	if err != nil {
		return marked, util.LogError("[TrashService] resume soft delete", err)
	}
	if marked > 0 {
		logging.Info("[TrashService] soft delete resumed", zap.String("batch", batchID), zap.Int64("marked", marked))
	}
	return marked, nil
}

// ResumeInterrupted : resumes every batch that still has live children under a deleted member
func (s *TrashService) ResumeInterrupted(ctx context.Context) (int, error) {
	batches, err := s.Nodes.ListInterruptedBatches(ctx, s.Tx.Conn(), s.Options.BatchSize)
	if err != nil {
		return 0, util.LogError("[TrashService] list interrupted batches", err)
	}

	resumed := 0
	for _, batchID := range batches {
		if _, err := s.ResumeSoftDelete(ctx, batchID); err != nil {
			return resumed, err
		}
		resumed++
	}
	return resumed, nil
}

// Restore : brings back every node of the node's batch, top-down.
// Nodes trashed by other batches stay in trash.
func (s *TrashService) Restore(ctx context.Context, actorID, nodeID string) (restored []*model.Node, err error) {
	defer s.observe("restore", time.Now(), &err)

	exec, rollback, commit, err := s.begin(ctx, "TrashService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	if _, err = s.lockTree(ctx, exec, actorID); err != nil {
		return nil, util.LogError("[TrashService] lock tree", err)
	}
	node, err := s.loadOwned(ctx, exec, actorID, nodeID, true)
	if err != nil {
		return nil, util.LogError("[TrashService] load node", err)
	}
	if !node.IsDeleted || node.DeletedBatchID == nil {
		return nil, fmt.Errorf("%w: %s is not in trash", model.ErrValidation, nodeID)
	}
	batchID := *node.DeletedBatchID

	roots, err := s.Nodes.GetBatchRoots(ctx, exec, batchID)
	if err != nil {
		return nil, util.LogError("[TrashService] load batch", err)
	}
	at := s.now()
	for _, root := range roots {
		if root.ParentID != nil {
			parent, err := s.Nodes.GetNode(ctx, exec, *root.ParentID)
			if err != nil {
				return nil, util.LogError("[TrashService] load parent", err)
			}
			if parent.IsDeleted {
				return nil, fmt.Errorf("%w: restore the containing folder %q first", model.ErrValidation, parent.Name)
			}
			if err = s.ensureNameFree(ctx, exec, parent.ID, root.Name, root.ID); err != nil {
				return nil, err
			}
		}
		if err = s.Nodes.RestoreNode(ctx, exec, root.ID, at); err != nil {
			return nil, util.LogError("[TrashService] restore node", err)
		}
	}
	children, err := s.Nodes.RestoreBatchChildren(ctx, exec, batchID, at, s.Options.BatchSize)
	if err != nil {
		return nil, util.LogError("[TrashService] restore children", err)
	}
	if err = commit(); err != nil {
		return nil, util.LogError("[TrashService] commit restore", err)
	}

	for children > 0 {
		children, err = s.step(ctx, actorID, func(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
			return s.Nodes.RestoreBatchChildren(ctx, exec, batchID, at, s.Options.BatchSize)
		})
		if err != nil {
			return nil, util.LogError("[TrashService] restore cascade interrupted", err)
		}
	}

	conn := s.Tx.Conn()
	restored = make([]*model.Node, 0, len(roots))
	for _, root := range roots {
		current, err := s.Nodes.GetNode(ctx, conn, root.ID)
		if err != nil {
			return nil, util.LogError("[TrashService] reload restored node", err)
		}
		restored = append(restored, current)
		s.publishNode(ctx, model.EventFileUpdated, current, actorID)
	}

	logging.Info("[TrashService] batch restored", zap.String("batch", batchID), zap.Int("roots", len(roots)))
	return restored, nil
}

// ListTrash : newest deletions first
func (s *TrashService) ListTrash(ctx context.Context, ownerID string) ([]*model.Node, error) {
	nodes, err := s.Nodes.ListTrash(ctx, s.Tx.Conn(), ownerID)
	if err != nil {
		return nil, util.LogError("[TrashService] list trash", err)
	}
	return nodes, nil
}

// PermanentDelete : destroys a trashed node and its whole subtree; returns the number of removed nodes
func (s *TrashService) PermanentDelete(ctx context.Context, actorID, nodeID string) (removed int, err error) {
	defer s.observe("permanent_delete", time.Now(), &err)

	node, err := s.loadOwned(ctx, s.Tx.Conn(), actorID, nodeID, false)
	if err != nil {
		return 0, util.LogError("[TrashService] load node", err)
	}
	if !node.IsDeleted {
		return 0, fmt.Errorf("%w: %s must be in trash before it is deleted permanently", model.ErrValidation, nodeID)
	}
	return s.purge(ctx, node)
}

// purge : removes the subtree deepest level first so no chunk ever orphans a row
func (s *TrashService) purge(ctx context.Context, node *model.Node) (int, error) {
	refs, err := s.collectSubtree(ctx, node)
	if err != nil {
		return 0, err
	}

	removed := 0
	for start := 0; start < len(refs); start += s.Options.BatchSize {
		end := min(start+s.Options.BatchSize, len(refs))
		paths, err := s.purgeChunk(ctx, node, refs[start:end])
		if errors.Is(err, errAlreadyPurged) {
			return removed, nil
		}
		if err != nil {
			return removed, err
		}
		removed += end - start
		s.deleteObjects(ctx, paths)
	}

	logging.Info("[TrashService] permanently deleted",
		zap.String("node", node.ID), zap.String("owner", node.OwnerID), zap.Int("nodes", removed))
	return removed, nil
}

var errAlreadyPurged = errors.New("subtree already purged")

// collectSubtree : every node below and including node, deepest level first
func (s *TrashService) collectSubtree(ctx context.Context, node *model.Node) ([]model.NodeRef, error) {
	conn := s.Tx.Conn()
	levels := [][]model.NodeRef{{{ID: node.ID, IsFolder: node.IsFolder, Size: node.Size}}}
	parents := []string{node.ID}
	if !node.IsFolder {
		parents = nil
	}

	for len(parents) > 0 {
		if len(levels) > s.Options.MaxDepth+1 {
			return nil, fmt.Errorf("%w: subtree of %s deeper than %d", model.ErrValidation, node.ID, s.Options.MaxDepth)
		}
		children, err := s.Nodes.ListChildRefs(ctx, conn, parents)
		if err != nil {
			return nil, util.LogError("[TrashService] walk subtree", err)
		}
		if len(children) == 0 {
			break
		}
		levels = append(levels, children)
		parents = nil
		for _, child := range children {
			if child.IsFolder {
				parents = append(parents, child.ID)
			}
		}
	}

	var refs []model.NodeRef
	for i := len(levels) - 1; i >= 0; i-- {
		refs = append(refs, levels[i]...)
	}
	return refs, nil
}

// purgeChunk : removes one bounded set of rows and returns the storage paths they owned.
// The paths are queued in the same transaction so a crash after commit leaks nothing.
func (s *TrashService) purgeChunk(ctx context.Context, top *model.Node, refs []model.NodeRef) ([]string, error) {
	exec, rollback, commit, err := s.begin(ctx, "TrashService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	if _, err := s.lockTree(ctx, exec, top.OwnerID); err != nil {
		return nil, util.LogError("[TrashService] lock tree", err)
	}
	current, err := s.Nodes.GetNodeForUpdate(ctx, exec, top.ID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, errAlreadyPurged
	}
	if err != nil {
		return nil, util.LogError("[TrashService] recheck node", err)
	}
	if !current.IsDeleted {
		return nil, fmt.Errorf("%w: %s was restored during deletion", model.ErrValidation, top.ID)
	}

	ids := make([]string, 0, len(refs))
	var fileIDs []string
	var released int64
	for _, ref := range refs {
		ids = append(ids, ref.ID)
		if !ref.IsFolder {
			fileIDs = append(fileIDs, ref.ID)
			released += ref.Size
		}
	}

	paths, err := s.Versions.ListStoragePaths(ctx, exec, fileIDs)
	if err != nil {
		return nil, util.LogError("[TrashService] list storage paths", err)
	}
	if len(paths) > 0 {
		if err := s.Deletions.EnqueueObjectDeletions(ctx, exec, paths); err != nil {
			return nil, util.LogError("[TrashService] queue object deletions", err)
		}
	}
	if len(fileIDs) > 0 {
		if err := s.Shares.DeleteShareLinks(ctx, exec, fileIDs); err != nil {
			return nil, util.LogError("[TrashService] delete share links", err)
		}
		if err := s.Versions.DeleteVersions(ctx, exec, fileIDs); err != nil {
			return nil, util.LogError("[TrashService] delete versions", err)
		}
	}
	if _, err := s.Nodes.DeleteNodes(ctx, exec, ids); err != nil {
		return nil, util.LogError("[TrashService] delete nodes", err)
	}
	if err := s.adjustQuota(ctx, exec, top.OwnerID, -released); err != nil {
		return nil, util.LogError("[TrashService] release quota", err)
	}
	if err := commit(); err != nil {
		return nil, util.LogError("[TrashService] commit purge", err)
	}
	return paths, nil
}

// PurgeExpired : permanently deletes trash entries deleted before the cutoff
func (s *TrashService) PurgeExpired(ctx context.Context, before time.Time) (int, error) {
	total := 0
	failed := map[string]bool{}
	for {
		expired, err := s.Nodes.ListExpiredTrash(ctx, s.Tx.Conn(), before, s.Options.BatchSize)
		if err != nil {
			return total, util.LogError("[TrashService] list expired trash", err)
		}

		progressed := false
		for _, node := range expired {
			if failed[node.ID] {
				continue
			}
			if err := ctx.Err(); err != nil {
				return total, err
			}
			removed, err := s.purge(ctx, node)
			total += removed
			if err != nil {
				failed[node.ID] = true
				logging.Warn("[TrashService] expired entry not purged", zap.String("node", node.ID), zap.Error(err))
				continue
			}
			progressed = true
		}
		if !progressed {
			break
		}
	}

	s.Metrics.TrashPurged(total)
	if total > 0 {
		logging.Info("[TrashService] retention sweep", zap.Time("before", before), zap.Int("nodes", total))
	}
	return total, nil
}

// DrainObjectDeletions : retries queued storage deletes until a pass makes no progress
func (s *TrashService) DrainObjectDeletions(ctx context.Context) (int, error) {
	total := 0
	for {
		paths, err := s.Deletions.ListObjectDeletions(ctx, s.Tx.Conn(), s.Options.BatchSize)
		if err != nil {
			return total, util.LogError("[TrashService] list queued deletions", err)
		}
		if len(paths) == 0 {
			return total, nil
		}

		deleted := s.deleteObjects(ctx, paths)
		total += deleted
		if deleted < len(paths) {
			return total, nil
		}
	}
}

// deleteObjects : deletes and dequeues; failures stay queued with their attempt counter bumped
func (s *TrashService) deleteObjects(ctx context.Context, paths []string) int {
	if len(paths) == 0 {
		return 0
	}
	ctx = context.WithoutCancel(ctx)
	conn := s.Tx.Conn()

	var mu sync.Mutex
	done := make([]string, 0, len(paths))

	var g errgroup.Group
	g.SetLimit(objectDeleteParallelism)
	for _, path := range paths {
		g.Go(func() error {
			err := s.Storage.Delete(ctx, path)
			if errors.Is(err, model.ErrNotFound) {
				err = nil
			}
			s.Metrics.ObjectDeleted(err)
			if err != nil {
				logging.Warn("[TrashService] object delete failed", zap.String("key", path), zap.Error(err))
				if recErr := s.Deletions.RecordObjectDeletionFailure(ctx, conn, path); recErr != nil {
					logging.Warn("[TrashService] failure not recorded", zap.String("key", path), zap.Error(recErr))
				}
				return nil
			}
			mu.Lock()
			done = append(done, path)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(done) > 0 {
		if err := s.Deletions.DequeueObjectDeletions(ctx, conn, done); err != nil {
			logging.Warn("[TrashService] dequeue failed, objects will be deleted again", zap.Error(err))
			return 0
		}
	}
	return len(done)
}
