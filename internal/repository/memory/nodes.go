package memory

import (
	"cloud-drive/internal/model"
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
	"sort"
	"strings"
	"time"
)

func copyNode(n model.Node) *model.Node {
	n.Tags = append([]string{}, n.Tags...)
	return &n
}

func liveSiblingConflict(d *state, parentID *string, name, exceptID string) bool {
	if parentID == nil {
		return false
	}
	for id, n := range d.nodes {
		if id != exceptID && !n.IsDeleted && n.ParentID != nil && *n.ParentID == *parentID && n.Name == name {
			return true
		}
	}
	return false
}

func conflictErr(name string) error {
	return fmt.Errorf("%w: %q already exists", model.ErrNameConflict, name)
}

func (s *Store) CreateNode(ctx context.Context, exec sqlx.ExtContext, node *model.Node) error {
	return s.run(exec, func(d *state) error {
		if _, ok := d.nodes[node.ID]; ok {
			return errDuplicate
		}
		if node.ParentID == nil {
			for _, n := range d.nodes {
				if n.OwnerID == node.OwnerID && n.ParentID == nil {
					return conflictErr(node.Name)
				}
			}
		} else if _, ok := d.nodes[*node.ParentID]; !ok {
			return errForeignKey
		}
		if liveSiblingConflict(d, node.ParentID, node.Name, node.ID) {
			return conflictErr(node.Name)
		}
		d.nodes[node.ID] = *copyNode(*node)
		return nil
	})
}

func (s *Store) getWhere(exec sqlx.ExtContext, match func(n *model.Node) bool) (*model.Node, error) {
	var found *model.Node
	err := s.run(exec, func(d *state) error {
		for _, n := range d.nodes {
			if match(&n) {
				found = copyNode(n)
				return nil
			}
		}
		return model.ErrNotFound
	})
	return found, err
}

func (s *Store) GetNode(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Node, error) {
	var found *model.Node
	err := s.run(exec, func(d *state) error {
		n, ok := d.nodes[id]
		if !ok {
			return model.ErrNotFound
		}
		found = copyNode(n)
		return nil
	})
	return found, err
}

func (s *Store) GetNodeForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Node, error) {
	return s.GetNode(ctx, exec, id)
}

func (s *Store) GetRoot(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Node, error) {
	return s.getWhere(exec, func(n *model.Node) bool {
		return n.OwnerID == ownerID && n.ParentID == nil
	})
}

func (s *Store) FindChildByName(ctx context.Context, exec sqlx.ExtContext, parentID, name string) (*model.Node, error) {
	return s.getWhere(exec, func(n *model.Node) bool {
		return !n.IsDeleted && n.ParentKey() == parentID && n.ParentID != nil && n.Name == name
	})
}

func (s *Store) selectWhere(exec sqlx.ExtContext, match func(n *model.Node) bool, less func(a, b *model.Node) bool, limit int) ([]*model.Node, error) {
	out := []*model.Node{}
	err := s.run(exec, func(d *state) error {
		for _, n := range d.nodes {
			if match(&n) {
				out = append(out, copyNode(n))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func compareField(a, b *model.Node, field model.SortField) int {
	switch field {
	case model.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case model.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case model.SortBySize:
		switch {
		case a.Size < b.Size:
			return -1
		case a.Size > b.Size:
			return 1
		}
		return 0
	}
	return strings.Compare(a.Name, b.Name)
}

func (s *Store) ListChildren(ctx context.Context, exec sqlx.ExtContext, parentID string, opts model.ListOptions) ([]*model.Node, error) {
	opts = opts.Normalize()
	sign := 1
	if opts.Descending {
		sign = -1
	}

	return s.selectWhere(exec,
		func(n *model.Node) bool {
			return n.ParentID != nil && *n.ParentID == parentID && (opts.IncludeDeleted || !n.IsDeleted)
		},
		func(a, b *model.Node) bool {
			if c := compareField(a, b, opts.Sort); c != 0 {
				return c*sign < 0
			}
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c*sign < 0
			}
			return a.ID < b.ID
		}, 0)
}

func newestFirst(a, b *model.Node) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID < b.ID
}

func (s *Store) ListRecent(ctx context.Context, exec sqlx.ExtContext, ownerID string, mimePrefixes []string, limit int) ([]*model.Node, error) {
	return s.selectWhere(exec, func(n *model.Node) bool {
		if n.OwnerID != ownerID || n.IsFolder || n.IsDeleted {
			return false
		}
		if len(mimePrefixes) == 0 {
			return true
		}
		for _, prefix := range mimePrefixes {
			if strings.HasPrefix(n.MimeType, prefix) {
				return true
			}
		}
		return false
	}, newestFirst, limit)
}

func (s *Store) update(exec sqlx.ExtContext, id string, fn func(d *state, n *model.Node) error) error {
	return s.run(exec, func(d *state) error {
		n, ok := d.nodes[id]
		if !ok {
			return model.ErrNotFound
		}
		if err := fn(d, &n); err != nil {
			return err
		}
		d.nodes[id] = n
		return nil
	})
}

func (s *Store) UpdateName(ctx context.Context, exec sqlx.ExtContext, id, name, actorID string, at time.Time) error {
	return s.update(exec, id, func(d *state, n *model.Node) error {
		if !n.IsDeleted && liveSiblingConflict(d, n.ParentID, name, id) {
			return conflictErr(name)
		}
		n.Name, n.UpdatedAt, n.LastModifiedBy = name, at, actorID
		return nil
	})
}

func (s *Store) UpdateParent(ctx context.Context, exec sqlx.ExtContext, id, parentID, actorID string, at time.Time) error {
	return s.update(exec, id, func(d *state, n *model.Node) error {
		if _, ok := d.nodes[parentID]; !ok {
			return errForeignKey
		}
		if !n.IsDeleted && liveSiblingConflict(d, &parentID, n.Name, id) {
			return conflictErr(n.Name)
		}
		n.ParentID, n.UpdatedAt, n.LastModifiedBy = &parentID, at, actorID
		return nil
	})
}

func (s *Store) UpdateFavorite(ctx context.Context, exec sqlx.ExtContext, id string, favorite bool, actorID string, at time.Time) error {
	return s.update(exec, id, func(d *state, n *model.Node) error {
		n.IsFavorite, n.UpdatedAt, n.LastModifiedBy = favorite, at, actorID
		return nil
	})
}

func (s *Store) UpdateTags(ctx context.Context, exec sqlx.ExtContext, id string, tags []string, actorID string, at time.Time) error {
	return s.update(exec, id, func(d *state, n *model.Node) error {
		n.Tags, n.UpdatedAt, n.LastModifiedBy = append([]string{}, tags...), at, actorID
		return nil
	})
}

func (s *Store) UpdateContent(ctx context.Context, exec sqlx.ExtContext, id string, content model.ContentRef, version int, actorID string, at time.Time) error {
	return s.update(exec, id, func(d *state, n *model.Node) error {
		n.StoragePath, n.Size, n.CurrentVersion = content.StoragePath, content.Size, version
		n.SyncStatus, n.UpdatedAt, n.LastModifiedBy = model.SyncStatusSyncing, at, actorID
		return nil
	})
}

func (s *Store) UpdateSyncStatus(ctx context.Context, exec sqlx.ExtContext, id string, status model.SyncStatus, at time.Time) error {
	return s.update(exec, id, func(d *state, n *model.Node) error {
		n.SyncStatus, n.UpdatedAt = status, at
		return nil
	})
}

func (s *Store) ListBySyncStatus(ctx context.Context, exec sqlx.ExtContext, ownerID string) ([]*model.Node, error) {
	return s.selectWhere(exec, func(n *model.Node) bool {
		return n.OwnerID == ownerID && !n.IsFolder && !n.IsDeleted && n.SyncStatus != model.SyncStatusSynced
	}, newestFirst, 0)
}

func (s *Store) MarkRootDeleted(ctx context.Context, exec sqlx.ExtContext, id, batchID string, at time.Time) error {
	return s.update(exec, id, func(d *state, n *model.Node) error {
		if n.IsDeleted {
			return model.ErrNotFound
		}
		markDeleted(n, batchID, at)
		return nil
	})
}

func markDeleted(n *model.Node, batchID string, at time.Time) {
	batch, deletedAt := batchID, at
	n.IsDeleted, n.DeletedAt, n.DeletedBatchID = true, &deletedAt, &batch
}

func clearDeleted(n *model.Node, at time.Time) {
	n.IsDeleted, n.DeletedAt, n.DeletedBatchID, n.UpdatedAt = false, nil, nil, at
}

func inBatch(n model.Node, batchID string) bool {
	return n.IsDeleted && n.DeletedBatchID != nil && *n.DeletedBatchID == batchID
}

// sortedIDs : deterministic iteration so limits pick the same rows every run
func sortedIDs(d *state) []string {
	ids := make([]string, 0, len(d.nodes))
	for id := range d.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) MarkChildrenDeleted(ctx context.Context, exec sqlx.ExtContext, batchID string, at time.Time, limit int) (int64, error) {
	var marked int64
	err := s.run(exec, func(d *state) error {
		picked := []string{}
		for _, id := range sortedIDs(d) {
			c := d.nodes[id]
			if c.IsDeleted || c.ParentID == nil {
				continue
			}
			if p, ok := d.nodes[*c.ParentID]; ok && inBatch(p, batchID) {
				picked = append(picked, id)
				if len(picked) == limit {
					break
				}
			}
		}
		for _, id := range picked {
			c := d.nodes[id]
			markDeleted(&c, batchID, at)
			d.nodes[id] = c
		}
		marked = int64(len(picked))
		return nil
	})
	return marked, err
}

func (s *Store) ListInterruptedBatches(ctx context.Context, exec sqlx.ExtContext, limit int) ([]string, error) {
	batches := []string{}
	err := s.run(exec, func(d *state) error {
		seen := map[string]bool{}
		for _, id := range sortedIDs(d) {
			c := d.nodes[id]
			if c.IsDeleted || c.ParentID == nil {
				continue
			}
			p := d.nodes[*c.ParentID]
			if !p.IsDeleted || p.DeletedBatchID == nil || seen[*p.DeletedBatchID] {
				continue
			}
			seen[*p.DeletedBatchID] = true
			batches = append(batches, *p.DeletedBatchID)
			if len(batches) == limit {
				break
			}
		}
		return nil
	})
	return batches, err
}

func (s *Store) GetBatchRoots(ctx context.Context, exec sqlx.ExtContext, batchID string) ([]*model.Node, error) {
	var roots []*model.Node
	err := s.run(exec, func(d *state) error {
		for _, id := range sortedIDs(d) {
			n := d.nodes[id]
			if !inBatch(n, batchID) {
				continue
			}
			if n.ParentID != nil {
				if p, ok := d.nodes[*n.ParentID]; ok && inBatch(p, batchID) {
					continue
				}
			}
			roots = append(roots, copyNode(n))
		}
		return nil
	})
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].CreatedAt.Before(roots[j].CreatedAt) })
	return roots, err
}

func (s *Store) RestoreNode(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) error {
	return s.update(exec, id, func(d *state, n *model.Node) error {
		if !n.IsDeleted {
			return model.ErrNotFound
		}
		if liveSiblingConflict(d, n.ParentID, n.Name, id) {
			return conflictErr(n.Name)
		}
		clearDeleted(n, at)
		return nil
	})
}

func (s *Store) RestoreBatchChildren(ctx context.Context, exec sqlx.ExtContext, batchID string, at time.Time, limit int) (int64, error) {
	var restored int64
	err := s.run(exec, func(d *state) error {
		picked := []string{}
		for _, id := range sortedIDs(d) {
			c := d.nodes[id]
			if !inBatch(c, batchID) || c.ParentID == nil {
				continue
			}
			if p, ok := d.nodes[*c.ParentID]; ok && !p.IsDeleted {
				picked = append(picked, id)
				if len(picked) == limit {
					break
				}
			}
		}
		for _, id := range picked {
			c := d.nodes[id]
			if liveSiblingConflict(d, c.ParentID, c.Name, id) {
				return conflictErr(c.Name)
			}
		}
		for _, id := range picked {
			c := d.nodes[id]
			clearDeleted(&c, at)
			d.nodes[id] = c
		}
		restored = int64(len(picked))
		return nil
	})
	return restored, err
}

func (s *Store) ListTrash(ctx context.Context, exec sqlx.ExtContext, ownerID string) ([]*model.Node, error) {
	return s.selectWhere(exec,
		func(n *model.Node) bool { return n.OwnerID == ownerID && n.IsDeleted },
		func(a, b *model.Node) bool {
			if !a.DeletedAt.Equal(*b.DeletedAt) {
				return a.DeletedAt.After(*b.DeletedAt)
			}
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		}, 0)
}

func (s *Store) ListExpiredTrash(ctx context.Context, exec sqlx.ExtContext, before time.Time, limit int) ([]*model.Node, error) {
	var sameBatchAsParent map[string]bool
	err := s.run(exec, func(d *state) error {
		sameBatchAsParent = make(map[string]bool, len(d.nodes))
		for id, n := range d.nodes {
			if n.ParentID != nil && n.DeletedBatchID != nil {
				sameBatchAsParent[id] = inBatch(d.nodes[*n.ParentID], *n.DeletedBatchID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.selectWhere(exec,
		func(n *model.Node) bool {
			return n.IsDeleted && n.DeletedAt != nil && n.DeletedAt.Before(before) && !sameBatchAsParent[n.ID]
		},
		func(a, b *model.Node) bool {
			if !a.DeletedAt.Equal(*b.DeletedAt) {
				return a.DeletedAt.Before(*b.DeletedAt)
			}
			return a.ID < b.ID
		}, limit)
}

func (s *Store) ListChildRefs(ctx context.Context, exec sqlx.ExtContext, parentIDs []string) ([]model.NodeRef, error) {
	refs := []model.NodeRef{}
	wanted := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	err := s.run(exec, func(d *state) error {
		for _, id := range sortedIDs(d) {
			n := d.nodes[id]
			if n.ParentID != nil && wanted[*n.ParentID] {
				refs = append(refs, model.NodeRef{ID: n.ID, IsFolder: n.IsFolder, Size: n.Size})
			}
		}
		return nil
	})
	return refs, err
}

// DeleteNodes : refuses to orphan children, versions or share links, like the foreign keys do
func (s *Store) DeleteNodes(ctx context.Context, exec sqlx.ExtContext, ids []string) (int64, error) {
	var deleted int64
	err := s.run(exec, func(d *state) error {
		doomed := make(map[string]bool, len(ids))
		for _, id := range ids {
			doomed[id] = true
		}
		for id, n := range d.nodes {
			if !doomed[id] && n.ParentID != nil && doomed[*n.ParentID] {
				return errForeignKey
			}
		}
		for id := range doomed {
			if len(d.versions[id]) > 0 {
				return errForeignKey
			}
		}
		for _, l := range d.shares {
			if doomed[l.FileID] {
				return errForeignKey
			}
		}
		for id := range doomed {
			if _, ok := d.nodes[id]; ok {
				delete(d.nodes, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}
