package memory

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/repository"
	"context"
	"github.com/jmoiron/sqlx"
	"sort"
)

func (s *Store) InsertVersion(ctx context.Context, exec sqlx.ExtContext, version *model.Version) error {
	return s.run(exec, func(d *state) error {
		if _, ok := d.nodes[version.FileID]; !ok {
			return errForeignKey
		}
		for _, v := range d.versions[version.FileID] {
			if v.VersionNumber == version.VersionNumber {
				return errDuplicate
			}
		}
		d.versions[version.FileID] = append(d.versions[version.FileID], *version)
		return nil
	})
}

func (s *Store) MaxVersionNumber(ctx context.Context, exec sqlx.ExtContext, fileID string) (int, error) {
	max := 0
	err := s.run(exec, func(d *state) error {
		for _, v := range d.versions[fileID] {
			if v.VersionNumber > max {
				max = v.VersionNumber
			}
		}
		return nil
	})
	return max, err
}

func (s *Store) ListVersions(ctx context.Context, exec sqlx.ExtContext, fileID string) ([]model.Version, error) {
	var versions []model.Version
	err := s.run(exec, func(d *state) error {
		versions = append([]model.Version{}, d.versions[fileID]...)
		return nil
	})
	sort.Slice(versions, func(i, j int) bool { return versions[i].VersionNumber > versions[j].VersionNumber })
	return versions, err
}

func (s *Store) GetVersion(ctx context.Context, exec sqlx.ExtContext, fileID string, number int) (*model.Version, error) {
	var found *model.Version
	err := s.run(exec, func(d *state) error {
		for _, v := range d.versions[fileID] {
			if v.VersionNumber == number {
				v := v
				found = &v
				return nil
			}
		}
		return model.ErrVersionNotFound
	})
	return found, err
}

func (s *Store) ListStoragePaths(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) ([]string, error) {
	seen := map[string]bool{}
	paths := []string{}
	err := s.run(exec, func(d *state) error {
		for _, id := range fileIDs {
			for _, v := range d.versions[id] {
				if !seen[v.StoragePath] {
					seen[v.StoragePath] = true
					paths = append(paths, v.StoragePath)
				}
			}
		}
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

func (s *Store) DeleteVersions(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) error {
	return s.run(exec, func(d *state) error {
		for _, id := range fileIDs {
			delete(d.versions, id)
		}
		return nil
	})
}

func (s *Store) EnsureQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string, defaultLimit int64) error {
	return s.run(exec, func(d *state) error {
		if _, ok := d.quotas[ownerID]; !ok {
			d.quotas[ownerID] = model.Quota{OwnerID: ownerID, StorageLimit: defaultLimit, UpdatedAt: s.now()}
		}
		return nil
	})
}

func (s *Store) GetQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error) {
	var found *model.Quota
	err := s.run(exec, func(d *state) error {
		q, ok := d.quotas[ownerID]
		if !ok {
			return model.ErrNotFound
		}
		found = &q
		return nil
	})
	return found, err
}

// LockQuota : the transaction already holds the store lock
func (s *Store) LockQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error) {
	return s.GetQuota(ctx, exec, ownerID)
}

func (s *Store) AdjustUsage(ctx context.Context, exec sqlx.ExtContext, ownerID string, delta int64) (*model.Quota, error) {
	var updated *model.Quota
	err := s.run(exec, func(d *state) error {
		q, ok := d.quotas[ownerID]
		if !ok || !q.Allows(delta) {
			return model.ErrQuotaExceeded
		}
		q.StorageUsed += delta
		if q.StorageUsed < 0 {
			repository.ReportUsageUnderflow(ownerID, delta, q.StorageUsed)
			q.StorageUsed = 0
		}
		q.UpdatedAt = s.now()
		d.quotas[ownerID] = q
		updated = &q
		return nil
	})
	return updated, err
}

func (s *Store) SetLimit(ctx context.Context, exec sqlx.ExtContext, ownerID string, limit int64) (*model.Quota, error) {
	var updated *model.Quota
	err := s.run(exec, func(d *state) error {
		q := d.quotas[ownerID]
		q.OwnerID, q.StorageLimit, q.UpdatedAt = ownerID, limit, s.now()
		d.quotas[ownerID] = q
		updated = &q
		return nil
	})
	return updated, err
}

func (s *Store) CreateShareLink(ctx context.Context, exec sqlx.ExtContext, link *model.ShareLink) error {
	return s.run(exec, func(d *state) error {
		if _, ok := d.nodes[link.FileID]; !ok {
			return errForeignKey
		}
		if _, ok := d.shares[link.ShareID]; ok {
			return errDuplicate
		}
		d.shares[link.ShareID] = *link
		return nil
	})
}

func (s *Store) ShareIDExists(ctx context.Context, exec sqlx.ExtContext, shareID string) (bool, error) {
	var exists bool
	err := s.run(exec, func(d *state) error {
		_, exists = d.shares[shareID]
		return nil
	})
	return exists, err
}

func (s *Store) GetShareLink(ctx context.Context, exec sqlx.ExtContext, shareID string) (*model.ShareLink, error) {
	var found *model.ShareLink
	err := s.run(exec, func(d *state) error {
		l, ok := d.shares[shareID]
		if !ok {
			return model.ErrNotFound
		}
		found = &l
		return nil
	})
	return found, err
}

func (s *Store) RevokeShareLink(ctx context.Context, exec sqlx.ExtContext, shareID string) error {
	return s.run(exec, func(d *state) error {
		l, ok := d.shares[shareID]
		if !ok {
			return model.ErrNotFound
		}
		l.Revoked = true
		d.shares[shareID] = l
		return nil
	})
}

func (s *Store) ListShareLinks(ctx context.Context, exec sqlx.ExtContext, fileID string) ([]model.ShareLink, error) {
	links := []model.ShareLink{}
	err := s.run(exec, func(d *state) error {
		for _, l := range d.shares {
			if l.FileID == fileID {
				links = append(links, l)
			}
		}
		return nil
	})
	sort.Slice(links, func(i, j int) bool {
		if !links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].CreatedAt.After(links[j].CreatedAt)
		}
		return links[i].ShareID < links[j].ShareID
	})
	return links, err
}

func (s *Store) DeleteShareLinks(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) error {
	doomed := make(map[string]bool, len(fileIDs))
	for _, id := range fileIDs {
		doomed[id] = true
	}
	return s.run(exec, func(d *state) error {
		for id, l := range d.shares {
			if doomed[l.FileID] {
				delete(d.shares, id)
			}
		}
		return nil
	})
}

func (s *Store) EnqueueObjectDeletions(ctx context.Context, exec sqlx.ExtContext, paths []string) error {
	return s.run(exec, func(d *state) error {
		for _, p := range paths {
			if _, ok := d.deletions[p]; !ok {
				d.deletions[p] = pendingDeletion{enqueuedAt: s.now()}
			}
		}
		return nil
	})
}

func (s *Store) ListObjectDeletions(ctx context.Context, exec sqlx.ExtContext, limit int) ([]string, error) {
	type entry struct {
		path string
		pendingDeletion
	}
	var entries []entry
	err := s.run(exec, func(d *state) error {
		for p, pd := range d.deletions {
			entries = append(entries, entry{p, pd})
		}
		return nil
	})
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.attempts != b.attempts {
			return a.attempts < b.attempts
		}
		if !a.enqueuedAt.Equal(b.enqueuedAt) {
			return a.enqueuedAt.Before(b.enqueuedAt)
		}
		return a.path < b.path
	})

	paths := []string{}
	for _, e := range entries {
		if limit > 0 && len(paths) == limit {
			break
		}
		paths = append(paths, e.path)
	}
	return paths, err
}

func (s *Store) DequeueObjectDeletions(ctx context.Context, exec sqlx.ExtContext, paths []string) error {
	return s.run(exec, func(d *state) error {
		for _, p := range paths {
			delete(d.deletions, p)
		}
		return nil
	})
}

func (s *Store) RecordObjectDeletionFailure(ctx context.Context, exec sqlx.ExtContext, path string) error {
	return s.run(exec, func(d *state) error {
		if pd, ok := d.deletions[path]; ok {
			pd.attempts++
			d.deletions[path] = pd
		}
		return nil
	})
}
