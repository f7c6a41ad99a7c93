package service

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"cloud-drive/internal/storage"
	"cloud-drive/internal/util"
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"time"
)

type VersionService struct {
	core
}

func NewVersionService(deps Dependencies) *VersionService {
	return &VersionService{core: newCore(deps)}
}

// AppendVersion : next number is max+1 while the owner's quota row and the file row are locked.
// The quota moves by the size difference to the previous current version.
func (s *VersionService) AppendVersion(ctx context.Context, fileID string, content model.ContentRef, actorID string) (version *model.Version, err error) {
	defer s.observe("append_version", time.Now(), &err)

	if content.Size < 0 {
		return nil, fmt.Errorf("%w: negative size", model.ErrValidation)
	}

	exec, rollback, commit, err := s.begin(ctx, "VersionService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	if _, err = s.lockTree(ctx, exec, actorID); err != nil {
		return nil, util.LogError("[VersionService] lock tree", err)
	}
	file, err := s.loadLiveFile(ctx, exec, actorID, fileID, true)
	if err != nil {
		return nil, util.LogError("[VersionService] load file", err)
	}

	latest, err := s.Versions.MaxVersionNumber(ctx, exec, fileID)
	if err != nil {
		return nil, util.LogError("[VersionService] read latest version", err)
	}
	if err = s.adjustQuota(ctx, exec, actorID, content.Size-file.Size); err != nil {
		return nil, util.LogError("[VersionService] adjust quota", err)
	}

	now := s.now()
	version = &model.Version{
		FileID:        fileID,
		VersionNumber: latest + 1,
		StoragePath:   content.StoragePath,
		Size:          content.Size,
		Checksum:      content.Checksum,
		CreatedAt:     now,
		CreatedBy:     actorID,
	}
	if err = s.Versions.InsertVersion(ctx, exec, version); err != nil {
		return nil, util.LogError("[VersionService] insert version", err)
	}
	if err = s.Nodes.UpdateContent(ctx, exec, fileID, content, version.VersionNumber, actorID, now); err != nil {
		return nil, util.LogError("[VersionService] point file at new version", err)
	}
	if file, err = s.Nodes.GetNode(ctx, exec, fileID); err != nil {
		return nil, util.LogError("[VersionService] reload file", err)
	}
	if err = commit(); err != nil {
		return nil, util.LogError("[VersionService] commit version", err)
	}

	logging.Info("[VersionService] version appended",
		zap.String("file", fileID), zap.Int("version", version.VersionNumber), zap.Int64("size", content.Size))
	s.publishNode(ctx, model.EventFileUpdated, file, actorID)
	return version, nil
}

// UploadVersion : stores new content for an existing file and appends it
func (s *VersionService) UploadVersion(ctx context.Context, actorID, fileID string, content []byte) (version *model.Version, err error) {
	defer s.observe("upload_version", time.Now(), &err)

	file, err := s.loadLiveFile(ctx, s.Tx.Conn(), actorID, fileID, false)
	if err != nil {
		return nil, util.LogError("[VersionService] load file", err)
	}

	ref := model.ContentRef{
		StoragePath: storage.ObjectKey(actorID, fileID),
		Size:        int64(len(content)),
		Checksum:    checksum(content),
	}
	if err = s.Storage.Put(ctx, ref.StoragePath, content, file.MimeType); err != nil {
		s.markSyncError(ctx, fileID, err)
		return nil, util.LogError("[VersionService] store version", err)
	}

	if version, err = s.AppendVersion(ctx, fileID, ref, actorID); err != nil {
		s.deleteObjectQuietly(context.WithoutCancel(ctx), ref.StoragePath, "VersionService")
		return nil, err
	}
	return version, nil
}

// ListVersions : newest first
func (s *VersionService) ListVersions(ctx context.Context, actorID, fileID string) ([]model.Version, error) {
	conn := s.Tx.Conn()
	file, err := s.loadOwned(ctx, conn, actorID, fileID, false)
	if err != nil {
		return nil, util.LogError("[VersionService] load file", err)
	}
	if file.IsFolder {
		return nil, fmt.Errorf("%w: folders have no versions", model.ErrValidation)
	}

	versions, err := s.Versions.ListVersions(ctx, conn, fileID)
	if err != nil {
		return nil, util.LogError("[VersionService] list versions", err)
	}
	return versions, nil
}

// RestoreVersion : copies version n forward as a new version; n itself is never touched
func (s *VersionService) RestoreVersion(ctx context.Context, actorID, fileID string, number int) (version *model.Version, err error) {
	defer s.observe("restore_version", time.Now(), &err)

	conn := s.Tx.Conn()
	if _, err = s.loadLiveFile(ctx, conn, actorID, fileID, false); err != nil {
		return nil, util.LogError("[VersionService] load file", err)
	}
	source, err := s.Versions.GetVersion(ctx, conn, fileID, number)
	if err != nil {
		return nil, util.LogError("[VersionService] load version", err)
	}

	ref := model.ContentRef{
		StoragePath: storage.ObjectKey(actorID, fileID),
		Size:        source.Size,
		Checksum:    source.Checksum,
	}
	if err = s.Storage.Copy(ctx, source.StoragePath, ref.StoragePath); err != nil {
		s.markSyncError(ctx, fileID, err)
		return nil, util.LogError("[VersionService] copy version content", err)
	}

	if version, err = s.AppendVersion(ctx, fileID, ref, actorID); err != nil {
		s.deleteObjectQuietly(context.WithoutCancel(ctx), ref.StoragePath, "VersionService")
		return nil, err
	}
	logging.Info("[VersionService] version restored",
		zap.String("file", fileID), zap.Int("from", number), zap.Int("to", version.VersionNumber))
	return version, nil
}

func (s *VersionService) GetDownloadRef(ctx context.Context, actorID, fileID string, number int) (*model.AccessRef, error) {
	return s.accessRef(ctx, actorID, fileID, number, model.AccessDownload)
}

func (s *VersionService) GetPreviewRef(ctx context.Context, actorID, fileID string, number int) (*model.AccessRef, error) {
	return s.accessRef(ctx, actorID, fileID, number, model.AccessPreview)
}

func (s *VersionService) accessRef(ctx context.Context, actorID, fileID string, number int, mode model.AccessMode) (*model.AccessRef, error) {
	conn := s.Tx.Conn()
	file, err := s.loadLiveFile(ctx, conn, actorID, fileID, false)
	if err != nil {
		return nil, util.LogError("[VersionService] load file", err)
	}
	version, err := s.Versions.GetVersion(ctx, conn, fileID, number)
	if err != nil {
		return nil, util.LogError("[VersionService] load version", err)
	}
	return signedAccess(ctx, &s.core, file, version.StoragePath, mode)
}

// signedAccess : time-limited reference for one stored object
func signedAccess(ctx context.Context, c *core, file *model.Node, key string, mode model.AccessMode) (*model.AccessRef, error) {
	ttl := c.Options.SignedURLTTL
	expiresAt := c.now().Add(ttl)

	url, err := c.Storage.SignedURL(ctx, key, ttl, model.AccessOptions{
		Mode:        mode,
		Filename:    file.Name,
		ContentType: file.MimeType,
	})
	if err != nil {
		return nil, util.LogError("[Drive] sign url", err)
	}
	return &model.AccessRef{URL: url, ExpiresAt: expiresAt}, nil
}

// markSyncError : storage gave up, so the file must not stay in syncing
// markSyncError : walks the file through syncing into error so the sync state machine holds
func (s *VersionService) markSyncError(ctx context.Context, fileID string, cause error) {
	if !errors.Is(cause, model.ErrStorageUnavailable) {
		return
	}
	if err := s.recordSyncError(context.WithoutCancel(ctx), fileID); err != nil {
		logging.Warn("[VersionService] sync status not recorded", zap.String("file", fileID), zap.Error(err))
		return
	}
	logging.Warn("[VersionService] file marked as sync error", zap.String("file", fileID), zap.Error(cause))
}

func (s *VersionService) recordSyncError(ctx context.Context, fileID string) error {
	exec, rollback, commit, err := s.begin(ctx, "VersionService")
	if err != nil {
		return err
	}
	defer rollback()

	file, err := s.Nodes.GetNodeForUpdate(ctx, exec, fileID)
	if err != nil {
		return err
	}
	status := file.SyncStatus
	for _, next := range []model.SyncStatus{model.SyncStatusSyncing, model.SyncStatusError} {
		if status == model.SyncStatusError {
			break
		}
		if status == next {
			continue
		}
		if err := checkSyncTransition(status, next); err != nil {
			return err
		}
		if err := s.Nodes.UpdateSyncStatus(ctx, exec, fileID, next, s.now()); err != nil {
			return err
		}
		status = next
	}
	return commit()
}
