package service_test

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/service"
	"context"
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

const (
	ownerID    = "owner-1"
	strangerID = "owner-2"
	rootID     = "0b6c2f1e-0000-4000-8000-000000000001"
	folderID   = "0b6c2f1e-0000-4000-8000-000000000002"
	fileID     = "0b6c2f1e-0000-4000-8000-000000000003"
	shareID    = "0123456789abcdef0123456789abcdef"
)

var (
	_ ports.NodeService    = (*service.NodeService)(nil)
	_ ports.VersionService = (*service.VersionService)(nil)
	_ ports.TrashService   = (*service.TrashService)(nil)
	_ ports.ShareService   = (*service.ShareService)(nil)
	_ ports.SyncService    = (*service.SyncService)(nil)
	_ ports.QuotaService   = (*service.QuotaService)(nil)
)

func rootNode() *model.Node {
	return &model.Node{ID: rootID, OwnerID: ownerID, IsFolder: true, SyncStatus: model.SyncStatusSynced}
}

func liveFile(size int64) *model.Node {
	parent := rootID
	return &model.Node{
		ID:             fileID,
		OwnerID:        ownerID,
		ParentID:       &parent,
		Name:           "a.txt",
		MimeType:       "text/plain",
		Size:           size,
		StoragePath:    "users/owner-1/files/" + fileID + "/v1",
		CurrentVersion: 1,
		SyncStatus:     model.SyncStatusSynced,
	}
}

func TestCreateFolderNameConflict(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewNodeService(deps)

	m.expectTreeLock(ownerID, &model.Quota{OwnerID: ownerID, StorageLimit: 100})
	m.nodes.On("GetRoot", mock.Anything, m.tx.tx, ownerID).Return(rootNode(), nil)
	m.nodes.On("FindChildByName", mock.Anything, m.tx.tx, rootID, "Docs").
		Return(&model.Node{ID: folderID, Name: "Docs"}, nil)

	folder, err := svc.CreateFolder(context.Background(), ownerID, "", "Docs")

	require.ErrorIs(t, err, model.ErrNameConflict)
	assert.Nil(t, folder)
	m.nodes.AssertNotCalled(t, "CreateNode", mock.Anything, mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, m.tx.commits)
}

func TestCreateFolderPublishesAfterCommit(t *testing.T) {
	tests := []struct {
		name       string
		publishErr error
	}{
		{name: "notifier accepts", publishErr: nil},
		{name: "notifier down does not fail the call", publishErr: errors.New("redis gone")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, m := newTestDependencies()
			svc := service.NewNodeService(deps)

			m.expectTreeLock(ownerID, &model.Quota{OwnerID: ownerID, StorageLimit: 100})
			m.nodes.On("GetRoot", mock.Anything, m.tx.tx, ownerID).Return(rootNode(), nil)
			m.nodes.On("FindChildByName", mock.Anything, m.tx.tx, rootID, "Docs").Return(nil, model.ErrNotFound)
			m.nodes.On("CreateNode", mock.Anything, m.tx.tx, mock.AnythingOfType("*model.Node")).Return(nil)

			var commitsAtPublish int
			m.notifier.On("Publish", mock.Anything, ownerID, mock.MatchedBy(func(e model.Event) bool {
				return e.Name == model.EventFolderCreated && e.Version == model.EventSchemaVersion
			})).Run(func(mock.Arguments) {
				commitsAtPublish = m.tx.commits
			}).Return(tt.publishErr)

			folder, err := svc.CreateFolder(context.Background(), ownerID, "", "Docs")

			require.NoError(t, err)
			assert.Equal(t, "Docs", folder.Name)
			assert.Equal(t, rootID, folder.ParentKey())
			assert.True(t, folder.IsFolder)
			assert.Equal(t, 1, commitsAtPublish)
			m.notifier.AssertExpectations(t)
		})
	}
}

func TestCreateFolderRejectsForeignParent(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewNodeService(deps)

	m.expectTreeLock(strangerID, &model.Quota{OwnerID: strangerID, StorageLimit: 100})
	m.nodes.On("GetNode", mock.Anything, m.tx.tx, folderID).
		Return(&model.Node{ID: folderID, OwnerID: ownerID, IsFolder: true}, nil)

	_, err := svc.CreateFolder(context.Background(), strangerID, folderID, "Mine")

	require.ErrorIs(t, err, model.ErrNotFound)
	m.nodes.AssertNotCalled(t, "CreateNode", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadFileQuotaPrecheck(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewNodeService(deps)

	m.quotas.On("EnsureQuota", mock.Anything, m.tx.tx, ownerID, int64(100)).Return(nil)
	m.quotas.On("GetQuota", mock.Anything, m.tx.tx, ownerID).
		Return(&model.Quota{OwnerID: ownerID, StorageUsed: 95, StorageLimit: 100}, nil)

	_, err := svc.UploadFile(context.Background(), ownerID, "", "big.bin", "", make([]byte, 10))

	require.ErrorIs(t, err, model.ErrQuotaExceeded)
	m.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadFileRemovesObjectWhenCreateFails(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewNodeService(deps)
	content := []byte("hello, plain text")

	m.quotas.On("GetQuota", mock.Anything, m.tx.tx, ownerID).
		Return(&model.Quota{OwnerID: ownerID, StorageLimit: 100}, nil)
	m.expectTreeLock(ownerID, &model.Quota{OwnerID: ownerID, StorageLimit: 100})
	m.nodes.On("GetRoot", mock.Anything, m.tx.tx, ownerID).Return(rootNode(), nil)
	m.nodes.On("FindChildByName", mock.Anything, m.tx.tx, rootID, "a.txt").Return(nil, model.ErrNotFound)
	m.quotas.On("AdjustUsage", mock.Anything, m.tx.tx, ownerID, int64(len(content))).Return(nil, model.ErrQuotaExceeded)

	var storedKey, storedType string
	m.storage.On("Put", mock.Anything, mock.AnythingOfType("string"), content, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			storedKey = args.String(1)
			storedType = args.String(3)
		}).Return(nil)
	m.storage.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	_, err := svc.UploadFile(context.Background(), ownerID, "", "a.txt", "", content)

	require.ErrorIs(t, err, model.ErrQuotaExceeded)
	assert.Equal(t, "text/plain", storedType)
	m.storage.AssertCalled(t, "Delete", mock.Anything, storedKey)
	m.nodes.AssertNotCalled(t, "CreateNode", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, m.tx.commits)
}

func TestAppendVersionLocksQuotaBeforeFile(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewVersionService(deps)

	var order []string
	m.quotas.On("EnsureQuota", mock.Anything, m.tx.tx, ownerID, int64(100)).Return(nil)
	m.quotas.On("LockQuota", mock.Anything, m.tx.tx, ownerID).
		Run(func(mock.Arguments) { order = append(order, "quota") }).
		Return(&model.Quota{OwnerID: ownerID, StorageUsed: 10, StorageLimit: 100}, nil)
	m.nodes.On("GetNodeForUpdate", mock.Anything, m.tx.tx, fileID).
		Run(func(mock.Arguments) { order = append(order, "file") }).
		Return(liveFile(10), nil)
	m.versions.On("MaxVersionNumber", mock.Anything, m.tx.tx, fileID).Return(3, nil)
	m.quotas.On("AdjustUsage", mock.Anything, m.tx.tx, ownerID, int64(15)).
		Return(&model.Quota{OwnerID: ownerID, StorageUsed: 25, StorageLimit: 100}, nil)
	m.versions.On("InsertVersion", mock.Anything, m.tx.tx, mock.MatchedBy(func(v *model.Version) bool {
		return v.VersionNumber == 4 && v.Size == 25 && v.CreatedBy == ownerID
	})).Return(nil)

	content := model.ContentRef{StoragePath: "users/owner-1/files/x/v4", Size: 25, Checksum: "abc"}
	m.nodes.On("UpdateContent", mock.Anything, m.tx.tx, fileID, content, 4, ownerID, testNow).Return(nil)
	updated := liveFile(25)
	updated.CurrentVersion = 4
	m.nodes.On("GetNode", mock.Anything, m.tx.tx, fileID).Return(updated, nil)
	m.notifier.On("Publish", mock.Anything, ownerID, mock.Anything).Return(nil)

	version, err := svc.AppendVersion(context.Background(), fileID, content, ownerID)

	require.NoError(t, err)
	assert.Equal(t, 4, version.VersionNumber)
	assert.Equal(t, []string{"quota", "file"}, order)
	assert.Equal(t, 1, m.tx.commits)
	m.versions.AssertExpectations(t)
	m.nodes.AssertExpectations(t)
}

func TestUploadVersionStorageExhaustionMarksSyncError(t *testing.T) {
	tests := []struct {
		name  string
		from  model.SyncStatus
		steps []model.SyncStatus
	}{
		{name: "synced passes through syncing", from: model.SyncStatusSynced, steps: []model.SyncStatus{model.SyncStatusSyncing, model.SyncStatusError}},
		{name: "syncing fails directly", from: model.SyncStatusSyncing, steps: []model.SyncStatus{model.SyncStatusError}},
		{name: "already failed", from: model.SyncStatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, m := newTestDependencies()
			svc := service.NewVersionService(deps)

			file := liveFile(10)
			file.SyncStatus = tt.from
			m.nodes.On("GetNode", mock.Anything, m.tx.tx, fileID).Return(liveFile(10), nil)
			m.nodes.On("GetNodeForUpdate", mock.Anything, m.tx.tx, fileID).Return(file, nil)
			m.storage.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "text/plain").
				Return(fmt.Errorf("%w: put timed out", model.ErrStorageUnavailable))

			var recorded []model.SyncStatus
			m.nodes.On("UpdateSyncStatus", mock.Anything, m.tx.tx, fileID, mock.Anything, testNow).
				Run(func(args mock.Arguments) {
					recorded = append(recorded, args.Get(3).(model.SyncStatus))
				}).
				Return(nil)

			_, err := svc.UploadVersion(context.Background(), ownerID, fileID, []byte("new content"))

			require.ErrorIs(t, err, model.ErrStorageUnavailable)
			assert.Equal(t, tt.steps, recorded)
			assert.Equal(t, 1, m.tx.commits)
			m.versions.AssertNotCalled(t, "InsertVersion", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGetPreviewRefSignsVersionPath(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewVersionService(deps)

	m.nodes.On("GetNode", mock.Anything, m.tx.tx, fileID).Return(liveFile(10), nil)
	m.versions.On("GetVersion", mock.Anything, m.tx.tx, fileID, 1).
		Return(&model.Version{FileID: fileID, VersionNumber: 1, StoragePath: "users/owner-1/files/f/v1"}, nil)
	m.storage.On("SignedURL", mock.Anything, "users/owner-1/files/f/v1", time.Minute, model.AccessOptions{
		Mode:        model.AccessPreview,
		Filename:    "a.txt",
		ContentType: "text/plain",
	}).Return("https://signed.example/v1", nil)

	ref, err := svc.GetPreviewRef(context.Background(), ownerID, fileID, 1)

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/v1", ref.URL)
	assert.Equal(t, testNow.Add(time.Minute), ref.ExpiresAt)
}

func TestGetDownloadRefMissingVersion(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewVersionService(deps)

	m.nodes.On("GetNode", mock.Anything, m.tx.tx, fileID).Return(liveFile(10), nil)
	m.versions.On("GetVersion", mock.Anything, m.tx.tx, fileID, 9).Return(nil, model.ErrVersionNotFound)

	_, err := svc.GetDownloadRef(context.Background(), ownerID, fileID, 9)

	require.ErrorIs(t, err, model.ErrVersionNotFound)
	m.storage.AssertNotCalled(t, "SignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveShareEvaluatesExpiryAgainstClock(t *testing.T) {
	at := func(d time.Duration) *time.Time {
		v := testNow.Add(d)
		return &v
	}
	tests := []struct {
		name    string
		link    model.ShareLink
		wantErr error
	}{
		{name: "expires exactly now", link: model.ShareLink{ExpiresAt: at(0)}, wantErr: model.ErrShareExpired},
		{name: "expired a nanosecond ago", link: model.ShareLink{ExpiresAt: at(-time.Nanosecond)}, wantErr: model.ErrShareExpired},
		{name: "revoked wins over expiry", link: model.ShareLink{ExpiresAt: at(-time.Hour), Revoked: true}, wantErr: model.ErrShareRevoked},
		{name: "still valid", link: model.ShareLink{ExpiresAt: at(time.Second)}},
		{name: "never expires", link: model.ShareLink{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, m := newTestDependencies()
			svc := service.NewShareService(deps)

			link := tt.link
			link.ShareID, link.FileID, link.Permission, link.CreatedBy = shareID, fileID, model.PermissionView, ownerID
			m.cache.On("GetShareLink", mock.Anything, shareID).Return(&link, nil)
			m.nodes.On("GetNode", mock.Anything, m.tx.tx, fileID).Return(liveFile(10), nil)

			preview, err := svc.Resolve(context.Background(), shareID, "")

			m.shares.AssertNotCalled(t, "GetShareLink", mock.Anything, mock.Anything, mock.Anything)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.SharePreview{Name: "a.txt", Size: 10, MimeType: "text/plain", Permission: model.PermissionView}, *preview)
		})
	}
}

func TestResolveShareFallsBackToDatabase(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewShareService(deps)

	link := &model.ShareLink{ShareID: shareID, FileID: fileID, Permission: model.PermissionView, CreatedBy: ownerID}
	m.cache.On("GetShareLink", mock.Anything, shareID).Return(nil, errors.New("redis timeout"))
	m.shares.On("GetShareLink", mock.Anything, m.tx.tx, shareID).Return(link, nil)
	m.cache.On("SetShareLink", mock.Anything, link).Return(nil)
	m.nodes.On("GetNode", mock.Anything, m.tx.tx, fileID).Return(liveFile(10), nil)

	_, err := svc.Resolve(context.Background(), shareID, "")

	require.NoError(t, err)
	m.cache.AssertCalled(t, "SetShareLink", mock.Anything, link)
}

func TestResolveDownloadConfirmsCachedLinkWithDatabase(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewShareService(deps)

	stale := &model.ShareLink{ShareID: shareID, FileID: fileID, Permission: model.PermissionDownload, CreatedBy: ownerID}
	current := *stale
	current.Revoked = true
	m.cache.On("GetShareLink", mock.Anything, shareID).Return(stale, nil)
	m.shares.On("GetShareLink", mock.Anything, m.tx.tx, shareID).Return(&current, nil)
	m.cache.On("DeleteShareLink", mock.Anything, shareID).Return(nil)

	_, err := svc.ResolveDownload(context.Background(), shareID, "")

	require.ErrorIs(t, err, model.ErrShareRevoked)
	m.cache.AssertCalled(t, "DeleteShareLink", mock.Anything, shareID)
	m.storage.AssertNotCalled(t, "SignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveShareDoesNotCacheRevokedLink(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewShareService(deps)

	link := &model.ShareLink{ShareID: shareID, FileID: fileID, Permission: model.PermissionView, CreatedBy: ownerID, Revoked: true}
	m.cache.On("GetShareLink", mock.Anything, shareID).Return(nil, nil)
	m.shares.On("GetShareLink", mock.Anything, m.tx.tx, shareID).Return(link, nil)

	_, err := svc.Resolve(context.Background(), shareID, "")

	require.ErrorIs(t, err, model.ErrShareRevoked)
	m.cache.AssertNotCalled(t, "SetShareLink", mock.Anything, mock.Anything)
}

func TestResolveShareRejectsMalformedID(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewShareService(deps)

	_, err := svc.Resolve(context.Background(), "../../etc/passwd", "")

	require.ErrorIs(t, err, model.ErrNotFound)
	m.cache.AssertNotCalled(t, "GetShareLink", mock.Anything, mock.Anything)
}

func TestCreateShareLinkValidation(t *testing.T) {
	past := testNow.Add(-time.Minute)
	folder := &model.Node{ID: folderID, OwnerID: ownerID, IsFolder: true}
	trashed := liveFile(10)
	trashed.IsDeleted = true

	tests := []struct {
		name    string
		actor   string
		input   ports.CreateLinkInput
		node    *model.Node
		wantErr error
	}{
		{name: "non owner", actor: strangerID, input: ports.CreateLinkInput{FileID: fileID, Permission: model.PermissionView}, node: liveFile(10), wantErr: model.ErrPermissionDenied},
		{name: "folder", actor: ownerID, input: ports.CreateLinkInput{FileID: folderID, Permission: model.PermissionView}, node: folder, wantErr: model.ErrValidation},
		{name: "trashed file", actor: ownerID, input: ports.CreateLinkInput{FileID: fileID, Permission: model.PermissionView}, node: trashed, wantErr: model.ErrNotFound},
		{name: "expiry in the past", actor: ownerID, input: ports.CreateLinkInput{FileID: fileID, Permission: model.PermissionView, ExpiresAt: &past}, wantErr: model.ErrValidation},
		{name: "unknown permission", actor: ownerID, input: ports.CreateLinkInput{FileID: fileID, Permission: "edit"}, wantErr: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, m := newTestDependencies()
			svc := service.NewShareService(deps)
			if tt.node != nil {
				m.nodes.On("GetNode", mock.Anything, m.tx.tx, tt.node.ID).Return(tt.node, nil)
			}

			_, err := svc.CreateLink(context.Background(), tt.actor, tt.input)

			require.ErrorIs(t, err, tt.wantErr)
			m.shares.AssertNotCalled(t, "CreateShareLink", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateShareLinkRetriesTakenID(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewShareService(deps)

	m.nodes.On("GetNode", mock.Anything, m.tx.tx, fileID).Return(liveFile(10), nil)
	m.shares.On("ShareIDExists", mock.Anything, m.tx.tx, mock.AnythingOfType("string")).Return(true, nil).Once()
	m.shares.On("ShareIDExists", mock.Anything, m.tx.tx, mock.AnythingOfType("string")).Return(false, nil).Once()
	m.shares.On("CreateShareLink", mock.Anything, m.tx.tx, mock.AnythingOfType("*model.ShareLink")).Return(nil)
	m.cache.On("SetShareLink", mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("Publish", mock.Anything, ownerID, mock.MatchedBy(func(e model.Event) bool {
		return e.Name == model.EventFileShared
	})).Return(nil)

	link, err := svc.CreateLink(context.Background(), ownerID, ports.CreateLinkInput{
		FileID:     fileID,
		Permission: model.PermissionDownload,
		Password:   "secret",
	})

	require.NoError(t, err)
	assert.Len(t, link.ShareID, 32)
	assert.True(t, link.HasPassword())
	assert.NotEqual(t, "secret", *link.PasswordHash)
	m.shares.AssertNumberOfCalls(t, "ShareIDExists", 2)
}

func TestRevokeShareLink(t *testing.T) {
	t.Run("only the creator", func(t *testing.T) {
		deps, m := newTestDependencies()
		svc := service.NewShareService(deps)
		m.shares.On("GetShareLink", mock.Anything, m.tx.tx, shareID).
			Return(&model.ShareLink{ShareID: shareID, FileID: fileID, CreatedBy: ownerID}, nil)

		err := svc.Revoke(context.Background(), strangerID, shareID)

		require.ErrorIs(t, err, model.ErrPermissionDenied)
		m.shares.AssertNotCalled(t, "RevokeShareLink", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("creator revokes and invalidates cache", func(t *testing.T) {
		deps, m := newTestDependencies()
		svc := service.NewShareService(deps)
		m.shares.On("GetShareLink", mock.Anything, m.tx.tx, shareID).
			Return(&model.ShareLink{ShareID: shareID, FileID: fileID, CreatedBy: ownerID, Permission: model.PermissionView}, nil)
		m.shares.On("RevokeShareLink", mock.Anything, m.tx.tx, shareID).Return(nil)
		m.cache.On("DeleteShareLink", mock.Anything, shareID).Return(nil)
		m.notifier.On("Publish", mock.Anything, ownerID, mock.MatchedBy(func(e model.Event) bool {
			payload, ok := e.Payload.(model.FileSharedPayload)
			return ok && payload.Revoked
		})).Return(nil)

		require.NoError(t, svc.Revoke(context.Background(), ownerID, shareID))
		m.cache.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})
}

func TestSetStorageLimitGuards(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewQuotaService(deps)

	_, err := svc.SetStorageLimit(context.Background(), false, ownerID, 500)
	require.ErrorIs(t, err, model.ErrPermissionDenied)

	_, err = svc.SetStorageLimit(context.Background(), true, ownerID, -1)
	require.ErrorIs(t, err, model.ErrValidation)

	m.quotas.AssertNotCalled(t, "SetLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDrainObjectDeletionsKeepsFailures(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewTrashService(deps)

	m.deletions.On("ListObjectDeletions", mock.Anything, m.tx.tx, 10).Return([]string{"k1", "k2"}, nil)
	m.storage.On("Delete", mock.Anything, "k1").Return(nil)
	m.storage.On("Delete", mock.Anything, "k2").Return(model.ErrStorageUnavailable)
	m.deletions.On("RecordObjectDeletionFailure", mock.Anything, m.tx.tx, "k2").Return(nil)
	m.deletions.On("DequeueObjectDeletions", mock.Anything, m.tx.tx, []string{"k1"}).Return(nil)

	deleted, err := svc.DrainObjectDeletions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	m.deletions.AssertExpectations(t)
}

func TestSoftDeleteRejectsRoot(t *testing.T) {
	deps, m := newTestDependencies()
	svc := service.NewTrashService(deps)

	m.expectTreeLock(ownerID, &model.Quota{OwnerID: ownerID, StorageLimit: 100})
	m.nodes.On("GetNodeForUpdate", mock.Anything, m.tx.tx, rootID).Return(rootNode(), nil)

	_, err := svc.SoftDelete(context.Background(), ownerID, rootID)

	require.ErrorIs(t, err, model.ErrValidation)
	m.nodes.AssertNotCalled(t, "MarkRootDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
