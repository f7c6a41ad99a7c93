package service_test

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/service"
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"time"
)

type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return &sqlx.Row{}
}

func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return query, nil, nil
}

func (f *fakeTx) DriverName() string { return "fake" }

func (f *fakeTx) Rebind(query string) string { return query }

// MockTransactor : every transaction hands out the same fakeTx and records commits
type MockTransactor struct {
	tx        *fakeTx
	commits   int
	rollbacks int
}

func (m *MockTransactor) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	done := false
	rollback := func() error {
		if !done {
			done = true
			m.rollbacks++
		}
		return nil
	}
	commit := func() error {
		done = true
		m.commits++
		return nil
	}
	return m.tx, rollback, commit, nil
}

func (m *MockTransactor) Conn() sqlx.ExtContext { return m.tx }

type MockNodeRepository struct{ mock.Mock }

func nodeResult(args mock.Arguments) (*model.Node, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Node), args.Error(1)
}

func nodesResult(args mock.Arguments) ([]*model.Node, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Node), args.Error(1)
}

func (m *MockNodeRepository) CreateNode(ctx context.Context, exec sqlx.ExtContext, node *model.Node) error {
	return m.Called(ctx, exec, node).Error(0)
}

func (m *MockNodeRepository) GetNode(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Node, error) {
	return nodeResult(m.Called(ctx, exec, id))
}

func (m *MockNodeRepository) GetNodeForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Node, error) {
	return nodeResult(m.Called(ctx, exec, id))
}

func (m *MockNodeRepository) GetRoot(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Node, error) {
	return nodeResult(m.Called(ctx, exec, ownerID))
}

func (m *MockNodeRepository) FindChildByName(ctx context.Context, exec sqlx.ExtContext, parentID, name string) (*model.Node, error) {
	return nodeResult(m.Called(ctx, exec, parentID, name))
}

func (m *MockNodeRepository) ListChildren(ctx context.Context, exec sqlx.ExtContext, parentID string, opts model.ListOptions) ([]*model.Node, error) {
	return nodesResult(m.Called(ctx, exec, parentID, opts))
}

func (m *MockNodeRepository) ListRecent(ctx context.Context, exec sqlx.ExtContext, ownerID string, mimePrefixes []string, limit int) ([]*model.Node, error) {
	return nodesResult(m.Called(ctx, exec, ownerID, mimePrefixes, limit))
}

func (m *MockNodeRepository) UpdateName(ctx context.Context, exec sqlx.ExtContext, id, name, actorID string, at time.Time) error {
	return m.Called(ctx, exec, id, name, actorID, at).Error(0)
}

func (m *MockNodeRepository) UpdateParent(ctx context.Context, exec sqlx.ExtContext, id, parentID, actorID string, at time.Time) error {
	return m.Called(ctx, exec, id, parentID, actorID, at).Error(0)
}

func (m *MockNodeRepository) UpdateFavorite(ctx context.Context, exec sqlx.ExtContext, id string, favorite bool, actorID string, at time.Time) error {
	return m.Called(ctx, exec, id, favorite, actorID, at).Error(0)
}

func (m *MockNodeRepository) UpdateTags(ctx context.Context, exec sqlx.ExtContext, id string, tags []string, actorID string, at time.Time) error {
	return m.Called(ctx, exec, id, tags, actorID, at).Error(0)
}

func (m *MockNodeRepository) UpdateContent(ctx context.Context, exec sqlx.ExtContext, id string, content model.ContentRef, version int, actorID string, at time.Time) error {
	return m.Called(ctx, exec, id, content, version, actorID, at).Error(0)
}

func (m *MockNodeRepository) UpdateSyncStatus(ctx context.Context, exec sqlx.ExtContext, id string, status model.SyncStatus, at time.Time) error {
	return m.Called(ctx, exec, id, status, at).Error(0)
}

func (m *MockNodeRepository) ListBySyncStatus(ctx context.Context, exec sqlx.ExtContext, ownerID string) ([]*model.Node, error) {
	return nodesResult(m.Called(ctx, exec, ownerID))
}

func (m *MockNodeRepository) MarkRootDeleted(ctx context.Context, exec sqlx.ExtContext, id, batchID string, at time.Time) error {
	return m.Called(ctx, exec, id, batchID, at).Error(0)
}

func (m *MockNodeRepository) MarkChildrenDeleted(ctx context.Context, exec sqlx.ExtContext, batchID string, at time.Time, limit int) (int64, error) {
	args := m.Called(ctx, exec, batchID, at, limit)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNodeRepository) ListInterruptedBatches(ctx context.Context, exec sqlx.ExtContext, limit int) ([]string, error) {
	args := m.Called(ctx, exec, limit)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockNodeRepository) GetBatchRoots(ctx context.Context, exec sqlx.ExtContext, batchID string) ([]*model.Node, error) {
	return nodesResult(m.Called(ctx, exec, batchID))
}

func (m *MockNodeRepository) RestoreNode(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) error {
	return m.Called(ctx, exec, id, at).Error(0)
}

func (m *MockNodeRepository) RestoreBatchChildren(ctx context.Context, exec sqlx.ExtContext, batchID string, at time.Time, limit int) (int64, error) {
	args := m.Called(ctx, exec, batchID, at, limit)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNodeRepository) ListTrash(ctx context.Context, exec sqlx.ExtContext, ownerID string) ([]*model.Node, error) {
	return nodesResult(m.Called(ctx, exec, ownerID))
}

func (m *MockNodeRepository) ListExpiredTrash(ctx context.Context, exec sqlx.ExtContext, before time.Time, limit int) ([]*model.Node, error) {
	return nodesResult(m.Called(ctx, exec, before, limit))
}

func (m *MockNodeRepository) ListChildRefs(ctx context.Context, exec sqlx.ExtContext, parentIDs []string) ([]model.NodeRef, error) {
	args := m.Called(ctx, exec, parentIDs)
	return args.Get(0).([]model.NodeRef), args.Error(1)
}

func (m *MockNodeRepository) DeleteNodes(ctx context.Context, exec sqlx.ExtContext, ids []string) (int64, error) {
	args := m.Called(ctx, exec, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockVersionRepository struct{ mock.Mock }

func (m *MockVersionRepository) InsertVersion(ctx context.Context, exec sqlx.ExtContext, version *model.Version) error {
	return m.Called(ctx, exec, version).Error(0)
}

func (m *MockVersionRepository) MaxVersionNumber(ctx context.Context, exec sqlx.ExtContext, fileID string) (int, error) {
	args := m.Called(ctx, exec, fileID)
	return args.Int(0), args.Error(1)
}

func (m *MockVersionRepository) ListVersions(ctx context.Context, exec sqlx.ExtContext, fileID string) ([]model.Version, error) {
	args := m.Called(ctx, exec, fileID)
	return args.Get(0).([]model.Version), args.Error(1)
}

func (m *MockVersionRepository) GetVersion(ctx context.Context, exec sqlx.ExtContext, fileID string, number int) (*model.Version, error) {
	args := m.Called(ctx, exec, fileID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Version), args.Error(1)
}

func (m *MockVersionRepository) ListStoragePaths(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) ([]string, error) {
	args := m.Called(ctx, exec, fileIDs)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVersionRepository) DeleteVersions(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) error {
	return m.Called(ctx, exec, fileIDs).Error(0)
}

type MockQuotaRepository struct{ mock.Mock }

func quotaResult(args mock.Arguments) (*model.Quota, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quota), args.Error(1)
}

func (m *MockQuotaRepository) EnsureQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string, defaultLimit int64) error {
	return m.Called(ctx, exec, ownerID, defaultLimit).Error(0)
}

func (m *MockQuotaRepository) GetQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error) {
	return quotaResult(m.Called(ctx, exec, ownerID))
}

func (m *MockQuotaRepository) LockQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error) {
	return quotaResult(m.Called(ctx, exec, ownerID))
}

func (m *MockQuotaRepository) AdjustUsage(ctx context.Context, exec sqlx.ExtContext, ownerID string, delta int64) (*model.Quota, error) {
	return quotaResult(m.Called(ctx, exec, ownerID, delta))
}

func (m *MockQuotaRepository) SetLimit(ctx context.Context, exec sqlx.ExtContext, ownerID string, limit int64) (*model.Quota, error) {
	return quotaResult(m.Called(ctx, exec, ownerID, limit))
}

type MockShareRepository struct{ mock.Mock }

func (m *MockShareRepository) CreateShareLink(ctx context.Context, exec sqlx.ExtContext, link *model.ShareLink) error {
	return m.Called(ctx, exec, link).Error(0)
}

func (m *MockShareRepository) ShareIDExists(ctx context.Context, exec sqlx.ExtContext, shareID string) (bool, error) {
	args := m.Called(ctx, exec, shareID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareRepository) GetShareLink(ctx context.Context, exec sqlx.ExtContext, shareID string) (*model.ShareLink, error) {
	args := m.Called(ctx, exec, shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareLink), args.Error(1)
}

func (m *MockShareRepository) RevokeShareLink(ctx context.Context, exec sqlx.ExtContext, shareID string) error {
	return m.Called(ctx, exec, shareID).Error(0)
}

func (m *MockShareRepository) ListShareLinks(ctx context.Context, exec sqlx.ExtContext, fileID string) ([]model.ShareLink, error) {
	args := m.Called(ctx, exec, fileID)
	return args.Get(0).([]model.ShareLink), args.Error(1)
}

func (m *MockShareRepository) DeleteShareLinks(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) error {
	return m.Called(ctx, exec, fileIDs).Error(0)
}

type MockObjectDeletionRepository struct{ mock.Mock }

func (m *MockObjectDeletionRepository) EnqueueObjectDeletions(ctx context.Context, exec sqlx.ExtContext, paths []string) error {
	return m.Called(ctx, exec, paths).Error(0)
}

func (m *MockObjectDeletionRepository) ListObjectDeletions(ctx context.Context, exec sqlx.ExtContext, limit int) ([]string, error) {
	args := m.Called(ctx, exec, limit)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockObjectDeletionRepository) DequeueObjectDeletions(ctx context.Context, exec sqlx.ExtContext, paths []string) error {
	return m.Called(ctx, exec, paths).Error(0)
}

func (m *MockObjectDeletionRepository) RecordObjectDeletionFailure(ctx context.Context, exec sqlx.ExtContext, path string) error {
	return m.Called(ctx, exec, path).Error(0)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) SetShareLink(ctx context.Context, link *model.ShareLink) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockCacheRepository) GetShareLink(ctx context.Context, shareID string) (*model.ShareLink, error) {
	args := m.Called(ctx, shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareLink), args.Error(1)
}

func (m *MockCacheRepository) DeleteShareLink(ctx context.Context, shareID string) error {
	return m.Called(ctx, shareID).Error(0)
}

type MockObjectStorage struct{ mock.Mock }

func (m *MockObjectStorage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	return m.Called(ctx, key, body, contentType).Error(0)
}

func (m *MockObjectStorage) Copy(ctx context.Context, srcKey, dstKey string) error {
	return m.Called(ctx, srcKey, dstKey).Error(0)
}

func (m *MockObjectStorage) SignedURL(ctx context.Context, key string, ttl time.Duration, opts model.AccessOptions) (string, error) {
	args := m.Called(ctx, key, ttl, opts)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Publish(ctx context.Context, userID string, event model.Event) error {
	return m.Called(ctx, userID, event).Error(0)
}

type mocks struct {
	tx        *MockTransactor
	nodes     *MockNodeRepository
	versions  *MockVersionRepository
	quotas    *MockQuotaRepository
	shares    *MockShareRepository
	deletions *MockObjectDeletionRepository
	cache     *MockCacheRepository
	storage   *MockObjectStorage
	notifier  *MockNotifier
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestDependencies : mocked collaborators and a frozen clock
func newTestDependencies() (service.Dependencies, *mocks) {
	m := &mocks{
		tx:        &MockTransactor{tx: &fakeTx{}},
		nodes:     new(MockNodeRepository),
		versions:  new(MockVersionRepository),
		quotas:    new(MockQuotaRepository),
		shares:    new(MockShareRepository),
		deletions: new(MockObjectDeletionRepository),
		cache:     new(MockCacheRepository),
		storage:   new(MockObjectStorage),
		notifier:  new(MockNotifier),
	}
	deps := service.Dependencies{
		Tx:        m.tx,
		Nodes:     m.nodes,
		Versions:  m.versions,
		Quotas:    m.quotas,
		Shares:    m.shares,
		Deletions: m.deletions,
		Cache:     m.cache,
		Storage:   m.storage,
		Notifier:  m.notifier,
		Options:   service.Options{DefaultQuota: 100, MaxDepth: 8, BatchSize: 10, SignedURLTTL: time.Minute},
		Clock:     func() time.Time { return testNow },
	}
	return deps, m
}

// expectTreeLock : the quota row lock every structural change takes first
func (m *mocks) expectTreeLock(ownerID string, quota *model.Quota) {
	m.quotas.On("EnsureQuota", mock.Anything, m.tx.tx, ownerID, int64(100)).Return(nil)
	m.quotas.On("LockQuota", mock.Anything, m.tx.tx, ownerID).Return(quota, nil)
}
