package service_test

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/repository/memory"
	"cloud-drive/internal/service"
	"cloud-drive/internal/storage"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
}

func (n *recordingNotifier) Publish(ctx context.Context, userID string, event model.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) names() []model.EventName {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]model.EventName, 0, len(n.events))
	for _, e := range n.events {
		names = append(names, e.Name)
	}
	return names
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type drive struct {
	store    *memory.Store
	objects  *storage.MemoryStorage
	notifier *recordingNotifier
	clock    *testClock

	nodes    *service.NodeService
	versions *service.VersionService
	trash    *service.TrashService
	shares   *service.ShareService
	sync     *service.SyncService
	quotas   *service.QuotaService
}

// newDrive : every service wired to the in-memory store, 100 byte default quota
func newDrive(t *testing.T, opts service.Options) *drive {
	t.Helper()
	if opts.DefaultQuota == 0 {
		opts.DefaultQuota = 100
	}
	d := &drive{
		store:    memory.NewStore(),
		objects:  storage.NewMemoryStorage(),
		notifier: &recordingNotifier{},
		clock:    &testClock{now: testNow},
	}
	deps := service.Dependencies{
		Tx:        d.store,
		Nodes:     d.store,
		Versions:  d.store,
		Quotas:    d.store,
		Shares:    d.store,
		Deletions: d.store,
		Storage:   d.objects,
		Notifier:  d.notifier,
		Options:   opts,
		Clock:     d.clock.Now,
	}
	d.nodes = service.NewNodeService(deps)
	d.versions = service.NewVersionService(deps)
	d.trash = service.NewTrashService(deps)
	d.shares = service.NewShareService(deps)
	d.sync = service.NewSyncService(deps)
	d.quotas = service.NewQuotaService(deps)
	return d
}

func (d *drive) used(t *testing.T, owner string) int64 {
	t.Helper()
	q, err := d.quotas.GetQuota(context.Background(), owner)
	require.NoError(t, err)
	return q.StorageUsed
}

func names(nodes []*model.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	docs, err := d.nodes.CreateFolder(ctx, ownerID, "", "Docs")
	require.NoError(t, err)

	file, err := d.nodes.UploadFile(ctx, ownerID, docs.ID, "a.txt", "text/plain", []byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), d.used(t, ownerID))

	_, err = d.nodes.Rename(ctx, ownerID, file.ID, "b.txt")
	require.NoError(t, err)
	children, err := d.nodes.ListChildren(ctx, ownerID, docs.ID, model.ListOptions{})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "b.txt", children[0].Name)
	assert.Equal(t, int64(10), children[0].Size)

	_, err = d.versions.UploadVersion(ctx, ownerID, file.ID, []byte("01234567890123456789"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), d.used(t, ownerID))
	versions, err := d.versions.ListVersions(ctx, ownerID, file.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].VersionNumber)
	assert.Equal(t, 1, versions[1].VersionNumber)

	batchID, err := d.trash.SoftDelete(ctx, ownerID, docs.ID)
	require.NoError(t, err)
	trashed, err := d.trash.ListTrash(ctx, ownerID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Docs", "b.txt"}, names(trashed))
	for _, n := range trashed {
		require.NotNil(t, n.DeletedBatchID)
		assert.Equal(t, batchID, *n.DeletedBatchID)
	}

	restored, err := d.trash.Restore(ctx, ownerID, docs.ID)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.False(t, restored[0].IsDeleted)
	children, err = d.nodes.ListChildren(ctx, ownerID, docs.ID, model.ListOptions{})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.False(t, children[0].IsDeleted)
	trashed, err = d.trash.ListTrash(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, trashed)

	link, err := d.shares.CreateLink(ctx, ownerID, ports.CreateLinkInput{FileID: file.ID, Permission: model.PermissionView})
	require.NoError(t, err)
	_, err = d.shares.ResolveDownload(ctx, link.ShareID, "")
	require.ErrorIs(t, err, model.ErrPermissionDenied)

	assert.Subset(t, d.notifier.names(), []model.EventName{
		model.EventFolderCreated, model.EventFileCreated, model.EventFileUpdated, model.EventFileShared,
	})
}

func TestMoveNeverFormsCycle(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	a, err := d.nodes.CreateFolder(ctx, ownerID, "", "a")
	require.NoError(t, err)
	b, err := d.nodes.CreateFolder(ctx, ownerID, a.ID, "b")
	require.NoError(t, err)
	c, err := d.nodes.CreateFolder(ctx, ownerID, b.ID, "c")
	require.NoError(t, err)

	tests := []struct {
		name    string
		node    string
		dest    string
		wantErr error
	}{
		{name: "into itself", node: a.ID, dest: a.ID, wantErr: model.ErrCyclicMove},
		{name: "into child", node: a.ID, dest: b.ID, wantErr: model.ErrCyclicMove},
		{name: "into grandchild", node: a.ID, dest: c.ID, wantErr: model.ErrCyclicMove},
		{name: "middle into its child", node: b.ID, dest: c.ID, wantErr: model.ErrCyclicMove},
		{name: "leaf to root", node: c.ID, dest: ""},
		{name: "former parent under former leaf", node: b.ID, dest: c.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.nodes.Move(ctx, ownerID, tt.node, tt.dest)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	for _, id := range []string{a.ID, b.ID, c.ID} {
		path, err := d.nodes.GetPath(ctx, ownerID, id)
		require.NoError(t, err)
		assert.True(t, path[0].IsRoot())
		assert.Equal(t, id, path[len(path)-1].ID)
	}
}

func TestConcurrentMovesKeepTreeAcyclic(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	x, err := d.nodes.CreateFolder(ctx, ownerID, "", "x")
	require.NoError(t, err)
	y, err := d.nodes.CreateFolder(ctx, ownerID, "", "y")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = d.nodes.Move(ctx, ownerID, x.ID, y.ID) }()
	go func() { defer wg.Done(); _, errs[1] = d.nodes.Move(ctx, ownerID, y.ID, x.ID) }()
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, model.ErrCyclicMove)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	for _, id := range []string{x.ID, y.ID} {
		_, err := d.nodes.GetPath(ctx, ownerID, id)
		require.NoError(t, err)
	}
}

func TestNameConflicts(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	_, err := d.nodes.CreateFolder(ctx, ownerID, "", "Docs")
	require.NoError(t, err)
	_, err = d.nodes.CreateFolder(ctx, ownerID, "", "Docs")
	require.ErrorIs(t, err, model.ErrNameConflict)

	file, err := d.nodes.UploadFile(ctx, ownerID, "", "notes.txt", "", []byte("x"))
	require.NoError(t, err)
	_, err = d.nodes.UploadFile(ctx, ownerID, "", "notes.txt", "", []byte("y"))
	require.ErrorIs(t, err, model.ErrNameConflict)
	assert.Equal(t, int64(1), d.used(t, ownerID))
	assert.Equal(t, 1, d.objects.Len())

	_, err = d.nodes.Rename(ctx, ownerID, file.ID, "Docs")
	require.ErrorIs(t, err, model.ErrNameConflict)

	same, err := d.nodes.Rename(ctx, ownerID, file.ID, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", same.Name)

	_, err = d.trash.SoftDelete(ctx, ownerID, file.ID)
	require.NoError(t, err)
	_, err = d.nodes.UploadFile(ctx, ownerID, "", "notes.txt", "", []byte("z"))
	require.NoError(t, err, "a trashed sibling does not block the name")
}

func TestCreateFileChargesExactSize(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	_, err := d.nodes.CreateFile(ctx, ownerID, "", "a.bin", "application/octet-stream",
		model.ContentRef{StoragePath: "external/a", Size: 60, Checksum: "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(60), d.used(t, ownerID))

	_, err = d.nodes.CreateFile(ctx, ownerID, "", "b.bin", "application/octet-stream",
		model.ContentRef{StoragePath: "external/b", Size: 41, Checksum: "c"})
	require.ErrorIs(t, err, model.ErrQuotaExceeded)
	assert.Equal(t, int64(60), d.used(t, ownerID))

	children, err := d.nodes.ListChildren(ctx, ownerID, "", model.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.bin"}, names(children))
}

func TestConcurrentUploadsExactlyOneOverQuota(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	const uploads = 8
	var wg sync.WaitGroup
	errs := make([]error, uploads)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.nodes.UploadFile(ctx, ownerID, "", "f"+string(rune('a'+i)), "", make([]byte, 60))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, model.ErrQuotaExceeded)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(60), d.used(t, ownerID))
	assert.Equal(t, 1, d.objects.Len())
}

func TestConcurrentAppendsNumberVersionsWithoutGaps(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{DefaultQuota: 1 << 20})

	file, err := d.nodes.UploadFile(ctx, ownerID, "", "log.txt", "", []byte("v1"))
	require.NoError(t, err)

	const appends = 25
	var wg sync.WaitGroup
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.versions.UploadVersion(ctx, ownerID, file.ID, []byte("next"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	versions, err := d.versions.ListVersions(ctx, ownerID, file.ID)
	require.NoError(t, err)
	require.Len(t, versions, appends+1)
	for i, v := range versions {
		assert.Equal(t, appends+1-i, v.VersionNumber)
	}

	current, err := d.nodes.GetNode(ctx, ownerID, file.ID)
	require.NoError(t, err)
	assert.Equal(t, appends+1, current.CurrentVersion)
	assert.Equal(t, int64(4), d.used(t, ownerID))
}

func TestRestoreVersionCopiesForward(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	file, err := d.nodes.UploadFile(ctx, ownerID, "", "a.txt", "", []byte("first"))
	require.NoError(t, err)
	_, err = d.versions.UploadVersion(ctx, ownerID, file.ID, []byte("second, longer"))
	require.NoError(t, err)

	restored, err := d.versions.RestoreVersion(ctx, ownerID, file.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, restored.VersionNumber)

	versions, err := d.versions.ListVersions(ctx, ownerID, file.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	first := versions[2]
	assert.Equal(t, 1, first.VersionNumber)
	assert.Equal(t, first.Checksum, versions[0].Checksum)
	assert.NotEqual(t, first.StoragePath, versions[0].StoragePath)

	body, ok := d.objects.Get(versions[0].StoragePath)
	require.True(t, ok)
	assert.Equal(t, "first", string(body))
	assert.Equal(t, int64(5), d.used(t, ownerID))

	_, err = d.versions.RestoreVersion(ctx, ownerID, file.ID, 42)
	require.ErrorIs(t, err, model.ErrVersionNotFound)

	ref, err := d.versions.GetDownloadRef(ctx, ownerID, file.ID, 2)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.URL, "memory://objects/"))
	assert.Contains(t, ref.URL, "attachment")
}

func TestRestoreOnlyTouchesOwnBatch(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	folder, err := d.nodes.CreateFolder(ctx, ownerID, "", "F")
	require.NoError(t, err)
	early, err := d.nodes.UploadFile(ctx, ownerID, folder.ID, "early.txt", "", []byte("1"))
	require.NoError(t, err)
	_, err = d.nodes.UploadFile(ctx, ownerID, folder.ID, "late.txt", "", []byte("2"))
	require.NoError(t, err)

	firstBatch, err := d.trash.SoftDelete(ctx, ownerID, early.ID)
	require.NoError(t, err)
	secondBatch, err := d.trash.SoftDelete(ctx, ownerID, folder.ID)
	require.NoError(t, err)
	assert.NotEqual(t, firstBatch, secondBatch)

	_, err = d.trash.Restore(ctx, ownerID, early.ID)
	require.ErrorIs(t, err, model.ErrValidation, "its folder is still in trash")

	_, err = d.trash.Restore(ctx, ownerID, folder.ID)
	require.NoError(t, err)

	children, err := d.nodes.ListChildren(ctx, ownerID, folder.ID, model.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"late.txt"}, names(children))

	trashed, err := d.trash.ListTrash(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, firstBatch, *trashed[0].DeletedBatchID)

	_, err = d.trash.Restore(ctx, ownerID, early.ID)
	require.NoError(t, err)
	children, err = d.nodes.ListChildren(ctx, ownerID, folder.ID, model.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"early.txt", "late.txt"}, names(children))
}

func TestRestoreIntoNameCollision(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	old, err := d.nodes.UploadFile(ctx, ownerID, "", "a.txt", "", []byte("old"))
	require.NoError(t, err)
	_, err = d.trash.SoftDelete(ctx, ownerID, old.ID)
	require.NoError(t, err)
	_, err = d.nodes.UploadFile(ctx, ownerID, "", "a.txt", "", []byte("new"))
	require.NoError(t, err)

	_, err = d.trash.Restore(ctx, ownerID, old.ID)
	require.ErrorIs(t, err, model.ErrNameConflict)

	still, err := d.nodes.GetNode(ctx, ownerID, old.ID)
	require.NoError(t, err)
	assert.True(t, still.IsDeleted)
}

func TestSoftDeleteCascadesInBatches(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{BatchSize: 2})

	top, err := d.nodes.CreateFolder(ctx, ownerID, "", "top")
	require.NoError(t, err)
	sub, err := d.nodes.CreateFolder(ctx, ownerID, top.ID, "sub")
	require.NoError(t, err)
	for _, name := range []string{"1", "2", "3", "4", "5"} {
		_, err := d.nodes.UploadFile(ctx, ownerID, sub.ID, name, "", []byte(name))
		require.NoError(t, err)
	}

	batchID, err := d.trash.SoftDelete(ctx, ownerID, top.ID)
	require.NoError(t, err)

	trashed, err := d.trash.ListTrash(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, trashed, 7)
	for _, n := range trashed {
		assert.Equal(t, batchID, *n.DeletedBatchID)
	}

	_, err = d.trash.Restore(ctx, ownerID, sub.ID)
	require.NoError(t, err)
	children, err := d.nodes.ListChildren(ctx, ownerID, sub.ID, model.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, children, 5)
}

func TestResumeInterruptedSoftDelete(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{BatchSize: 2})

	folder, err := d.nodes.CreateFolder(ctx, ownerID, "", "big")
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c"} {
		_, err := d.nodes.UploadFile(ctx, ownerID, folder.ID, name, "", []byte(name))
		require.NoError(t, err)
	}

	// a crash right after the folder itself was marked
	require.NoError(t, d.store.MarkRootDeleted(ctx, d.store.Conn(), folder.ID, "batch-1", testNow))

	resumed, err := d.trash.ResumeInterrupted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)

	trashed, err := d.trash.ListTrash(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, trashed, 4)

	again, err := d.trash.ResumeSoftDelete(ctx, "batch-1")
	require.NoError(t, err)
	assert.Zero(t, again)

	_, err = d.trash.ResumeSoftDelete(ctx, "no-such-batch")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestPermanentDeleteReleasesEverything(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{BatchSize: 2})

	folder, err := d.nodes.CreateFolder(ctx, ownerID, "", "F")
	require.NoError(t, err)
	inner, err := d.nodes.CreateFolder(ctx, ownerID, folder.ID, "inner")
	require.NoError(t, err)
	a, err := d.nodes.UploadFile(ctx, ownerID, folder.ID, "a", "", make([]byte, 10))
	require.NoError(t, err)
	_, err = d.versions.UploadVersion(ctx, ownerID, a.ID, make([]byte, 15))
	require.NoError(t, err)
	_, err = d.nodes.UploadFile(ctx, ownerID, inner.ID, "b", "", make([]byte, 20))
	require.NoError(t, err)
	_, err = d.shares.CreateLink(ctx, ownerID, ports.CreateLinkInput{FileID: a.ID, Permission: model.PermissionDownload})
	require.NoError(t, err)
	kept, err := d.nodes.UploadFile(ctx, ownerID, "", "kept", "", make([]byte, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(40), d.used(t, ownerID))

	_, err = d.trash.PermanentDelete(ctx, ownerID, folder.ID)
	require.ErrorIs(t, err, model.ErrValidation, "live nodes go to trash first")

	_, err = d.trash.SoftDelete(ctx, ownerID, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), d.used(t, ownerID), "trash still counts against the quota")

	removed, err := d.trash.PermanentDelete(ctx, ownerID, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)
	assert.Equal(t, int64(5), d.used(t, ownerID))
	assert.Equal(t, 1, d.objects.Len())

	queued, err := d.store.ListObjectDeletions(ctx, d.store.Conn(), 0)
	require.NoError(t, err)
	assert.Empty(t, queued)

	_, err = d.nodes.GetNode(ctx, ownerID, a.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = d.nodes.GetNode(ctx, ownerID, kept.ID)
	require.NoError(t, err)
}

func TestPurgeExpiredHonoursCutoff(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	old, err := d.nodes.UploadFile(ctx, ownerID, "", "old", "", make([]byte, 10))
	require.NoError(t, err)
	_, err = d.trash.SoftDelete(ctx, ownerID, old.ID)
	require.NoError(t, err)

	d.clock.Advance(48 * time.Hour)
	recent, err := d.nodes.UploadFile(ctx, ownerID, "", "recent", "", make([]byte, 10))
	require.NoError(t, err)
	_, err = d.trash.SoftDelete(ctx, ownerID, recent.ID)
	require.NoError(t, err)

	purged, err := d.trash.PurgeExpired(ctx, d.clock.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	trashed, err := d.trash.ListTrash(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"recent"}, names(trashed))
	assert.Equal(t, int64(10), d.used(t, ownerID))
}

func TestPurgeExpiredReachesEntriesInsideLaterTrashedFolder(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	folder, err := d.nodes.CreateFolder(ctx, ownerID, "", "F")
	require.NoError(t, err)
	file, err := d.nodes.UploadFile(ctx, ownerID, folder.ID, "x.txt", "", make([]byte, 10))
	require.NoError(t, err)

	_, err = d.trash.SoftDelete(ctx, ownerID, file.ID)
	require.NoError(t, err)
	d.clock.Advance(20 * 24 * time.Hour)
	_, err = d.trash.SoftDelete(ctx, ownerID, folder.ID)
	require.NoError(t, err)
	d.clock.Advance(15 * 24 * time.Hour)

	purged, err := d.trash.PurgeExpired(ctx, d.clock.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	trashed, err := d.trash.ListTrash(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"F"}, names(trashed))
	assert.Zero(t, d.used(t, ownerID))

	purged, err = d.trash.PurgeExpired(ctx, d.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}

func TestSyncStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []model.SyncStatus
		wantErr error
	}{
		{name: "upload then reconcile", path: []model.SyncStatus{model.SyncStatusSynced}},
		{name: "failure then retry", path: []model.SyncStatus{model.SyncStatusError, model.SyncStatusSyncing, model.SyncStatusSynced}},
		{name: "synced back to syncing", path: []model.SyncStatus{model.SyncStatusSynced, model.SyncStatusSyncing}},
		{name: "same state is a no-op", path: []model.SyncStatus{model.SyncStatusSyncing}},
		{name: "synced cannot fail directly", path: []model.SyncStatus{model.SyncStatusSynced, model.SyncStatusError}, wantErr: model.ErrValidation},
		{name: "error cannot jump to synced", path: []model.SyncStatus{model.SyncStatusError, model.SyncStatusSynced}, wantErr: model.ErrValidation},
		{name: "unknown status", path: []model.SyncStatus{"paused"}, wantErr: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			d := newDrive(t, service.Options{})
			file, err := d.nodes.UploadFile(ctx, ownerID, "", "f", "", []byte("x"))
			require.NoError(t, err)
			require.Equal(t, model.SyncStatusSyncing, file.SyncStatus)

			for i, status := range tt.path {
				file, err = d.sync.Report(ctx, ownerID, file.ID, status)
				if i == len(tt.path)-1 && tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, status, file.SyncStatus)
			}
		})
	}
}

func TestSyncSimulateAndStatus(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	folder, err := d.nodes.CreateFolder(ctx, ownerID, "", "F")
	require.NoError(t, err)
	a, err := d.nodes.UploadFile(ctx, ownerID, "", "a", "", []byte("a"))
	require.NoError(t, err)
	b, err := d.nodes.UploadFile(ctx, ownerID, "", "b", "", []byte("b"))
	require.NoError(t, err)

	_, err = d.sync.Simulate(ctx, ownerID, a.ID, model.SyncStatusSynced)
	require.NoError(t, err)
	failed, err := d.sync.Simulate(ctx, ownerID, a.ID, model.SyncStatusError)
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusError, failed.SyncStatus)

	_, err = d.sync.Simulate(ctx, ownerID, a.ID, model.SyncStatusSyncing)
	require.ErrorIs(t, err, model.ErrValidation)
	_, err = d.sync.Report(ctx, ownerID, folder.ID, model.SyncStatusSynced)
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = d.trash.SoftDelete(ctx, ownerID, b.ID)
	require.NoError(t, err)
	_, err = d.sync.Report(ctx, ownerID, b.ID, model.SyncStatusSynced)
	require.ErrorIs(t, err, model.ErrNotFound)

	pending, err := d.sync.GetStatus(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(pending))
}

func TestSharePasswordAndLifecycle(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	file, err := d.nodes.UploadFile(ctx, ownerID, "", "report.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	expires := testNow.Add(time.Hour)
	link, err := d.shares.CreateLink(ctx, ownerID, ports.CreateLinkInput{
		FileID:     file.ID,
		Permission: model.PermissionDownload,
		ExpiresAt:  &expires,
		Password:   "hunter22",
	})
	require.NoError(t, err)

	_, err = d.shares.Resolve(ctx, link.ShareID, "wrong")
	require.ErrorIs(t, err, model.ErrPermissionDenied)

	preview, err := d.shares.Resolve(ctx, link.ShareID, "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", preview.Name)

	ref, err := d.shares.ResolveDownload(ctx, link.ShareID, "hunter22")
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(15*time.Minute), ref.ExpiresAt)

	d.clock.Advance(time.Hour)
	_, err = d.shares.Resolve(ctx, link.ShareID, "hunter22")
	require.ErrorIs(t, err, model.ErrShareExpired)

	other, err := d.shares.CreateLink(ctx, ownerID, ports.CreateLinkInput{FileID: file.ID, Permission: model.PermissionView})
	require.NoError(t, err)
	require.NoError(t, d.shares.Revoke(ctx, ownerID, other.ShareID))
	require.NoError(t, d.shares.Revoke(ctx, ownerID, other.ShareID))
	_, err = d.shares.Resolve(ctx, other.ShareID, "")
	require.ErrorIs(t, err, model.ErrShareRevoked)

	links, err := d.shares.ListLinks(ctx, ownerID, file.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
	_, err = d.shares.ListLinks(ctx, strangerID, file.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	fresh, err := d.shares.CreateLink(ctx, ownerID, ports.CreateLinkInput{FileID: file.ID, Permission: model.PermissionView})
	require.NoError(t, err)
	_, err = d.trash.SoftDelete(ctx, ownerID, file.ID)
	require.NoError(t, err)
	_, err = d.shares.Resolve(ctx, fresh.ShareID, "")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestListRecentByType(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	_, err := d.nodes.UploadFile(ctx, ownerID, "", "cat.png", "image/png", []byte("png"))
	require.NoError(t, err)
	d.clock.Advance(time.Minute)
	_, err = d.nodes.UploadFile(ctx, ownerID, "", "notes.txt", "", []byte("plain words"))
	require.NoError(t, err)
	d.clock.Advance(time.Minute)
	_, err = d.nodes.CreateFolder(ctx, ownerID, "", "folder")
	require.NoError(t, err)

	all, err := d.nodes.ListRecent(ctx, ownerID, model.FileTypeAll, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt", "cat.png"}, names(all))

	images, err := d.nodes.ListRecent(ctx, ownerID, model.FileTypeImage, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat.png"}, names(images))

	docs, err := d.nodes.ListRecent(ctx, ownerID, model.FileTypeDocument, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, names(docs))

	_, err = d.nodes.ListRecent(ctx, ownerID, "spreadsheets", 10)
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestFavoritesTagsAndPath(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	docs, err := d.nodes.CreateFolder(ctx, ownerID, "", "Docs")
	require.NoError(t, err)
	file, err := d.nodes.UploadFile(ctx, ownerID, docs.ID, "b.txt", "", []byte("b"))
	require.NoError(t, err)

	fav, err := d.nodes.SetFavorite(ctx, ownerID, file.ID, true)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)

	tagged, err := d.nodes.SetTags(ctx, ownerID, file.ID, []string{" Work", "work", "urgent "})
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "work"}, []string(tagged.Tags))

	path, err := d.nodes.GetPath(ctx, ownerID, file.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Docs", "b.txt"}, names(path))

	_, err = d.nodes.GetPath(ctx, strangerID, file.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = d.nodes.SetFavorite(ctx, strangerID, file.ID, false)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestFolderDepthIsBounded(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{MaxDepth: 2})

	one, err := d.nodes.CreateFolder(ctx, ownerID, "", "1")
	require.NoError(t, err)
	two, err := d.nodes.CreateFolder(ctx, ownerID, one.ID, "2")
	require.NoError(t, err)
	_, err = d.nodes.CreateFolder(ctx, ownerID, two.ID, "3")
	require.ErrorIs(t, err, model.ErrValidation)

	other, err := d.nodes.CreateFolder(ctx, ownerID, "", "other")
	require.NoError(t, err)
	_, err = d.nodes.Move(ctx, ownerID, one.ID, other.ID)
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestStorageLimitBelowUsage(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	_, err := d.nodes.UploadFile(ctx, ownerID, "", "a", "", make([]byte, 50))
	require.NoError(t, err)

	quota, err := d.quotas.SetStorageLimit(ctx, true, ownerID, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(50), quota.StorageUsed)
	assert.Equal(t, int64(0), quota.Available())

	_, err = d.nodes.UploadFile(ctx, ownerID, "", "b", "", make([]byte, 1))
	require.ErrorIs(t, err, model.ErrQuotaExceeded)

	_, err = d.nodes.UploadFile(ctx, ownerID, "", "empty", "", nil)
	require.NoError(t, err, "zero-byte files never need quota")
}

func TestEventsCarrySchemaVersion(t *testing.T) {
	ctx := context.Background()
	d := newDrive(t, service.Options{})

	_, err := d.nodes.CreateFolder(ctx, ownerID, "", "Docs")
	require.NoError(t, err)

	d.notifier.mu.Lock()
	defer d.notifier.mu.Unlock()
	require.Len(t, d.notifier.events, 1)
	event := d.notifier.events[0]
	assert.Equal(t, model.EventSchemaVersion, event.Version)
	payload, ok := event.Payload.(model.NodeEventPayload)
	require.True(t, ok)
	assert.Equal(t, "Docs", payload.Name)
}
