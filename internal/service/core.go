// Package service holds the drive core: node store, versions, trash, share links, sync status and quota.
package service

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/metrics"
	"cloud-drive/internal/model"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/util"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"time"
)

const (
	defaultQuotaLimit   int64 = 10 << 30
	defaultMaxDepth           = 256
	defaultBatchSize          = 500
	defaultSignedURLTTL       = 15 * time.Minute
)

// Options : tunables coming from config
type Options struct {
	DefaultQuota int64
	MaxDepth     int
	BatchSize    int
	SignedURLTTL time.Duration
}

func (o Options) withDefaults() Options {
	if o.DefaultQuota <= 0 {
		o.DefaultQuota = defaultQuotaLimit
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.SignedURLTTL <= 0 {
		o.SignedURLTTL = defaultSignedURLTTL
	}
	return o
}

// Dependencies : collaborators shared by every service. Cache and Metrics may be nil.
type Dependencies struct {
	Tx        ports.Transactor
	Nodes     ports.NodeRepository
	Versions  ports.VersionRepository
	Quotas    ports.QuotaRepository
	Shares    ports.ShareRepository
	Deletions ports.ObjectDeletionRepository
	Cache     ports.CacheRepository
	Storage   ports.ObjectStorage
	Notifier  ports.Notifier
	Metrics   *metrics.Metrics
	Options   Options
	Clock     func() time.Time
}

type core struct {
	Dependencies
}

func newCore(deps Dependencies) core {
	deps.Options = deps.Options.withDefaults()
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return core{Dependencies: deps}
}

func (c *core) now() time.Time {
	return c.Clock().UTC()
}

// observe : deferred with the address of the named error result
func (c *core) observe(operation string, start time.Time, err *error) {
	c.Metrics.ObserveOperation(operation, start, *err)
	if errors.Is(*err, model.ErrQuotaExceeded) {
		c.Metrics.QuotaRejected()
	}
}

// lockTree : serializes structural changes and size accounting per owner.
// Always taken before any node row lock.
func (c *core) lockTree(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error) {
	if err := c.Quotas.EnsureQuota(ctx, exec, ownerID, c.Options.DefaultQuota); err != nil {
		return nil, err
	}
	return c.Quotas.LockQuota(ctx, exec, ownerID)
}

// ensureRoot : the owner's root folder, created on first use
func (c *core) ensureRoot(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Node, error) {
	root, err := c.Nodes.GetRoot(ctx, exec, ownerID)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	now := c.now()
	root = &model.Node{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		IsFolder:       true,
		Tags:           []string{},
		SyncStatus:     model.SyncStatusSynced,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastModifiedBy: ownerID,
	}
	if err := c.Nodes.CreateNode(ctx, exec, root); err != nil {
		return nil, err
	}
	logging.Info("[Drive] root created", zap.String("owner", ownerID), zap.String("root", root.ID))
	return root, nil
}

// loadOwned : nodes of other owners are reported as missing
func (c *core) loadOwned(ctx context.Context, exec sqlx.ExtContext, ownerID, nodeID string, forUpdate bool) (*model.Node, error) {
	if _, err := uuid.Parse(nodeID); err != nil {
		return nil, fmt.Errorf("%w: node %q", model.ErrNotFound, nodeID)
	}

	var node *model.Node
	var err error
	if forUpdate {
		node, err = c.Nodes.GetNodeForUpdate(ctx, exec, nodeID)
	} else {
		node, err = c.Nodes.GetNode(ctx, exec, nodeID)
	}
	if err != nil {
		return nil, err
	}
	if node.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
	}
	return node, nil
}

func (c *core) loadLiveOwned(ctx context.Context, exec sqlx.ExtContext, ownerID, nodeID string, forUpdate bool) (*model.Node, error) {
	node, err := c.loadOwned(ctx, exec, ownerID, nodeID, forUpdate)
	if err != nil {
		return nil, err
	}
	if node.IsDeleted {
		return nil, fmt.Errorf("%w: node %s is in trash", model.ErrNotFound, nodeID)
	}
	return node, nil
}

// loadLiveFile : a non-deleted file owned by ownerID
func (c *core) loadLiveFile(ctx context.Context, exec sqlx.ExtContext, ownerID, fileID string, forUpdate bool) (*model.Node, error) {
	node, err := c.loadLiveOwned(ctx, exec, ownerID, fileID, forUpdate)
	if err != nil {
		return nil, err
	}
	if node.IsFolder {
		return nil, fmt.Errorf("%w: %s is a folder", model.ErrValidation, fileID)
	}
	return node, nil
}

// resolveParent : empty parentID means the owner's root
func (c *core) resolveParent(ctx context.Context, exec sqlx.ExtContext, ownerID, parentID string) (*model.Node, error) {
	if parentID == "" {
		return c.ensureRoot(ctx, exec, ownerID)
	}
	parent, err := c.loadLiveOwned(ctx, exec, ownerID, parentID, false)
	if err != nil {
		return nil, err
	}
	if !parent.IsFolder {
		return nil, fmt.Errorf("%w: parent %s is not a folder", model.ErrNotFound, parentID)
	}
	return parent, nil
}

// depth : number of edges between node and its root, bounded by MaxDepth
func (c *core) depth(ctx context.Context, exec sqlx.ExtContext, node *model.Node) (int, error) {
	d := 0
	current := node
	for !current.IsRoot() {
		if d >= c.Options.MaxDepth {
			return d, fmt.Errorf("%w: tree deeper than %d", model.ErrValidation, c.Options.MaxDepth)
		}
		parent, err := c.Nodes.GetNode(ctx, exec, *current.ParentID)
		if err != nil {
			return d, err
		}
		current = parent
		d++
	}
	return d, nil
}

// ensureNameFree : NameConflict when a live sibling already uses name
func (c *core) ensureNameFree(ctx context.Context, exec sqlx.ExtContext, parentID, name, exceptID string) error {
	existing, err := c.Nodes.FindChildByName(ctx, exec, parentID, name)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == exceptID {
		return nil
	}
	return fmt.Errorf("%w: %q already exists", model.ErrNameConflict, name)
}

// adjustQuota : compare-and-set on storage_used
func (c *core) adjustQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string, delta int64) error {
	if delta == 0 {
		return nil
	}
	_, err := c.Quotas.AdjustUsage(ctx, exec, ownerID, delta)
	return err
}

// publish : only ever called after commit; failures are logged, never returned
func (c *core) publish(ctx context.Context, userID string, name model.EventName, payload any) {
	if c.Notifier == nil {
		return
	}
	event, err := model.NewEvent(name, c.now(), payload)
	if err == nil {
		err = c.Notifier.Publish(ctx, userID, event)
	}
	c.Metrics.EventPublished(string(name), err)
	if err != nil {
		logging.Warn("[Drive] event not published",
			zap.String("event", string(name)), zap.String("user", userID), zap.Error(err))
	}
}

func (c *core) publishNode(ctx context.Context, name model.EventName, node *model.Node, actorID string) {
	c.publish(ctx, node.OwnerID, name, model.NodePayload(node, actorID))
}

// begin : wraps BeginTX so callers only deal with one error shape
func (c *core) begin(ctx context.Context, service string) (sqlx.ExtContext, func() error, func() error, error) {
	exec, rollback, commit, err := c.Tx.BeginTX(ctx)
	if err != nil {
		return nil, nil, nil, util.LogError(fmt.Sprintf("[%s] begin transaction", service), err)
	}
	return exec, rollback, commit, nil
}

// step : one bounded unit of a cascade, under the owner's tree lock
func (c *core) step(ctx context.Context, ownerID string, fn func(ctx context.Context, exec sqlx.ExtContext) (int64, error)) (int64, error) {
	exec, rollback, commit, err := c.Tx.BeginTX(ctx)
	if err != nil {
		return 0, err
	}
	defer rollback()

	if _, err := c.lockTree(ctx, exec, ownerID); err != nil {
		return 0, err
	}
	affected, err := fn(ctx, exec)
	if err != nil {
		return 0, err
	}
	if err := commit(); err != nil {
		return 0, err
	}
	return affected, nil
}

func (c *core) deleteObjectQuietly(ctx context.Context, key, service string) {
	if key == "" {
		return
	}
	if err := c.Storage.Delete(ctx, key); err != nil {
		logging.Warn(fmt.Sprintf("[%s] orphaned object left in storage", service),
			zap.String("key", key), zap.Error(err))
	}
}
