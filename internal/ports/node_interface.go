package ports

import (
	"cloud-drive/internal/model"
	"context"
	"github.com/jmoiron/sqlx"
	"time"
)

// NodeRepository : SQL layer for the file/folder tree
type NodeRepository interface {
	CreateNode(ctx context.Context, exec sqlx.ExtContext, node *model.Node) error
	GetNode(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Node, error)
	GetNodeForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Node, error)
	GetRoot(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Node, error)
	FindChildByName(ctx context.Context, exec sqlx.ExtContext, parentID, name string) (*model.Node, error)
	ListChildren(ctx context.Context, exec sqlx.ExtContext, parentID string, opts model.ListOptions) ([]*model.Node, error)
	ListRecent(ctx context.Context, exec sqlx.ExtContext, ownerID string, mimePrefixes []string, limit int) ([]*model.Node, error)

	UpdateName(ctx context.Context, exec sqlx.ExtContext, id, name, actorID string, at time.Time) error
	UpdateParent(ctx context.Context, exec sqlx.ExtContext, id, parentID, actorID string, at time.Time) error
	UpdateFavorite(ctx context.Context, exec sqlx.ExtContext, id string, favorite bool, actorID string, at time.Time) error
	UpdateTags(ctx context.Context, exec sqlx.ExtContext, id string, tags []string, actorID string, at time.Time) error
	UpdateContent(ctx context.Context, exec sqlx.ExtContext, id string, content model.ContentRef, version int, actorID string, at time.Time) error
	UpdateSyncStatus(ctx context.Context, exec sqlx.ExtContext, id string, status model.SyncStatus, at time.Time) error
	ListBySyncStatus(ctx context.Context, exec sqlx.ExtContext, ownerID string) ([]*model.Node, error)

	MarkRootDeleted(ctx context.Context, exec sqlx.ExtContext, id, batchID string, at time.Time) error
	MarkChildrenDeleted(ctx context.Context, exec sqlx.ExtContext, batchID string, at time.Time, limit int) (int64, error)
	ListInterruptedBatches(ctx context.Context, exec sqlx.ExtContext, limit int) ([]string, error)
	GetBatchRoots(ctx context.Context, exec sqlx.ExtContext, batchID string) ([]*model.Node, error)
	RestoreNode(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) error
	RestoreBatchChildren(ctx context.Context, exec sqlx.ExtContext, batchID string, at time.Time, limit int) (int64, error)
	ListTrash(ctx context.Context, exec sqlx.ExtContext, ownerID string) ([]*model.Node, error)
	ListExpiredTrash(ctx context.Context, exec sqlx.ExtContext, before time.Time, limit int) ([]*model.Node, error)
	ListChildRefs(ctx context.Context, exec sqlx.ExtContext, parentIDs []string) ([]model.NodeRef, error)
	DeleteNodes(ctx context.Context, exec sqlx.ExtContext, ids []string) (int64, error)
}

// NodeService : tree operations used by the HTTP layer
type NodeService interface {
	Root(ctx context.Context, ownerID string) (*model.Node, error)
	GetNode(ctx context.Context, ownerID, nodeID string) (*model.Node, error)
	CreateFolder(ctx context.Context, ownerID, parentID, name string) (*model.Node, error)
	CreateFile(ctx context.Context, ownerID, parentID, name, mimeType string, content model.ContentRef) (*model.Node, error)
	UploadFile(ctx context.Context, ownerID, parentID, name, mimeType string, content []byte) (*model.Node, error)
	Rename(ctx context.Context, actorID, nodeID, newName string) (*model.Node, error)
	Move(ctx context.Context, actorID, nodeID, newParentID string) (*model.Node, error)
	SetFavorite(ctx context.Context, actorID, nodeID string, favorite bool) (*model.Node, error)
	SetTags(ctx context.Context, actorID, nodeID string, tags []string) (*model.Node, error)
	ListChildren(ctx context.Context, ownerID, parentID string, opts model.ListOptions) ([]*model.Node, error)
	ListRecent(ctx context.Context, ownerID string, fileType model.FileType, limit int) ([]*model.Node, error)
	GetPath(ctx context.Context, ownerID, nodeID string) ([]*model.Node, error)
}
