package ports

import (
	"cloud-drive/internal/model"
	"context"
	"github.com/jmoiron/sqlx"
)

type VersionRepository interface {
	InsertVersion(ctx context.Context, exec sqlx.ExtContext, version *model.Version) error
	MaxVersionNumber(ctx context.Context, exec sqlx.ExtContext, fileID string) (int, error)
	ListVersions(ctx context.Context, exec sqlx.ExtContext, fileID string) ([]model.Version, error)
	GetVersion(ctx context.Context, exec sqlx.ExtContext, fileID string, number int) (*model.Version, error)
	ListStoragePaths(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) ([]string, error)
	DeleteVersions(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) error
}

type VersionService interface {
	AppendVersion(ctx context.Context, fileID string, content model.ContentRef, actorID string) (*model.Version, error)
	UploadVersion(ctx context.Context, actorID, fileID string, content []byte) (*model.Version, error)
	ListVersions(ctx context.Context, actorID, fileID string) ([]model.Version, error)
	RestoreVersion(ctx context.Context, actorID, fileID string, number int) (*model.Version, error)
	GetDownloadRef(ctx context.Context, actorID, fileID string, number int) (*model.AccessRef, error)
	GetPreviewRef(ctx context.Context, actorID, fileID string, number int) (*model.AccessRef, error)
}
