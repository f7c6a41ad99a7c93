package ports

import (
	"cloud-drive/internal/model"
	"context"
	"github.com/jmoiron/sqlx"
	"time"
)

type ShareRepository interface {
	CreateShareLink(ctx context.Context, exec sqlx.ExtContext, link *model.ShareLink) error
	ShareIDExists(ctx context.Context, exec sqlx.ExtContext, shareID string) (bool, error)
	GetShareLink(ctx context.Context, exec sqlx.ExtContext, shareID string) (*model.ShareLink, error)
	RevokeShareLink(ctx context.Context, exec sqlx.ExtContext, shareID string) error
	ListShareLinks(ctx context.Context, exec sqlx.ExtContext, fileID string) ([]model.ShareLink, error)
	DeleteShareLinks(ctx context.Context, exec sqlx.ExtContext, fileIDs []string) error
}

// CreateLinkInput : everything the owner chooses when sharing a file
type CreateLinkInput struct {
	FileID     string
	Permission model.Permission
	ExpiresAt  *time.Time
	Password   string
}

type ShareService interface {
	CreateLink(ctx context.Context, actorID string, in CreateLinkInput) (*model.ShareLink, error)
	Resolve(ctx context.Context, shareID, password string) (*model.SharePreview, error)
	ResolveDownload(ctx context.Context, shareID, password string) (*model.AccessRef, error)
	Revoke(ctx context.Context, actorID, shareID string) error
	ListLinks(ctx context.Context, actorID, fileID string) ([]model.ShareLink, error)
}
