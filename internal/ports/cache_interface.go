package ports

import (
	"cloud-drive/internal/model"
	"context"
)

// CacheRepository : Redis layer for share-link records. A miss is (nil, nil).
type CacheRepository interface {
	SetShareLink(ctx context.Context, link *model.ShareLink) error
	GetShareLink(ctx context.Context, shareID string) (*model.ShareLink, error)
	DeleteShareLink(ctx context.Context, shareID string) error
}
