package ports

import (
	"cloud-drive/internal/model"
	"context"
	"github.com/jmoiron/sqlx"
)

// QuotaRepository : AdjustUsage is a compare-and-set, ErrQuotaExceeded leaves the row untouched
type QuotaRepository interface {
	EnsureQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string, defaultLimit int64) error
	GetQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error)
	LockQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error)
	AdjustUsage(ctx context.Context, exec sqlx.ExtContext, ownerID string, delta int64) (*model.Quota, error)
	SetLimit(ctx context.Context, exec sqlx.ExtContext, ownerID string, limit int64) (*model.Quota, error)
}

type QuotaService interface {
	GetQuota(ctx context.Context, ownerID string) (*model.Quota, error)
	SetStorageLimit(ctx context.Context, isAdmin bool, userID string, limit int64) (*model.Quota, error)
}
