package repository

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const quotaColumns = `owner_id, storage_used, storage_limit, updated_at`

type QuotaRepository struct{}

func NewQuotaRepository() *QuotaRepository {
	return &QuotaRepository{}
}

func (r *QuotaRepository) EnsureQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string, defaultLimit int64) error {
	query := `
		INSERT INTO quotas (owner_id, storage_limit) VALUES ($1, $2)
		ON CONFLICT (owner_id) DO NOTHING
	`
	if _, err := exec.ExecContext(ctx, query, ownerID, defaultLimit); err != nil {
		return util.LogError("[QuotaRepo] ensure quota", err)
	}
	return nil
}

func (r *QuotaRepository) GetQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error) {
	return r.getOne(ctx, exec, `SELECT `+quotaColumns+` FROM quotas WHERE owner_id = $1`, ownerID)
}

// LockQuota : the owner's quota row doubles as the per-owner tree lock
func (r *QuotaRepository) LockQuota(ctx context.Context, exec sqlx.ExtContext, ownerID string) (*model.Quota, error) {
	return r.getOne(ctx, exec, `SELECT `+quotaColumns+` FROM quotas WHERE owner_id = $1 FOR UPDATE`, ownerID)
}

func (r *QuotaRepository) getOne(ctx context.Context, exec sqlx.ExtContext, query string, args ...any) (*model.Quota, error) {
	var quota model.Quota
	if err := sqlx.GetContext(ctx, exec, &quota, query, args...); err != nil {
		return nil, util.LogError("[QuotaRepo] get quota", translateError(err, model.ErrNotFound))
	}
	return &quota, nil
}

// quotaAdjustment : the updated row plus the usage the delta asked for before clamping
type quotaAdjustment struct {
	model.Quota
	Requested int64 `db:"requested_used"`
}

// AdjustUsage : compare-and-set; no returned row means the increase would pass the limit.
// A release that would drive storage_used below zero is clamped and reported.
func (r *QuotaRepository) AdjustUsage(ctx context.Context, exec sqlx.ExtContext, ownerID string, delta int64) (*model.Quota, error) {
	query := `
		UPDATE quotas q
		SET storage_used = GREATEST(q.storage_used + $2::bigint, 0), updated_at = NOW()
		FROM (SELECT storage_used FROM quotas WHERE owner_id = $1) prev
		WHERE q.owner_id = $1 AND ($2::bigint <= 0 OR q.storage_used + $2::bigint <= q.storage_limit)
		RETURNING q.owner_id, q.storage_used, q.storage_limit, q.updated_at, prev.storage_used + $2::bigint AS requested_used
	`

	var adjusted quotaAdjustment
	if err := sqlx.GetContext(ctx, exec, &adjusted, query, ownerID, delta); err != nil {
		return nil, util.LogError("[QuotaRepo] adjust usage", translateError(err, model.ErrQuotaExceeded))
	}
	if adjusted.Requested < 0 {
		ReportUsageUnderflow(ownerID, delta, adjusted.Requested)
	}
	return &adjusted.Quota, nil
}

// ReportUsageUnderflow : storage_used accounting has drifted from the stored sizes
func ReportUsageUnderflow(ownerID string, delta, requested int64) {
	logging.Error("[QuotaRepo] storage_used would go negative, clamped to 0",
		zap.String("owner", ownerID), zap.Int64("delta", delta), zap.Int64("requested_used", requested))
}

func (r *QuotaRepository) SetLimit(ctx context.Context, exec sqlx.ExtContext, ownerID string, limit int64) (*model.Quota, error) {
	query := `
		INSERT INTO quotas (owner_id, storage_limit) VALUES ($1, $2)
		ON CONFLICT (owner_id) DO UPDATE SET storage_limit = EXCLUDED.storage_limit, updated_at = NOW()
		RETURNING ` + quotaColumns

	var quota model.Quota
	if err := sqlx.GetContext(ctx, exec, &quota, query, ownerID, limit); err != nil {
		return nil, util.LogError("[QuotaRepo] set limit", err)
	}
	return &quota, nil
}
