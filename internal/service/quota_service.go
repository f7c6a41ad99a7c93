package service

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"fmt"
	"go.uber.org/zap"
	"time"
)

type QuotaService struct {
	core
}

func NewQuotaService(deps Dependencies) *QuotaService {
	return &QuotaService{core: newCore(deps)}
}

// GetQuota : a first-time owner gets the default limit
func (s *QuotaService) GetQuota(ctx context.Context, ownerID string) (*model.Quota, error) {
	conn := s.Tx.Conn()
	if err := s.Quotas.EnsureQuota(ctx, conn, ownerID, s.Options.DefaultQuota); err != nil {
		return nil, util.LogError("[QuotaService] ensure quota", err)
	}
	quota, err := s.Quotas.GetQuota(ctx, conn, ownerID)
	if err != nil {
		return nil, util.LogError("[QuotaService] read quota", err)
	}
	return quota, nil
}

// SetStorageLimit : admin only. A limit below current usage is accepted, later growth is refused.
func (s *QuotaService) SetStorageLimit(ctx context.Context, isAdmin bool, userID string, limit int64) (quota *model.Quota, err error) {
	defer s.observe("set_storage_limit", time.Now(), &err)

	if !isAdmin {
		return nil, fmt.Errorf("%w: admin role required", model.ErrPermissionDenied)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: storage limit must not be negative", model.ErrValidation)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", model.ErrValidation)
	}

	exec, rollback, commit, err := s.begin(ctx, "QuotaService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	if _, err = s.lockTree(ctx, exec, userID); err != nil {
		return nil, util.LogError("[QuotaService] lock quota", err)
	}
	if quota, err = s.Quotas.SetLimit(ctx, exec, userID, limit); err != nil {
		return nil, util.LogError("[QuotaService] set limit", err)
	}
	if err = commit(); err != nil {
		return nil, util.LogError("[QuotaService] commit limit", err)
	}

	logging.Info("[QuotaService] storage limit changed",
		zap.String("user", userID), zap.Int64("limit", limit), zap.Int64("used", quota.StorageUsed))
	return quota, nil
}
