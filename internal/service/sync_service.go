package service

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"time"
)

// syncTransitions : synced -> syncing -> {synced, error}; error -> syncing on retry
var syncTransitions = map[model.SyncStatus][]model.SyncStatus{
	model.SyncStatusSynced:  {model.SyncStatusSyncing},
	model.SyncStatusSyncing: {model.SyncStatusSynced, model.SyncStatusError},
	model.SyncStatusError:   {model.SyncStatusSyncing},
}

// checkSyncTransition : staying in the same state is always allowed
func checkSyncTransition(from, to model.SyncStatus) error {
	if _, known := syncTransitions[to]; !known {
		return fmt.Errorf("%w: unknown sync status %q", model.ErrValidation, to)
	}
	if from == to {
		return nil
	}
	for _, next := range syncTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: sync status cannot go from %s to %s", model.ErrValidation, from, to)
}

type SyncService struct {
	core
}

func NewSyncService(deps Dependencies) *SyncService {
	return &SyncService{core: newCore(deps)}
}

// Report : status reported by the external reconciliation process
func (s *SyncService) Report(ctx context.Context, actorID, fileID string, status model.SyncStatus) (file *model.Node, err error) {
	defer s.observe("sync_report", time.Now(), &err)

	return s.transition(ctx, actorID, fileID, func(ctx context.Context, exec sqlx.ExtContext, file *model.Node) error {
		if err := checkSyncTransition(file.SyncStatus, status); err != nil {
			return err
		}
		if file.SyncStatus == status {
			return nil
		}
		return s.Nodes.UpdateSyncStatus(ctx, exec, file.ID, status, s.now())
	})
}

// Simulate : walks the file through syncing to outcome, the same changes a real reconciliation makes
func (s *SyncService) Simulate(ctx context.Context, actorID, fileID string, outcome model.SyncStatus) (file *model.Node, err error) {
	defer s.observe("sync_simulate", time.Now(), &err)

	if outcome != model.SyncStatusSynced && outcome != model.SyncStatusError {
		return nil, fmt.Errorf("%w: simulation ends in synced or error, not %q", model.ErrValidation, outcome)
	}

	return s.transition(ctx, actorID, fileID, func(ctx context.Context, exec sqlx.ExtContext, file *model.Node) error {
		for _, next := range []model.SyncStatus{model.SyncStatusSyncing, outcome} {
			if err := checkSyncTransition(file.SyncStatus, next); err != nil {
				return err
			}
			if file.SyncStatus == next {
				continue
			}
			if err := s.Nodes.UpdateSyncStatus(ctx, exec, file.ID, next, s.now()); err != nil {
				return err
			}
			logging.Debug("[SyncService] simulated transition",
				zap.String("file", file.ID), zap.String("from", string(file.SyncStatus)), zap.String("to", string(next)))
			file.SyncStatus = next
		}
		return nil
	})
}

func (s *SyncService) transition(ctx context.Context, actorID, fileID string,
	apply func(ctx context.Context, exec sqlx.ExtContext, file *model.Node) error) (*model.Node, error) {

	exec, rollback, commit, err := s.begin(ctx, "SyncService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	file, err := s.loadLiveFile(ctx, exec, actorID, fileID, true)
	if err != nil {
		return nil, util.LogError("[SyncService] load file", err)
	}
	before := file.SyncStatus
	if err := apply(ctx, exec, file); err != nil {
		return nil, util.LogError("[SyncService] change sync status", err)
	}
	if file, err = s.Nodes.GetNode(ctx, exec, fileID); err != nil {
		return nil, util.LogError("[SyncService] reload file", err)
	}
	if err := commit(); err != nil {
		return nil, util.LogError("[SyncService] commit sync status", err)
	}

	if file.SyncStatus != before {
		logging.Info("[SyncService] sync status changed",
			zap.String("file", fileID), zap.String("from", string(before)), zap.String("to", string(file.SyncStatus)))
		s.publishNode(ctx, model.EventFileUpdated, file, actorID)
	}
	return file, nil
}

// GetStatus : every live file of the owner that is not synced
func (s *SyncService) GetStatus(ctx context.Context, ownerID string) ([]*model.Node, error) {
	files, err := s.Nodes.ListBySyncStatus(ctx, s.Tx.Conn(), ownerID)
	if err != nil {
		return nil, util.LogError("[SyncService] list unsynced files", err)
	}
	return files, nil
}
