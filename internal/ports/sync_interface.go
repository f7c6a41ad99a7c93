package ports

import (
	"cloud-drive/internal/model"
	"context"
)

type SyncService interface {
	Report(ctx context.Context, actorID, fileID string, status model.SyncStatus) (*model.Node, error)
	GetStatus(ctx context.Context, ownerID string) ([]*model.Node, error)
	Simulate(ctx context.Context, actorID, fileID string, outcome model.SyncStatus) (*model.Node, error)
}
