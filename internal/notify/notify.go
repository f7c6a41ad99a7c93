// Package notify delivers realtime events after a transaction commits.
package notify

import (
	"cloud-drive/config"
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"encoding/json"
	"fmt"
	"go.uber.org/zap"
)

// Channel : one pub/sub channel per user; the websocket edge subscribes to it
func Channel(userID string) string {
	return fmt.Sprintf("drive:events:%s", userID)
}

type RedisNotifier struct {
	client *config.RedisClient
}

func NewRedisNotifier(client *config.RedisClient) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, userID string, event model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return util.LogError("[RedisNotifier] encode event", err)
	}

	if err := n.client.Client.Publish(ctx, Channel(userID), data).Err(); err != nil {
		return util.LogError("[RedisNotifier] publish", err)
	}
	return nil
}

// LogNotifier : used when Redis is disabled
type LogNotifier struct{}

func (LogNotifier) Publish(ctx context.Context, userID string, event model.Event) error {
	logging.Debug("[LogNotifier] event",
		zap.String("user_id", userID),
		zap.String("event", string(event.Name)),
		zap.Int("version", event.Version),
		zap.Any("payload", event.Payload))
	return nil
}
