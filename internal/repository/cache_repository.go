package repository

import (
	"cloud-drive/config"
	"cloud-drive/internal/model"
	"cloud-drive/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

// CacheRepository : share-link records in Redis. Usability is never cached, only the record.
type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetShareLink(ctx context.Context, link *model.ShareLink) error {
	data, err := json.Marshal(cachedShareLink{ShareLink: *link, PasswordHash: link.PasswordHash})
	if err != nil {
		return util.LogError("[CacheRepo] encode share link", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(link.ShareID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("[CacheRepo] redis set", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("[CacheRepo] unexpected redis reply: %s", cmd.Val())
	}

	return nil
}

// GetShareLink : (nil, nil) on a cache miss
func (r *CacheRepository) GetShareLink(ctx context.Context, shareID string) (*model.ShareLink, error) {
	val, err := r.client.Client.Get(ctx, r.key(shareID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("[CacheRepo] redis get", err)
	}

	var cached cachedShareLink
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, util.LogError("[CacheRepo] decode share link", err)
	}
	link := cached.ShareLink
	link.PasswordHash = cached.PasswordHash
	return &link, nil
}

func (r *CacheRepository) DeleteShareLink(ctx context.Context, shareID string) error {
	if err := r.client.Client.Del(ctx, r.key(shareID)).Err(); err != nil {
		return util.LogError("[CacheRepo] redis del", err)
	}
	return nil
}

func (r *CacheRepository) key(shareID string) string {
	return fmt.Sprintf("share:%s", shareID)
}

// cachedShareLink : the API shape hides the password hash, the cache has to keep it
type cachedShareLink struct {
	model.ShareLink
	PasswordHash *string `json:"password_hash,omitempty"`
}
