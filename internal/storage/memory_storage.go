package storage

import (
	"cloud-drive/internal/model"
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

type memoryObject struct {
	body        []byte
	contentType string
}

// MemoryStorage : object storage for memory mode and tests
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: map[string]memoryObject{}, now: time.Now}
}

func (m *MemoryStorage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{body: append([]byte(nil), body...), contentType: contentType}
	return nil
}

func (m *MemoryStorage) Copy(ctx context.Context, srcKey, dstKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[srcKey]
	if !ok {
		return fmt.Errorf("[MemoryStorage] copy %s: %w", srcKey, model.ErrNotFound)
	}
	m.objects[dstKey] = obj
	return nil
}

func (m *MemoryStorage) SignedURL(ctx context.Context, key string, ttl time.Duration, opts model.AccessOptions) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("[MemoryStorage] sign %s: %w", key, model.ErrNotFound)
	}

	q := url.Values{}
	q.Set("expires", fmt.Sprint(m.now().Add(ttl).Unix()))
	q.Set("disposition", contentDisposition(opts))
	return "memory://objects/" + escapeKey(key) + "?" + q.Encode(), nil
}

// Delete : deleting a missing key succeeds, as it does on S3
func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.body, ok
}

func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
