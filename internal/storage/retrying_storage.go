package storage

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/metrics"
	"cloud-drive/internal/model"
	"cloud-drive/internal/ports"
	"context"
	"errors"
	"fmt"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"time"
)

// RetryingStorage : bounded exponential backoff around a backend.
// Exhausted retries surface as model.ErrStorageUnavailable.
type RetryingStorage struct {
	next      ports.ObjectStorage
	attempts  uint64
	baseDelay time.Duration
	metrics   *metrics.Metrics
}

func NewRetryingStorage(next ports.ObjectStorage, attempts uint64, baseDelay time.Duration, m *metrics.Metrics) *RetryingStorage {
	if attempts == 0 {
		attempts = 1
	}
	return &RetryingStorage{next: next, attempts: attempts, baseDelay: baseDelay, metrics: m}
}

func (r *RetryingStorage) backoff() retry.Backoff {
	b := retry.NewExponential(r.baseDelay)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithCappedDuration(5*time.Second, b)
	return retry.WithMaxRetries(r.attempts-1, b)
}

func (r *RetryingStorage) do(ctx context.Context, operation, key string, fn func(ctx context.Context) error) error {
	attempt := 0
	err := retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			r.metrics.StorageRetry(operation)
			logging.Warn("[RetryingStorage] retrying", zap.String("operation", operation),
				zap.String("key", key), zap.Int("attempt", attempt))
		}

		err := fn(ctx)
		if err == nil || !retryable(err) {
			return err
		}
		return retry.RetryableError(err)
	})
	if err == nil || !retryable(err) {
		return err
	}
	return fmt.Errorf("[RetryingStorage] %s %s after %d attempts: %w: %v", operation, key, attempt, model.ErrStorageUnavailable, err)
}

// retryable : missing objects and cancelled requests will not get better by retrying
func retryable(err error) bool {
	switch {
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

func (r *RetryingStorage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	return r.do(ctx, "put", key, func(ctx context.Context) error {
		return r.next.Put(ctx, key, body, contentType)
	})
}

func (r *RetryingStorage) Copy(ctx context.Context, srcKey, dstKey string) error {
	return r.do(ctx, "copy", dstKey, func(ctx context.Context) error {
		return r.next.Copy(ctx, srcKey, dstKey)
	})
}

func (r *RetryingStorage) SignedURL(ctx context.Context, key string, ttl time.Duration, opts model.AccessOptions) (string, error) {
	var signed string
	err := r.do(ctx, "sign", key, func(ctx context.Context) error {
		var err error
		signed, err = r.next.SignedURL(ctx, key, ttl, opts)
		return err
	})
	return signed, err
}

func (r *RetryingStorage) Delete(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func(ctx context.Context) error {
		return r.next.Delete(ctx, key)
	})
}
