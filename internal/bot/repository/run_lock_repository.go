package repository

import (
	"context"
	"sync"
	"time"

	"golang-stock-watchlist/pkg/apperror"
	pkgredis "golang-stock-watchlist/pkg/redis"

	"github.com/redis/go-redis/v9"
)

// RunLockRepository guards a job so at most one run holds the key at a time.
type RunLockRepository interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisRunLockRepository struct {
	client *pkgredis.Client
}

// NewRedisRunLockRepository creates a lock shared by every replica using the same Redis.
func NewRedisRunLockRepository(client *pkgredis.Client) RunLockRepository {
	return &redisRunLockRepository{client: client}
}

func (r *redisRunLockRepository) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, apperror.Storage("runlock.Acquire", err)
	}
	return ok, nil
}

func (r *redisRunLockRepository) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		return apperror.Storage("runlock.Release", err)
	}
	return nil
}

type localLock struct {
	token     string
	expiresAt time.Time
}

type localRunLockRepository struct {
	mu    sync.Mutex
	locks map[string]localLock
	now   func() time.Time
}

// NewLocalRunLockRepository creates an in-process lock, used when Redis is disabled.
func NewLocalRunLockRepository() RunLockRepository {
	return &localRunLockRepository{locks: make(map[string]localLock), now: time.Now}
}

func (r *localRunLockRepository) Acquire(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if held, ok := r.locks[key]; ok && now.Before(held.expiresAt) {
		return false, nil
	}
	r.locks[key] = localLock{token: token, expiresAt: now.Add(ttl)}
	return true, nil
}

func (r *localRunLockRepository) Release(_ context.Context, key, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if held, ok := r.locks[key]; ok && held.token == token {
		delete(r.locks, key)
	}
	return nil
}
