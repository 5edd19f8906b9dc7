package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("room is busy, please retry")

// LocalLocker serializes creations inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	rooms map[int64]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{rooms: make(map[int64]chan struct{})}
}

func (l *LocalLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	l.mu.Lock()
	sem, ok := l.rooms[roomID]
	if !ok {
		sem = make(chan struct{}, 1)
		l.rooms[roomID] = sem
	}
	l.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
	}
}

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLocker shares room locks between API replicas.
type RedisLocker struct {
	client redisLockClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisLocker(client redisLockClient) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    10 * time.Second,
		wait:   5 * time.Second,
		retry:  25 * time.Millisecond,
	}
}

func roomLockKey(roomID int64) string {
	return fmt.Sprintf("room_lock:%d", roomID)
}

func (l *RedisLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	key := roomLockKey(roomID)
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(l.retry):
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		log.Printf("room_lock_release_failed key=%s err=%v", key, err)
	}
}

// NewRoomLocker prefers Redis and falls back to an in-process lock.
func NewRoomLocker(client *redis.Client) RoomLocker {
	if client == nil {
		return NewLocalLocker()
	}
	return NewRedisLocker(client)
}
