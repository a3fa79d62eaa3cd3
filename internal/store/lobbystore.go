// Package store holds the backends the game engine persists through: a
// Redis-backed live lobby store with a per-lobby distributed lock, a Redis
// Pub/Sub fabric for broadcasting lobby events, and a SQLite-backed
// relational store for users and completed games.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound        = errors.New("lobby not found")
	ErrAlreadyExists   = errors.New("lobby already exists")
	ErrLockNotAcquired = errors.New("could not acquire lobby lock")
)

const (
	lobbyKeyPrefix = "lobby:"
	lockKeyPrefix  = "lobby-lock:"

	lockRetryInterval = 25 * time.Millisecond
	lockWaitBudget    = 2 * time.Second
)

// LobbyStore is a generic JSON-value store over Redis, keyed by lobby
// name, with TTL support (pre-join expiry) and a per-key distributed lock
// used to serialize the read-modify-write cycle of each lobby mutation
// across any front-end process handling one of its two sockets.
type LobbyStore[T any] struct {
	rdb *redis.Client
}

func NewLobbyStore[T any](rdb *redis.Client) *LobbyStore[T] {
	return &LobbyStore[T]{rdb: rdb}
}

func lobbyKey(name string) string { return lobbyKeyPrefix + name }
func lockKey(name string) string  { return lockKeyPrefix + name }

// Create stores a brand-new lobby record with the given TTL, failing if one
// already exists under the same name.
func (s *LobbyStore[T]) Create(ctx context.Context, name string, lobby T, ttl time.Duration) error {
	b, err := json.Marshal(lobby)
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, lobbyKey(name), b, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	return nil
}

// Get loads a lobby record by name.
func (s *LobbyStore[T]) Get(ctx context.Context, name string) (T, error) {
	var lobby T

	b, err := s.rdb.Get(ctx, lobbyKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return lobby, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return lobby, err
	}

	if err := json.Unmarshal(b, &lobby); err != nil {
		return lobby, err
	}
	return lobby, nil
}

// Save persists an updated lobby record, preserving its current TTL.
func (s *LobbyStore[T]) Save(ctx context.Context, name string, lobby T) error {
	b, err := json.Marshal(lobby)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, lobbyKey(name), b, redis.KeepTTL).Err()
}

// Persist clears a lobby's expiration, used once the first socket attaches
// and the lobby no longer risks abandonment.
func (s *LobbyStore[T]) Persist(ctx context.Context, name string) error {
	return s.rdb.Persist(ctx, lobbyKey(name)).Err()
}

// Delete removes a lobby record, e.g. once a finished game's game.end has
// been broadcast, or on last-occupant disconnect pre-game.
func (s *LobbyStore[T]) Delete(ctx context.Context, name string) error {
	return s.rdb.Del(ctx, lobbyKey(name)).Err()
}

// List scans all lobby records and returns those matching filter (pass a
// filter that always returns true to list everything).
func (s *LobbyStore[T]) List(ctx context.Context, filter func(T) bool) ([]T, error) {
	var lobbies []T

	iter := s.rdb.Scan(ctx, 0, lobbyKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := s.rdb.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired or deleted between SCAN and GET.
		}
		if err != nil {
			return nil, err
		}

		var lobby T
		if err := json.Unmarshal(b, &lobby); err != nil {
			return nil, err
		}
		if filter == nil || filter(lobby) {
			lobbies = append(lobbies, lobby)
		}
	}
	return lobbies, iter.Err()
}

var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// Lock acquires the distributed lock for name, spinning with a short
// interval until acquired, the context is cancelled, or lockWaitBudget
// elapses. The returned release function is safe to call exactly once.
func (s *LobbyStore[T]) Lock(ctx context.Context, name string, ttl time.Duration) (release func(), err error) {
	token := shortuuid.New()
	key := lockKey(name)
	deadline := time.Now().Add(lockWaitBudget)

	for {
		ok, err := s.rdb.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseLockScript.Run(releaseCtx, s.rdb, []string{key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, name)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

// WithLock locks name, loads the current record, runs fn under the lock,
// and saves whatever fn returns before releasing it.
func (s *LobbyStore[T]) WithLock(ctx context.Context, name string, ttl time.Duration, fn func(T) (T, error)) (T, error) {
	var zero T

	release, err := s.Lock(ctx, name, ttl)
	if err != nil {
		return zero, err
	}
	defer release()

	lobby, err := s.Get(ctx, name)
	if err != nil {
		return zero, err
	}

	updated, err := fn(lobby)
	if err != nil {
		return zero, err
	}

	if err := s.Save(ctx, name, updated); err != nil {
		return zero, err
	}
	return updated, nil
}
