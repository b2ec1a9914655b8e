package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-attempt-service/internal/app"
)

// AttemptStore is a Redis-aware implementation of app.AttemptStore.
// Notes:
//   - Attempts stay in a local map: the controller, its countdown goroutine,
//     and its subscriber channels are process-local by nature.
//   - Redis marks attempt liveness so operators (and a future multi-instance
//     router) can see which user+quiz pairs are mid-attempt.
type AttemptStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	attempts map[string]*app.Attempt
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		client:   client,
		ttl:      ttl,
		attempts: make(map[string]*app.Attempt),
	}
}

func (s *AttemptStore) Replace(key string, attempt *app.Attempt) *app.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.attempts[key]
	s.attempts[key] = attempt
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.liveKey(key), attempt.ID, s.ttl).Err()
	return prev
}

func (s *AttemptStore) Get(key string) (*app.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[key]
	return attempt, ok
}

func (s *AttemptStore) Remove(key string) (*app.Attempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[key]
	if !ok {
		return nil, false
	}
	delete(s.attempts, key)
	_ = s.client.Del(context.Background(), s.liveKey(key)).Err()
	return attempt, true
}

func (s *AttemptStore) liveKey(key string) string {
	return "quiz:attempt:" + key
}
