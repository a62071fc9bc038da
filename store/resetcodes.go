package store

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetCodeStore keeps password-reset codes keyed by normalized email.
// Expired codes are evicted lazily when looked up; there is no background
// sweep.
type ResetCodeStore interface {
	Set(email, code string, ttl time.Duration)
	// Get returns the stored code, or "" and false when absent or expired.
	Get(email string) (string, bool)
	Delete(email string)
}

type resetCode struct {
	code    string
	expires time.Time
}

// MemoryResetCodeStore is the default single-process backend.
type MemoryResetCodeStore struct {
	mu    sync.Mutex
	codes map[string]resetCode
}

func NewMemoryResetCodeStore() *MemoryResetCodeStore {
	return &MemoryResetCodeStore{codes: make(map[string]resetCode)}
}

func (s *MemoryResetCodeStore) Set(email, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = resetCode{code: code, expires: time.Now().Add(ttl)}
}

func (s *MemoryResetCodeStore) Get(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rc, ok := s.codes[email]
	if !ok {
		return "", false
	}
	if time.Now().After(rc.expires) {
		delete(s.codes, email)
		return "", false
	}
	return rc.code, true
}

func (s *MemoryResetCodeStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
}

// RedisResetCodeStore shares codes across processes. Redis enforces the TTL
// itself, which matches the lazy-expiry contract.
type RedisResetCodeStore struct {
	client *redis.Client
}

func NewRedisResetCodeStore(addr string) *RedisResetCodeStore {
	return &RedisResetCodeStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisResetCodeStore) key(email string) string {
	return "reset-code:" + email
}

func (s *RedisResetCodeStore) Set(email, code string, ttl time.Duration) {
	s.client.Set(context.Background(), s.key(email), code, ttl)
}

func (s *RedisResetCodeStore) Get(email string) (string, bool) {
	code, err := s.client.Get(context.Background(), s.key(email)).Result()
	if err != nil {
		return "", false
	}
	return code, true
}

func (s *RedisResetCodeStore) Delete(email string) {
	s.client.Del(context.Background(), s.key(email))
}
