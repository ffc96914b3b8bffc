package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// sessionTTL bounds how long an abandoned conversation sticks around in
// Redis. In-process callers never see an expiry mid-conversation in practice.
const sessionTTL = 24 * time.Hour

// RedisStore keeps sessions as JSON in Redis. Read-modify-write for a given
// id is serialized through a local per-id mutex, so concurrent turns on the
// same session cannot lose updates within one process.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("voiceassistant.internal.session")
	}
	return &RedisStore{
		redis:  client,
		tracer: tracer,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Create registers a fresh session under id, replacing any previous one.
func (s *RedisStore) Create(ctx context.Context, id string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.create")
	defer span.End()

	sess := New(id)
	if err := s.save(ctx, sess); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return sess, nil
}

// Update loads the session, applies fn, and writes the result back, all under
// the id's local lock.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) error {
	ctx, span := s.tracer.Start(ctx, "session.update")
	defer span.End()

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrNotFound
		}
		span.RecordError(err)
		return fmt.Errorf("session: failed to load %s: %w", id, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to decode %s: %w", id, err)
	}

	if err := fn(&sess); err != nil {
		return err
	}
	if err := s.save(ctx, &sess); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *RedisStore) save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: failed to marshal %s: %w", sess.ID, err)
	}
	if err := s.redis.Set(ctx, sessionKey(sess.ID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("session: failed to persist %s: %w", sess.ID, err)
	}
	return nil
}

// lockFor returns the mutex guarding id, creating it on first use. Lock
// entries are never removed; like sessions, they live for the process.
func (s *RedisStore) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
