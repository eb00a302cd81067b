package sessionredis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store keeps session records in redis as JSON with a server-side TTL. The
// record carries its own ExpiresAt as well, so an entry redis has not yet
// evicted is still rejected once past expiry.
type Store struct {
	client *redis.Client
}

func New(addr, password string, db int) (*Store, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: client}, nil
}

func NewFromClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record domain.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) Put(ctx context.Context, sessionID string, record domain.SessionRecord, ttl time.Duration) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+sessionID, raw, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, keyPrefix+sessionID).Err()
}

var _ domain.SessionStore = (*Store)(nil)
