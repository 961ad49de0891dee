package vk

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// CursorStore persists the long-poll ts marker so a poller restart resumes
// where the previous process stopped instead of replaying or dropping
// updates.
type CursorStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, ts string) error
}

const cursorKey = "vk:longpoll:ts"

// RedisCursorStore keeps the cursor in redis with no expiry.
type RedisCursorStore struct {
	rdclient *redis.Client
}

func NewRedisCursorStore(host string, port int, password string, db int) *RedisCursorStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})
	return &RedisCursorStore{rdclient: rdclient}
}

func (s *RedisCursorStore) Load(ctx context.Context) (string, error) {
	ts, err := s.rdclient.Get(ctx, cursorKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "could not load long-poll cursor")
	}
	return ts, nil
}

func (s *RedisCursorStore) Save(ctx context.Context, ts string) error {
	if err := s.rdclient.Set(ctx, cursorKey, ts, 0).Err(); err != nil {
		return errors.Wrap(err, "could not save long-poll cursor")
	}
	return nil
}
