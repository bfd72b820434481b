package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"camping-admin/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	eventsChannel = "admin:auth-changed"
	updateRetries = 3
)

func InitRedis(addr, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established", zap.String("addr", addr))
	return rdb, nil
}

// RedisStore keeps "session:<id>:token" and "session:<id>:user" keys. A zero
// ttl stores them without expiry.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func tokenKey(id string) string { return fmt.Sprintf("session:%s:token", id) }
func userKey(id string) string  { return fmt.Sprintf("session:%s:user", id) }

func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	blob, err := encodeIdentity(sess.Identity)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(sess.ID), sess.Token, s.ttl)
		pipe.Set(ctx, userKey(sess.ID), blob, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Update rewrites both keys, keeping their ttl, only while the token key
// still exists.
func (s *RedisStore) Update(ctx context.Context, sess *models.Session) error {
	blob, err := encodeIdentity(sess.Identity)
	if err != nil {
		return err
	}
	update := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, tokenKey(sess.ID)).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoSession
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, tokenKey(sess.ID), sess.Token, redis.SetArgs{Mode: "XX", KeepTTL: true})
			pipe.SetArgs(ctx, userKey(sess.ID), blob, redis.SetArgs{KeepTTL: true})
			return nil
		})
		return err
	}

	for i := 0; i < updateRetries; i++ {
		err = s.rdb.Watch(ctx, update, tokenKey(sess.ID))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		break
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoSession), errors.Is(err, redis.Nil):
		return ErrNoSession
	default:
		return fmt.Errorf("failed to update session: %w", err)
	}
}

func (s *RedisStore) Load(ctx context.Context, id string) (*models.Session, error) {
	vals, err := s.rdb.MGet(ctx, tokenKey(id), userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	token, _ := vals[0].(string)
	if token == "" {
		return nil, ErrNoSession
	}
	blob, _ := vals[1].(string)
	return decodeSession(id, token, []byte(blob))
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, tokenKey(id), userKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RedisBroadcaster relays auth-changed events between instances.
type RedisBroadcaster struct {
	rdb *redis.Client
}

func NewRedisBroadcaster(rdb *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.rdb.Publish(ctx, eventsChannel, payload).Err()
}

// Listen delivers remote events to fn until ctx is done.
func (b *RedisBroadcaster) Listen(ctx context.Context, fn func(Event)) error {
	sub := b.rdb.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", eventsChannel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("auth event subscription closed")
			}
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				continue
			}
			fn(evt)
		}
	}
}
