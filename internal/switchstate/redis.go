package switchstate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisStateKey = "switchd:switch_state"

// RedisStore keeps the state in Redis, for deployments where several daemon
// instances front the same account registry.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds connection settings for the state backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context) (State, error) {
	data, err := s.client.Get(ctx, redisStateKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Idle(), nil
		}
		return Idle(), err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return Idle(), err
	}
	if st.Phase == "" {
		st.Phase = PhaseIdle
	}
	return st, nil
}

func (s *RedisStore) Set(ctx context.Context, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisStateKey, data, 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.Set(ctx, Idle())
}
