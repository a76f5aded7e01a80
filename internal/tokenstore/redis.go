package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/workshop-portal/internal/config"
)

// Redis хранит токен под одним ключом в redis. Удобно, когда несколько
// терминалов пользователя должны видеть один и тот же вход.
type Redis struct {
	Db  *redis.Client
	key string
}

// NewRedis подключается к redis и проверяет соединение.
func NewRedis(ctx context.Context, cfg config.RedisConnection, key string) (*Redis, error) {
	const op = "tokenstore.NewRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if key == "" {
		key = "workshops:token"
	}
	return &Redis{Db: db, key: key}, nil
}

func (r *Redis) Load(ctx context.Context) (string, error) {
	const op = "tokenstore.Redis.Load"
	val, err := r.Db.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

func (r *Redis) Save(ctx context.Context, token string) error {
	const op = "tokenstore.Redis.Save"
	if err := r.Db.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	const op = "tokenstore.Redis.Clear"
	if err := r.Db.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с redis.
func (r *Redis) Close() error {
	return r.Db.Close()
}
