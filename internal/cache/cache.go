// Package cache хранит значения с ограниченным сроком жизни: одноразовые
// коды сброса пароля workshops-api. Значения сериализуются в JSON.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/workshop-portal/internal/config"
)

// Cache — хранилище значений с TTL.
type Cache interface {
	// Get читает значение в result. false означает, что ключа нет или он истёк.
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// New создаёт кеш по имени драйвера: memory или redis.
func New(ctx context.Context, driver string, cfg config.RedisConnection) (Cache, error) {
	const op = "cache.New"

	switch driver {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		c, err := InitServer(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%s: unknown cache driver %q", op, driver)
	}
}
