package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
)

const redisDialTimeout = 3 * time.Second

// Redis holds the client the event relay publishes through.
type Redis struct {
	Client  *redis.Client
	Channel string
}

// BuildRedisOptions maps service configuration onto go-redis options.
func BuildRedisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisDialTimeout,
	}
}

// NewRedis opens the client and probes it once. A failed probe is logged as a
// warning; /health/ready keeps reporting it.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(BuildRedisOptions(cfg))

	fields := []zap.Field{zap.String("addr", cfg.Addr), zap.String("channel", cfg.EventsChannel)}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, employee events will not be relayed until it is", append(fields, zap.Error(err))...)
	} else {
		logger.Info("redis ready for employee events", fields...)
	}

	return &Redis{Client: client, Channel: cfg.EventsChannel}
}

func (r *Redis) Close() {
	if r == nil || r.Client == nil {
		return
	}
	_ = r.Client.Close()
}

// Ping is the readiness probe for the event channel.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
