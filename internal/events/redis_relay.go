package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPublishTimeout = 2 * time.Second

// RedisPublisher is the part of a go-redis client the relay needs.
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisRelay forwards dispatched events to a Redis pub/sub channel.
type RedisRelay struct {
	client  RedisPublisher
	channel string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRedisRelay builds a relay publishing to channel.
func NewRedisRelay(client RedisPublisher, channel string, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		timeout: defaultPublishTimeout,
		logger:  logger,
	}
}

// Register subscribes the relay to every employee event.
func (r *RedisRelay) Register(d Dispatcher) {
	SubscribeAll(d, r.Handle)
}

// Handle serializes the event and publishes it.
func (r *RedisRelay) Handle(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	// Publishing is not cut short by request cancellation.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	receivers, err := r.client.Publish(pubCtx, r.channel, body).Result()
	if err != nil {
		r.logger.Warn("event relay failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}

	r.logger.Debug("event relayed",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("channel", r.channel),
		zap.Int64("receivers", receivers))
	return nil
}
