package messaging

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/event"
	"github.com/wekeepgrowing/payments-gateway/pkg/messaging"
	"go.uber.org/zap"
)

// DefaultChannel is the pub/sub channel gateway events are published on.
const DefaultChannel = "payments.events"

// RedisPublisher publishes gateway events as JSON on a Redis channel.
type RedisPublisher struct {
	client  messaging.RedisClient
	channel string
	logger  *zap.Logger
}

var _ event.Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client messaging.RedisClient, channel string, logger *zap.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt event.Event) error {
	if err := p.client.Publish(ctx, p.channel, evt); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", evt.Type, err)
	}
	p.logger.Debug("Published event",
		zap.String("channel", p.channel),
		zap.String("event_id", evt.ID),
		zap.String("event_type", evt.Type))
	return nil
}

// NopPublisher logs events instead of publishing them. It is used when no Redis
// address is configured.
type NopPublisher struct {
	logger *zap.Logger
}

func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) Publish(_ context.Context, evt event.Event) error {
	p.logger.Debug("Event not published, no broker configured",
		zap.String("event_id", evt.ID),
		zap.String("event_type", evt.Type))
	return nil
}
