package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/event"
	"go.uber.org/zap"
)

// publish emits an event. A failed publish is logged and otherwise ignored.
func publish(ctx context.Context, publisher event.Publisher, logger *zap.Logger, eventType string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	evt := event.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if err := publisher.Publish(ctx, evt); err != nil {
		logger.Warn("failed to publish event",
			zap.String("event_id", evt.ID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
