package events

import (
	"context"
	"encoding/json"
	"estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/metrics"
	"time"

	"go.uber.org/zap"
)

const qosAtLeastOnce = 1

type broker interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher announces identity lifecycle events on <prefix>/<event type>.
// Delivery is best effort: failures are logged and counted, never returned.
type MQTTPublisher struct {
	broker  broker
	prefix  string
	timeout time.Duration
}

func NewMQTTPublisher(broker broker, prefix string, timeout time.Duration) *MQTTPublisher {
	return &MQTTPublisher{
		broker:  broker,
		prefix:  prefix,
		timeout: timeout,
	}
}

var _ user.EventPublisher = (*MQTTPublisher)(nil)

func (p *MQTTPublisher) Topic(eventType string) string {
	return p.prefix + "/" + eventType
}

func (p *MQTTPublisher) Publish(ctx context.Context, event user.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode event", zap.String("type", event.Type), zap.Error(err))
		metrics.EventsPublishedTotal.WithLabelValues(event.Type, metrics.OutcomeFailure).Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err = p.broker.Publish(ctx, p.Topic(event.Type), qosAtLeastOnce, false, payload)
	metrics.EventsPublishedTotal.WithLabelValues(event.Type, metrics.Outcome(err)).Inc()
	if err != nil {
		logger.Warn("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("user_id", event.UserID.String()),
			zap.Error(err),
		)
	}
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, user.Event) {}
