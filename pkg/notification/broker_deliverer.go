package notification

import (
	"context"
	"log/slog"

	"github.com/SaribMalek/relay/pkg/broker"
	"github.com/SaribMalek/relay/pkg/logger"
)

// BrokerDeliverer pushes notifications through the delivery broker. A
// personal notification targets the user's room; a broadcast targets every
// live connection. Endpoints that dropped the event are counted by the
// broker and logged here, never reported as failure to the publisher.
type BrokerDeliverer struct {
	broker *broker.Broker
	logger *slog.Logger
}

// BrokerDelivererOption configures a BrokerDeliverer.
type BrokerDelivererOption func(*BrokerDeliverer)

// WithBrokerDelivererLogger sets the logger for the BrokerDeliverer.
func WithBrokerDelivererLogger(log *slog.Logger) BrokerDelivererOption {
	return func(d *BrokerDeliverer) {
		if log != nil {
			d.logger = log
		}
	}
}

// NewBrokerDeliverer creates a broker-backed deliverer.
func NewBrokerDeliverer(b *broker.Broker, opts ...BrokerDelivererOption) *BrokerDeliverer {
	d := &BrokerDeliverer{
		broker: b,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *BrokerDeliverer) Deliver(ctx context.Context, n Notification) error {
	room := broker.BroadcastRoom
	if n.UserID != nil {
		room = broker.UserRoom(*n.UserID)
	}

	delivered := d.broker.Publish(room, broker.Event{
		Name:    broker.EventNotification,
		Payload: n,
	})

	d.logger.LogAttrs(ctx, slog.LevelDebug, "notification fan-out complete",
		logger.NotificationID(n.ID),
		logger.Room(room),
		logger.Delivered(delivered),
	)
	return nil
}
