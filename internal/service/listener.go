package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/mgmt/internal/config"
	"github.com/flexprice/mgmt/internal/domain/resource"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/pubsub"
	"github.com/flexprice/mgmt/internal/pubsub/router"
)

// NotificationHandler is called once for every registration notification
type NotificationHandler func(ctx context.Context, n *resource.Notification) error

// RegisterNotificationHandler routes the notifications published on the
// configured topic to handler. Undecodable notifications are dropped.
func RegisterNotificationHandler(
	r *router.Router,
	subscriber pubsub.Subscriber,
	cfg *config.Configuration,
	name string,
	handler NotificationHandler,
) {
	r.AddNoPublishHandler(name, cfg.Management.NotificationTopic, subscriber, func(msg *message.Message) error {
		n, err := DecodeNotification(msg)
		if err != nil {
			return err
		}
		return handler(msg.Context(), n)
	})
}

// LogNotification is a NotificationHandler that logs every notification
func LogNotification(log *logger.Logger) NotificationHandler {
	return func(_ context.Context, n *resource.Notification) error {
		log.Infow("resource notification",
			"type", n.Type,
			"name", n.Name,
			"registration_id", n.RegistrationID,
			"sequence", n.Sequence,
		)
		return nil
	}
}
