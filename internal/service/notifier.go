package service

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/mgmt/internal/config"
	"github.com/flexprice/mgmt/internal/domain/resource"
	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/pubsub"
	"github.com/flexprice/mgmt/internal/types"
)

// Notifier publishes registration notifications
type Notifier interface {
	Notify(ctx context.Context, typ resource.NotificationType, r *resource.Resource) error
}

type notifier struct {
	publisher pubsub.Publisher
	topic     string
	enabled   bool
	sequence  atomic.Int64
	logger    *logger.Logger
}

func NewNotifier(publisher pubsub.Publisher, cfg *config.Configuration, logger *logger.Logger) Notifier {
	return &notifier{
		publisher: publisher,
		topic:     cfg.Management.NotificationTopic,
		enabled:   cfg.Management.NotificationsEnabled,
		logger:    logger,
	}
}

func (n *notifier) Notify(ctx context.Context, typ resource.NotificationType, r *resource.Resource) error {
	if !n.enabled {
		return nil
	}

	notification := resource.Notification{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION),
		Type:           typ,
		Name:           r.Name.String(),
		RegistrationID: r.RegistrationID,
		Sequence:       n.sequence.Add(1),
		Timestamp:      time.Now().UTC(),
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode notification").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(notification.ID, payload)
	msg.Metadata.Set("type", string(typ))
	msg.Metadata.Set("name", notification.Name)

	if err := n.publisher.Publish(ctx, n.topic, msg); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish notification").
			Mark(ierr.ErrSystem)
	}

	n.logger.Debugw("notification published",
		"type", typ,
		"name", notification.Name,
		"sequence", notification.Sequence,
	)
	return nil
}

// DecodeNotification reads a notification published by Notify
func DecodeNotification(msg *message.Message) (*resource.Notification, error) {
	var n resource.Notification
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid notification payload").
			Mark(ierr.ErrValidation)
	}
	return &n, nil
}
