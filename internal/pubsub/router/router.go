package router

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/flexprice/mgmt/internal/config"
	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/pubsub"
)

// Router manages all notification routing
type Router struct {
	router *message.Router
	logger *logger.Logger
	config *config.ManagementConfig
}

// NewRouter creates a new message router. Failed handlers are retried with
// exponential backoff; notifications still failing afterwards are published
// on the poison topic.
func NewRouter(cfg *config.Configuration, publisher pubsub.Publisher, logger *logger.Logger) (*Router, error) {
	router, err := message.NewRouter(
		message.RouterConfig{CloseTimeout: 5 * time.Second},
		logger.GetWatermillLogger(),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create notification router").
			Mark(ierr.ErrSystem)
	}

	poisonQueue, err := middleware.PoisonQueue(
		&contextPublisher{publisher: publisher},
		cfg.Management.PoisonTopic(),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create poison queue").
			Mark(ierr.ErrSystem)
	}

	// Add middleware in correct order
	router.AddMiddleware(
		poisonQueue,
		middleware.Recoverer,     // Recover from panics
		middleware.CorrelationID, // Add correlation IDs
		middleware.Retry{
			MaxRetries:          cfg.Management.NotificationMaxRetries,
			InitialInterval:     cfg.Management.NotificationRetryInterval,
			MaxInterval:         10 * cfg.Management.NotificationRetryInterval,
			Multiplier:          2,
			RandomizationFactor: 0.5,
			Logger:              logger.GetWatermillLogger(),
			OnRetryHook: func(retryNum int, delay time.Duration) {
				logger.Infow("retrying notification",
					"retry_number", retryNum,
					"max_retries", cfg.Management.NotificationMaxRetries,
					"delay", delay,
				)
			},
		}.Middleware,
	)

	return &Router{
		router: router,
		logger: logger,
		config: &cfg.Management,
	}, nil
}

// AddNoPublishHandler adds a handler that doesn't publish messages.
// Errors that retrying cannot fix are logged and the message is dropped.
func (r *Router) AddNoPublishHandler(
	handlerName string,
	topicName string,
	subscriber pubsub.Subscriber,
	handlerFunc func(msg *message.Message) error,
	middlewares ...message.HandlerMiddleware,
) {
	handler := r.router.AddNoPublisherHandler(
		handlerName,
		topicName,
		subscriber,
		func(msg *message.Message) error {
			err := handlerFunc(msg)
			if err == nil {
				return nil
			}

			r.logger.Errorw("handler failed",
				"handler", handlerName,
				"error", err,
				"correlation_id", middleware.MessageCorrelationID(msg),
				"message_uuid", msg.UUID,
			)
			if !shouldRetry(err) {
				return nil
			}
			return err
		},
	)

	for _, middleware := range middlewares {
		handler.AddMiddleware(middleware)
	}
}

// Run starts the router and blocks until ctx is done or Close is called
func (r *Router) Run(ctx context.Context) error {
	r.logger.Info("starting notification router")
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close gracefully shuts down the router
func (r *Router) Close() error {
	r.logger.Info("closing notification router")
	return r.router.Close()
}

// shouldRetry reports whether a failed handler may succeed on another attempt
func shouldRetry(err error) bool {
	// Business logic errors (don't retry)
	if ierr.IsValidation(err) ||
		ierr.IsNotFound(err) ||
		ierr.IsInvalidOperation(err) {
		return false
	}

	// By default, retry unknown errors
	return true
}

// contextPublisher adapts a pubsub.Publisher to watermill's publisher,
// publishing every message with its own context
type contextPublisher struct {
	publisher pubsub.Publisher
}

func (p *contextPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if err := p.publisher.Publish(msg.Context(), topic, msg); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; the publisher is owned and closed by its provider
func (p *contextPublisher) Close() error {
	return nil
}
