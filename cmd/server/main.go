package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/mgmt/internal/api"
	v1 "github.com/flexprice/mgmt/internal/api/v1"
	"github.com/flexprice/mgmt/internal/config"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/pubsub"
	pubsubMemory "github.com/flexprice/mgmt/internal/pubsub/memory"
	pubsubRouter "github.com/flexprice/mgmt/internal/pubsub/router"
	"github.com/flexprice/mgmt/internal/repository/memory"
	"github.com/flexprice/mgmt/internal/service"
	"github.com/flexprice/mgmt/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			config.NewConfig,

			logger.NewLogger,

			pubsubMemory.NewPubSub,
			providePublisher,
			provideSubscriber,
			pubsubRouter.NewRouter,

			memory.NewResourceRepository,
		),
	)

	opts = append(opts,
		fx.Provide(
			service.NewNotifier,
			service.NewManagementService,
		),
	)

	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			registerPubSubHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePublisher(ps pubsub.PubSub) pubsub.Publisher {
	return ps
}

func provideSubscriber(ps pubsub.PubSub) pubsub.Subscriber {
	return ps
}

func provideHandlers(
	logger *logger.Logger,
	managementService service.ManagementService,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(managementService, logger),
		Resource: v1.NewResourceHandler(managementService, logger),
	}
}

func registerPubSubHooks(lc fx.Lifecycle, ps pubsub.PubSub, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Closing notification pubsub...")
			return ps.Close()
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	subscriber pubsub.Subscriber,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, subscriber, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s...", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return server.Shutdown(ctx)
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	subscriber pubsub.Subscriber,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	if !cfg.Management.NotificationsEnabled {
		log.Info("Notifications disabled, not starting message router")
		return
	}

	service.RegisterNotificationHandler(router, subscriber, cfg, "notification_logger", service.LogNotification(log))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting message router...")
			go func() {
				if err := router.Run(context.Background()); err != nil {
					log.Errorw("Message router stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down message router...")
			return router.Close()
		},
	})
}
