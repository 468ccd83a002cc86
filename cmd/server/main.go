package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ivesbwas/bwas/internal/api"
	v1 "github.com/ivesbwas/bwas/internal/api/v1"
	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/document"
	"github.com/ivesbwas/bwas/internal/domain/signature"
	"github.com/ivesbwas/bwas/internal/dynamodb"
	"github.com/ivesbwas/bwas/internal/httpclient"
	"github.com/ivesbwas/bwas/internal/integration/essar"
	"github.com/ivesbwas/bwas/internal/integration/fbp"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/postgres"
	"github.com/ivesbwas/bwas/internal/publisher"
	"github.com/ivesbwas/bwas/internal/pubsub"
	"github.com/ivesbwas/bwas/internal/pubsub/kafka"
	"github.com/ivesbwas/bwas/internal/pubsub/memory"
	"github.com/ivesbwas/bwas/internal/repository"
	postgresRepo "github.com/ivesbwas/bwas/internal/repository/postgres"
	"github.com/ivesbwas/bwas/internal/sentry"
	"github.com/ivesbwas/bwas/internal/service"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/ivesbwas/bwas/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			httpclient.NewDefaultClient,

			// Storage
			postgres.NewDB,
			provideDynamoClient,
			repository.NewAuthorizationRepository,

			// Upstream services
			provideSignatureGateway,
			provideDocumentGateway,

			// Events
			providePubSub,
			publisher.NewDecisionPublisher,
		),
		sentry.Module(),
	)

	// Services
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewAuthorizationService,
			service.NewReconciliationService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			validator.NewValidator,
			registerCloseHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideDynamoClient(cfg *config.Configuration, log *logger.Logger) (*dynamodb.Client, error) {
	return dynamodb.NewClient(context.Background(), cfg, log)
}

func provideSignatureGateway(cfg *config.Configuration, client httpclient.Client, log *logger.Logger) signature.Gateway {
	return essar.NewClient(cfg, client, log)
}

func provideDocumentGateway(cfg *config.Configuration, client httpclient.Client, log *logger.Logger) document.Gateway {
	return fbp.NewClient(cfg, client, log)
}

// providePubSub returns nil when decision events are disabled
func providePubSub(cfg *config.Configuration, log *logger.Logger) (pubsub.PubSub, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}

	switch cfg.Events.PubSub {
	case types.KafkaPubSub:
		return kafka.NewPubSub(cfg, log)
	default:
		return memory.NewPubSub(cfg, log), nil
	}
}

func provideHandlers(
	logger *logger.Logger,
	authorizationService service.AuthorizationService,
	reconciliationService service.ReconciliationService,
) api.Handlers {
	return api.Handlers{
		Health:        v1.NewHealthHandler(logger),
		Authorization: v1.NewAuthorizationHandler(authorizationService, reconciliationService, logger),
	}
}

func registerCloseHooks(lc fx.Lifecycle, db *postgres.DB, ps pubsub.PubSub, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if ps != nil {
				if err := ps.Close(); err != nil {
					log.Errorw("failed to close pubsub", "error", err)
				}
			}
			if db != nil {
				db.Close()
			}
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		migrateOnStart(lc, db, log)
		startAPIServer(lc, r, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

// migrateOnStart applies the SQL schema before serving in local mode
func migrateOnStart(lc fx.Lifecycle, db *postgres.DB, log *logger.Logger) {
	if db == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("applying schema", "driver", db.Driver())
			return postgresRepo.Migrate(ctx, db)
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}
