package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/payments-gateway/internal/config"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/event"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/repository"
	"github.com/wekeepgrowing/payments-gateway/internal/infrastructure/database"
	grpcServer "github.com/wekeepgrowing/payments-gateway/internal/infrastructure/grpc"
	httpServer "github.com/wekeepgrowing/payments-gateway/internal/infrastructure/http"
	eventMessaging "github.com/wekeepgrowing/payments-gateway/internal/infrastructure/messaging"
	"github.com/wekeepgrowing/payments-gateway/internal/infrastructure/provider"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"github.com/wekeepgrowing/payments-gateway/pkg/logger"
	"github.com/wekeepgrowing/payments-gateway/pkg/messaging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger = zapLogger.With(zap.String("service", cfg.Service.Name))

	if missing := cfg.Stripe.MissingKeys(); len(missing) > 0 {
		zapLogger.Error("Stripe credentials are not configured, provider calls will fail",
			zap.Strings("missing", missing))
	}

	client, err := provider.NewFactory(cfg, zapLogger).GetClientFromString(cfg.Service.Provider)
	if err != nil {
		zapLogger.Fatal("Failed to create provider client", zap.Error(err))
	}

	var mappings repository.CustomerMappingRepository
	if cfg.Database.Enabled() {
		db, err := database.NewConnection(&cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := database.Close(db, zapLogger); err != nil {
				zapLogger.Error("Failed to close database connection", zap.Error(err))
			}
		}()

		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		mappings = database.NewRepositories(db, zapLogger).CustomerMapping
	} else {
		zapLogger.Info("Customer mapping store disabled")
	}

	var publisher event.Publisher = eventMessaging.NewNopPublisher(zapLogger)
	if cfg.Redis.Addr != "" {
		redisClient, err := messaging.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		publisher = eventMessaging.NewRedisPublisher(redisClient, cfg.Redis.Channel, zapLogger)
	}

	var catalog []entity.Plan
	if cfg.Service.CatalogPath != "" {
		catalog, err = usecase.LoadCatalogFile(cfg.Service.CatalogPath)
		if err != nil {
			zapLogger.Fatal("Failed to load plan catalog", zap.String("path", cfg.Service.CatalogPath), zap.Error(err))
		}
	}

	gateway := usecase.NewGateway(client, mappings, publisher, usecase.GatewayOptions{
		CompensateOnFailure: cfg.Subscription.CompensateOnFailure,
		Catalog:             catalog,
	}, zapLogger)

	grpcSrv := grpcServer.NewServer(cfg, zapLogger)
	httpSrv := httpServer.NewServer(cfg, zapLogger, gateway)

	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
