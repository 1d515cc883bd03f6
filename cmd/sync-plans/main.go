package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/payments-gateway/internal/config"
	"github.com/wekeepgrowing/payments-gateway/internal/infrastructure/provider"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"github.com/wekeepgrowing/payments-gateway/pkg/logger"
)

func main() {
	catalogPath := flag.String("catalog", "", "plan catalog YAML; defaults to service.catalog_path, then the built-in catalog")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Stripe.SecretKey == "" {
		zapLogger.Fatal("Stripe secret key is not configured")
	}

	path := *catalogPath
	if path == "" {
		path = cfg.Service.CatalogPath
	}

	plans := usecase.DefaultCatalog()
	if path != "" {
		plans, err = usecase.LoadCatalogFile(path)
		if err != nil {
			zapLogger.Fatal("Failed to load plan catalog", zap.String("path", path), zap.Error(err))
		}
	}

	client, err := provider.NewFactory(cfg, zapLogger).GetClientFromString(cfg.Service.Provider)
	if err != nil {
		zapLogger.Fatal("Failed to create provider client", zap.Error(err))
	}
	reconciler := usecase.NewCatalogReconciler(client, nil, zapLogger)

	pricesSynced, err := syncStripePlans(context.Background(), reconciler, plans, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to sync Stripe plans", zap.Error(err))
	}

	zapLogger.Info("Catalog sync completed",
		zap.Int("plans_synced", len(plans)),
		zap.Int("prices_synced", pricesSynced))
}
