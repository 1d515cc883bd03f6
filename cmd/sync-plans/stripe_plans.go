package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
)

// syncStripePlans reconciles plans against Stripe and logs the resulting ids.
// It returns the number of prices in the reconciled catalog.
func syncStripePlans(ctx context.Context, reconciler *usecase.CatalogReconciler, plans []entity.Plan, logger *zap.Logger) (int, error) {
	logger.Info("Reconciling plan catalog with Stripe...", zap.Int("plans", len(plans)))

	reconciled, err := reconciler.PopulatePlans(ctx, plans)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile catalog: %w", err)
	}

	priceCount := 0
	for _, plan := range reconciled {
		for _, price := range plan.Prices {
			priceCount++
			logger.Info("Price synced",
				zap.String("product_id", plan.ProviderID),
				zap.String("product_name", plan.Name),
				zap.String("price_id", price.ProviderID),
				zap.String("currency", string(price.Currency)),
				zap.String("interval", string(price.Interval)),
				zap.Int64("unit_amount", price.UnitAmount))
		}
	}

	return priceCount, nil
}
