package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/event"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"go.uber.org/zap"
)

// DefaultCatalog is the plan catalog seeded by the populate endpoints.
func DefaultCatalog() []entity.Plan {
	return []entity.Plan{
		{
			Name: "basic",
			Prices: []entity.PlanPrice{
				{Currency: entity.CurrencyUSD, Interval: entity.IntervalMonthly, UnitAmount: 1000},
				{Currency: entity.CurrencyUSD, Interval: entity.IntervalYearly, UnitAmount: 8000},
			},
		},
		{
			Name: "premium",
			Prices: []entity.PlanPrice{
				{Currency: entity.CurrencyEUR, Interval: entity.IntervalMonthly, UnitAmount: 1200},
				{Currency: entity.CurrencyEUR, Interval: entity.IntervalYearly, UnitAmount: 8700},
			},
		},
	}
}

// CatalogReconciler makes the provider catalog contain a desired set of plans.
//
// Products are matched by name, case-insensitively. Prices are matched within a
// product by unit amount alone, so two desired prices that differ only in currency
// or interval collapse into one. Reconciliation is read-then-create and is not
// safe against concurrent runs for the same product.
type CatalogReconciler struct {
	client    provider.Client
	publisher event.Publisher
	catalog   []entity.Plan
	logger    *zap.Logger
}

func NewCatalogReconciler(client provider.Client, publisher event.Publisher, logger *zap.Logger) *CatalogReconciler {
	return &CatalogReconciler{
		client:    client,
		publisher: publisher,
		logger:    logger,
	}
}

// DefaultPlans is the catalog seeded by POST /api/customers/populate: the
// configured catalog file when one was loaded, DefaultCatalog otherwise.
func (r *CatalogReconciler) DefaultPlans() []entity.Plan {
	if len(r.catalog) > 0 {
		return r.catalog
	}
	return DefaultCatalog()
}

type reconcileStats struct {
	productsCreated int
	pricesCreated   int
	pricesSkipped   int
}

// PopulatePlans creates whatever products and prices of desired are missing and
// returns every plan with its provider ids. Running it twice with the same input
// creates nothing the second time.
func (r *CatalogReconciler) PopulatePlans(ctx context.Context, desired []entity.Plan) ([]entity.Plan, error) {
	var stats reconcileStats
	result := make([]entity.Plan, 0, len(desired))

	for _, plan := range desired {
		reconciled, err := r.reconcilePlan(ctx, plan, &stats)
		if err != nil {
			return nil, err
		}
		result = append(result, reconciled)
	}

	r.logger.Info("CatalogReconciler: catalog reconciled",
		zap.Int("plans", len(result)),
		zap.Int("products_created", stats.productsCreated),
		zap.Int("prices_created", stats.pricesCreated),
		zap.Int("prices_skipped", stats.pricesSkipped))
	publish(ctx, r.publisher, r.logger, event.TypeCatalogReconciled, map[string]interface{}{
		"plans":            len(result),
		"products_created": stats.productsCreated,
		"prices_created":   stats.pricesCreated,
	})
	return result, nil
}

func (r *CatalogReconciler) reconcilePlan(ctx context.Context, plan entity.Plan, stats *reconcileStats) (entity.Plan, error) {
	products, err := r.client.ListActiveProducts(ctx)
	if err != nil {
		return entity.Plan{}, fmt.Errorf("failed to list products for plan %q: %w", plan.Name, err)
	}

	var product *provider.Product
	for _, p := range products {
		if strings.EqualFold(p.Name, plan.Name) {
			product = p
			break
		}
	}

	var existing []*provider.Price
	if product != nil {
		r.logger.Info("CatalogReconciler: product exists, skipping creation",
			zap.String("plan", plan.Name),
			zap.String("product_id", product.ID))
		existing, err = r.client.ListActivePrices(ctx, product.ID)
		if err != nil {
			return entity.Plan{}, fmt.Errorf("failed to list prices for plan %q: %w", plan.Name, err)
		}
	} else {
		product, err = r.client.CreateProduct(ctx, plan.Name)
		if err != nil {
			return entity.Plan{}, fmt.Errorf("failed to create product for plan %q: %w", plan.Name, err)
		}
		stats.productsCreated++
		r.logger.Info("CatalogReconciler: product created",
			zap.String("plan", plan.Name),
			zap.String("product_id", product.ID))
	}

	reconciled := entity.Plan{
		ProviderID: product.ID,
		Name:       plan.Name,
		Prices:     make([]entity.PlanPrice, 0, len(plan.Prices)),
	}

	for _, want := range plan.Prices {
		if match := findPriceByAmount(existing, want.UnitAmount); match != nil {
			stats.pricesSkipped++
			r.logger.Info("CatalogReconciler: price exists, skipping creation",
				zap.String("plan", plan.Name),
				zap.String("price_id", match.ID),
				zap.Int64("unit_amount", want.UnitAmount),
				zap.String("currency", string(want.Currency)),
				zap.String("existing_currency", match.Currency))
			reconciled.Prices = append(reconciled.Prices, priceToPlanPrice(match))
			continue
		}

		created, err := r.client.CreatePrice(ctx, &provider.CreatePriceRequest{
			ProductID:  product.ID,
			UnitAmount: want.UnitAmount,
			Currency:   want.Currency.ProviderCode(),
			Interval:   want.Interval.ProviderCode(),
		})
		if err != nil {
			return entity.Plan{}, fmt.Errorf("failed to create %s %s price for plan %q: %w",
				want.Interval, want.Currency, plan.Name, err)
		}
		stats.pricesCreated++
		r.logger.Info("CatalogReconciler: price created",
			zap.String("plan", plan.Name),
			zap.String("price_id", created.ID),
			zap.Int64("unit_amount", created.UnitAmount))

		existing = append(existing, created)
		reconciled.Prices = append(reconciled.Prices, priceToPlanPrice(created))
	}

	return reconciled, nil
}

func findPriceByAmount(prices []*provider.Price, unitAmount int64) *provider.Price {
	for _, p := range prices {
		if p.UnitAmount == unitAmount {
			return p
		}
	}
	return nil
}

func priceToPlanPrice(p *provider.Price) entity.PlanPrice {
	return entity.PlanPrice{
		ProviderID: p.ID,
		Currency:   entity.CurrencyFromProvider(p.Currency),
		Interval:   entity.IntervalFromProvider(p.Interval),
		UnitAmount: p.UnitAmount,
	}
}
