package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
)

func toPrice(p *stripe.Price) *provider.Price {
	price := &provider.Price{
		ID:         p.ID,
		UnitAmount: p.UnitAmount,
		Currency:   string(p.Currency),
	}
	if p.Product != nil {
		price.ProductID = p.Product.ID
	}
	if p.Recurring != nil {
		price.Interval = string(p.Recurring.Interval)
	}
	return price
}

func (c *Client) ListActiveProducts(ctx context.Context) ([]*provider.Product, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.ProductListParams{Active: stripe.Bool(true)}
	params.Context = ctx

	list, err := collect[stripe.Product](c.api.Products.List(params), 0)
	if err != nil {
		return nil, wrapStripeError("list products", err)
	}

	products := make([]*provider.Product, 0, len(list))
	for _, p := range list {
		products = append(products, &provider.Product{ID: p.ID, Name: p.Name, Active: p.Active})
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, name string) (*provider.Product, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.ProductParams{Name: stripe.String(name)}
	params.Context = ctx

	p, err := c.api.Products.New(params)
	if err != nil {
		return nil, wrapStripeError("create product", err)
	}
	return &provider.Product{ID: p.ID, Name: p.Name, Active: p.Active}, nil
}

func (c *Client) ListActivePrices(ctx context.Context, productID string) ([]*provider.Price, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	params.Context = ctx

	list, err := collect[stripe.Price](c.api.Prices.List(params), 0)
	if err != nil {
		return nil, wrapStripeError("list prices", err)
	}

	prices := make([]*provider.Price, 0, len(list))
	for _, p := range list {
		prices = append(prices, toPrice(p))
	}
	return prices, nil
}

func (c *Client) CreatePrice(ctx context.Context, req *provider.CreatePriceRequest) (*provider.Price, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.PriceParams{
		Product:    stripe.String(req.ProductID),
		UnitAmount: stripe.Int64(req.UnitAmount),
		Currency:   stripe.String(req.Currency),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(req.Interval),
		},
	}
	params.Context = ctx

	p, err := c.api.Prices.New(params)
	if err != nil {
		return nil, wrapStripeError("create price", err)
	}
	return toPrice(p), nil
}
