package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"go.uber.org/zap"
)

func (c *Client) CreateSubscription(ctx context.Context, customerID, priceID string) (*entity.Subscription, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	params.AddExpand("latest_invoice.payment_intent")
	params.Context = ctx

	sub, err := c.api.Subscriptions.New(params)
	if err != nil {
		return nil, wrapStripeError("create subscription", err)
	}

	result := &entity.Subscription{
		ProviderID: sub.ID,
		CustomerID: customerID,
		PriceID:    priceID,
		Status:     string(sub.Status),
	}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		result.PaymentIntentID = sub.LatestInvoice.PaymentIntent.ID
		result.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}

	c.logger.Info("Created subscription",
		zap.String("subscription_id", sub.ID),
		zap.String("customer_id", customerID),
		zap.String("price_id", priceID),
		zap.String("status", result.Status))
	return result, nil
}
