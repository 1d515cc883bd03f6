package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"go.uber.org/zap"
)

func toPaymentIntent(pi *stripe.PaymentIntent) *provider.PaymentIntent {
	return &provider.PaymentIntent{
		ID:           pi.ID,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		ClientSecret: pi.ClientSecret,
	}
}

// CreatePaymentIntent charges a saved payment method off-session, confirming immediately.
func (c *Client) CreatePaymentIntent(ctx context.Context, req *provider.PaymentIntentRequest) (*provider.PaymentIntent, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount),
		Currency:      stripe.String(req.Currency),
		Customer:      stripe.String(req.CustomerID),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapStripeError("create payment intent", err)
	}

	c.logger.Info("Created payment intent",
		zap.String("payment_intent_id", pi.ID),
		zap.String("status", string(pi.Status)))
	return toPaymentIntent(pi), nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*provider.PaymentIntent, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, wrapStripeError("get payment intent", err)
	}
	return toPaymentIntent(pi), nil
}

// ListCharges returns the charges created by a payment intent.
func (c *Client) ListCharges(ctx context.Context, paymentIntentID string) ([]entity.ChargeSummary, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.ChargeListParams{PaymentIntent: stripe.String(paymentIntentID)}
	params.Context = ctx

	list, err := collect[stripe.Charge](c.api.Charges.List(params), 0)
	if err != nil {
		return nil, wrapStripeError("list charges", err)
	}

	summaries := make([]entity.ChargeSummary, 0, len(list))
	for _, ch := range list {
		summaries = append(summaries, entity.ChargeSummary{ID: ch.ID, Status: string(ch.Status)})
	}
	return summaries, nil
}

func (c *Client) CreateSetupIntent(ctx context.Context, customerID string) (*entity.FuturePaymentIntent, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.SetupIntentParams{Customer: stripe.String(customerID)}
	params.AddExpand("customer")
	params.Context = ctx

	si, err := c.api.SetupIntents.New(params)
	if err != nil {
		return nil, wrapStripeError("create setup intent", err)
	}
	return &entity.FuturePaymentIntent{
		ID:           si.ID,
		IntentSecret: si.ClientSecret,
		Customer:     toCustomer(si.Customer),
	}, nil
}
