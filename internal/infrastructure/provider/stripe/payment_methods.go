package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
)

func toPaymentMethod(pm *stripe.PaymentMethod) *provider.PaymentMethod {
	method := &provider.PaymentMethod{
		ID:   pm.ID,
		Type: string(pm.Type),
	}
	if pm.Customer != nil {
		method.CustomerID = pm.Customer.ID
	}
	if card := pm.Card; card != nil {
		method.Card = &entity.CardDetails{
			Brand:       string(card.Brand),
			Country:     card.Country,
			Last4:       card.Last4,
			ExpMonth:    card.ExpMonth,
			ExpYear:     card.ExpYear,
			Issuer:      card.Issuer,
			Funding:     string(card.Funding),
			Fingerprint: card.Fingerprint,
			Description: card.Description,
			IIN:         card.IIN,
		}
	}
	return method
}

func (c *Client) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*provider.PaymentMethod, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentMethodAttachParams{Customer: stripe.String(customerID)}
	params.Context = ctx

	pm, err := c.api.PaymentMethods.Attach(paymentMethodID, params)
	if err != nil {
		return nil, wrapStripeError("attach payment method", err)
	}
	return toPaymentMethod(pm), nil
}

func (c *Client) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx

	if _, err := c.api.PaymentMethods.Detach(paymentMethodID, params); err != nil {
		return wrapStripeError("detach payment method", err)
	}
	return nil
}

func (c *Client) ListPaymentMethods(ctx context.Context, customerID, methodType string) ([]*provider.PaymentMethod, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(methodType),
	}
	params.Context = ctx

	list, err := collect[stripe.PaymentMethod](c.api.PaymentMethods.List(params), 0)
	if err != nil {
		return nil, wrapStripeError("list payment methods", err)
	}

	methods := make([]*provider.PaymentMethod, 0, len(list))
	for _, pm := range list {
		methods = append(methods, toPaymentMethod(pm))
	}
	return methods, nil
}
