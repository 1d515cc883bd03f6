package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"go.uber.org/zap"
)

func toCustomer(c *stripe.Customer) *entity.Customer {
	if c == nil {
		return nil
	}
	return &entity.Customer{
		ProviderID:  c.ID,
		Email:       c.Email,
		DisplayName: c.Name,
		SystemID:    c.Metadata[provider.MetadataSystemIDKey],
	}
}

func toCustomers(list []*stripe.Customer) []*entity.Customer {
	customers := make([]*entity.Customer, 0, len(list))
	for _, c := range list {
		customers = append(customers, toCustomer(c))
	}
	return customers
}

// ListCustomersByEmail returns at most limit customers whose email matches exactly.
func (c *Client) ListCustomersByEmail(ctx context.Context, email string, limit int64) ([]*entity.Customer, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	list, err := collect[stripe.Customer](c.api.Customers.List(params), limit)
	if err != nil {
		return nil, wrapStripeError("list customers by email", err)
	}
	return toCustomers(list), nil
}

func (c *Client) ListCustomers(ctx context.Context, limit int64) ([]*entity.Customer, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.CustomerListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	list, err := collect[stripe.Customer](c.api.Customers.List(params), limit)
	if err != nil {
		return nil, wrapStripeError("list customers", err)
	}
	return toCustomers(list), nil
}

// GetCustomer returns nil when the customer was deleted.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*entity.Customer, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.CustomerParams{}
	params.Context = ctx

	cus, err := c.api.Customers.Get(customerID, params)
	if err != nil {
		return nil, wrapStripeError("get customer", err)
	}
	if cus.Deleted {
		return nil, nil
	}
	return toCustomer(cus), nil
}

func (c *Client) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (*entity.Customer, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
		Name:  stripe.String(req.Name),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	cus, err := c.api.Customers.New(params)
	if err != nil {
		return nil, wrapStripeError("create customer", err)
	}

	c.logger.Info("Created customer", zap.String("customer_id", cus.ID))
	return toCustomer(cus), nil
}

func (c *Client) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*entity.Customer, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	cus, err := c.api.Customers.Update(customerID, params)
	if err != nil {
		return nil, wrapStripeError("set default payment method", err)
	}
	return toCustomer(cus), nil
}

func (c *Client) DeleteCustomer(ctx context.Context, customerID string) (*entity.Customer, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.CustomerParams{}
	params.Context = ctx

	cus, err := c.api.Customers.Del(customerID, params)
	if err != nil {
		return nil, wrapStripeError("delete customer", err)
	}

	c.logger.Info("Deleted customer", zap.String("customer_id", customerID))
	return toCustomer(cus), nil
}
