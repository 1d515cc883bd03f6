package provider

import (
	"context"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
)

// MetadataSystemIDKey is the provider metadata key holding Customer.SystemID.
const MetadataSystemIDKey = "ID"

// ProviderType names the payment provider behind a Client.
type ProviderType string

const (
	ProviderTypeStripe ProviderType = "stripe"
)

// Client is the fixed set of remote operations the gateway issues against the
// payment provider. Every method is exactly one live remote call; nothing is cached
// and nothing is retried. Errors are *errors.GatewayError values classified as
// ProviderRejected or ProviderUnavailable.
type Client interface {
	ProviderName() ProviderType

	ListCustomersByEmail(ctx context.Context, email string, limit int64) ([]*entity.Customer, error)
	ListCustomers(ctx context.Context, limit int64) ([]*entity.Customer, error)
	// GetCustomer returns nil, nil for a deleted customer.
	GetCustomer(ctx context.Context, customerID string) (*entity.Customer, error)
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*entity.Customer, error)
	// SetDefaultPaymentMethod updates the customer's default invoice payment method.
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*entity.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) (*entity.Customer, error)

	ListActiveProducts(ctx context.Context) ([]*Product, error)
	CreateProduct(ctx context.Context, name string) (*Product, error)
	ListActivePrices(ctx context.Context, productID string) ([]*Price, error)
	CreatePrice(ctx context.Context, req *CreatePriceRequest) (*Price, error)

	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	ListPaymentMethods(ctx context.Context, customerID, methodType string) ([]*PaymentMethod, error)

	CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
	ListCharges(ctx context.Context, paymentIntentID string) ([]entity.ChargeSummary, error)
	// CreateSetupIntent returns the setup intent with its customer expanded.
	CreateSetupIntent(ctx context.Context, customerID string) (*entity.FuturePaymentIntent, error)
	// CreateSubscription expands the latest invoice payment intent.
	CreateSubscription(ctx context.Context, customerID, priceID string) (*entity.Subscription, error)
}

type CreateCustomerRequest struct {
	Email    string
	Name     string
	Metadata map[string]string
}

type Product struct {
	ID     string
	Name   string
	Active bool
}

// Price is the provider price record. Currency and Interval are provider codes.
type Price struct {
	ID         string
	ProductID  string
	UnitAmount int64
	Currency   string
	Interval   string
}

type CreatePriceRequest struct {
	ProductID  string
	UnitAmount int64
	Currency   string
	Interval   string
}

// PaymentMethod is the provider payment method record. Type is the raw provider type.
type PaymentMethod struct {
	ID         string
	Type       string
	CustomerID string
	Card       *entity.CardDetails
}

// PaymentIntentRequest creates an off-session, immediately confirmed payment intent.
// Amount is in minor currency units.
type PaymentIntentRequest struct {
	Amount          int64
	Currency        string
	CustomerID      string
	PaymentMethodID string
	ReceiptEmail    string
	Description     string
}

type PaymentIntent struct {
	ID           string
	Status       string
	Amount       int64
	Currency     string
	ClientSecret string
}
