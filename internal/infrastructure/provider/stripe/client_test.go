package stripe_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/wekeepgrowing/payments-gateway/internal/domain/errors"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"github.com/wekeepgrowing/payments-gateway/internal/infrastructure/provider/stripe"
	"github.com/wekeepgrowing/payments-gateway/internal/infrastructure/provider/stripe/stripetest"
)

func newTestClient(t *testing.T) (*stripe.Client, *stripetest.Server) {
	t.Helper()
	srv := stripetest.NewServer(t)
	client := stripe.NewClient(stripe.Config{
		SecretKey: "sk_test_gateway",
		PublicKey: "pk_test_gateway",
		BaseURL:   srv.URL,
		Timeout:   5 * time.Second,
		Logger:    zap.NewNop(),
	})
	return client, srv
}

func TestClient_Customers(t *testing.T) {
	ctx := context.Background()

	t.Run("create stores system id in metadata", func(t *testing.T) {
		client, srv := newTestClient(t)

		customer, err := client.CreateCustomer(ctx, &provider.CreateCustomerRequest{
			Email:    "ana@example.com",
			Name:     "Ana",
			Metadata: map[string]string{provider.MetadataSystemIDKey: "sys-1"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, customer.ProviderID)
		assert.Equal(t, "ana@example.com", customer.Email)
		assert.Equal(t, "Ana", customer.DisplayName)
		assert.Equal(t, "sys-1", customer.SystemID)
		assert.Equal(t, "sys-1", srv.LastForm("POST /v1/customers").Get("metadata[ID]"))
	})

	t.Run("list by email filters and limits", func(t *testing.T) {
		client, srv := newTestClient(t)
		srv.AddCustomer("a@example.com", "A1", "1")
		srv.AddCustomer("b@example.com", "B", "2")
		srv.AddCustomer("a@example.com", "A2", "3")
		srv.AddCustomer("a@example.com", "A3", "4")

		customers, err := client.ListCustomersByEmail(ctx, "a@example.com", 2)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "A3", customers[0].DisplayName)
		assert.Equal(t, "2", srv.LastForm("GET /v1/customers").Get("limit"))
		assert.Equal(t, 1, srv.Calls("GET /v1/customers"))
	})

	t.Run("list returns newest first", func(t *testing.T) {
		client, srv := newTestClient(t)
		srv.AddCustomer("a@example.com", "first", "1")
		srv.AddCustomer("b@example.com", "second", "2")

		customers, err := client.ListCustomers(ctx, 10)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "second", customers[0].DisplayName)
	})

	t.Run("set default payment method", func(t *testing.T) {
		client, srv := newTestClient(t)
		id := srv.AddCustomer("a@example.com", "A", "1")

		_, err := client.SetDefaultPaymentMethod(ctx, id, "pm_card")
		require.NoError(t, err)
		assert.Equal(t, "pm_card", srv.DefaultPaymentMethod(id))
	})

	t.Run("delete unknown customer is rejected", func(t *testing.T) {
		client, _ := newTestClient(t)

		_, err := client.DeleteCustomer(ctx, "cus_missing")
		require.Error(t, err)
		gwErr, ok := domainErrors.AsGatewayError(err)
		require.True(t, ok)
		assert.Equal(t, domainErrors.KindProviderRejected, gwErr.Kind)
		assert.Equal(t, "resource_missing", gwErr.Code)
		assert.Equal(t, http.StatusNotFound, gwErr.HTTPStatus)
	})
}

func TestClient_Catalog(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)

	product, err := client.CreateProduct(ctx, "basic")
	require.NoError(t, err)
	assert.True(t, product.Active)
	srv.AddProduct("retired", false)

	price, err := client.CreatePrice(ctx, &provider.CreatePriceRequest{
		ProductID:  product.ID,
		UnitAmount: 1000,
		Currency:   "usd",
		Interval:   "month",
	})
	require.NoError(t, err)
	assert.Equal(t, product.ID, price.ProductID)
	assert.Equal(t, "month", price.Interval)

	products, err := client.ListActiveProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "basic", products[0].Name)

	prices, err := client.ListActivePrices(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, int64(1000), prices[0].UnitAmount)
	assert.Equal(t, "usd", prices[0].Currency)
}

func TestClient_PaymentMethods(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)
	customerID := srv.AddCustomer("a@example.com", "A", "1")
	srv.AddPaymentMethod("pm_card", "card")
	srv.AddPaymentMethod("pm_sepa", "sepa_debit")

	pm, err := client.AttachPaymentMethod(ctx, "pm_card", customerID)
	require.NoError(t, err)
	assert.Equal(t, customerID, pm.CustomerID)
	require.NotNil(t, pm.Card)
	assert.Equal(t, "visa", pm.Card.Brand)
	assert.Equal(t, "4242", pm.Card.Last4)

	_, err = client.AttachPaymentMethod(ctx, "pm_sepa", customerID)
	require.NoError(t, err)

	cards, err := client.ListPaymentMethods(ctx, customerID, "card")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "pm_card", cards[0].ID)

	require.NoError(t, client.DetachPaymentMethod(ctx, "pm_card"))
	assert.Empty(t, srv.AttachedTo("pm_card"))

	_, err = client.AttachPaymentMethod(ctx, "pm_missing", customerID)
	assert.True(t, domainErrors.IsKind(err, domainErrors.KindProviderRejected))
}

func TestClient_PaymentIntents(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms off session", func(t *testing.T) {
		client, srv := newTestClient(t)

		pi, err := client.CreatePaymentIntent(ctx, &provider.PaymentIntentRequest{
			Amount:          1050,
			Currency:        "usd",
			CustomerID:      "cus_1",
			PaymentMethodID: "pm_card",
			ReceiptEmail:    "a@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "succeeded", pi.Status)

		form := srv.LastForm("POST /v1/payment_intents")
		assert.Equal(t, "1050", form.Get("amount"))
		assert.Equal(t, "true", form.Get("confirm"))
		assert.Equal(t, "true", form.Get("off_session"))
		assert.Equal(t, "a@example.com", form.Get("receipt_email"))

		fetched, err := client.GetPaymentIntent(ctx, pi.ID)
		require.NoError(t, err)
		assert.Equal(t, pi.ID, fetched.ID)

		charges, err := client.ListCharges(ctx, pi.ID)
		require.NoError(t, err)
		require.Len(t, charges, 1)
		assert.Equal(t, "succeeded", charges[0].Status)
	})

	t.Run("card error carries payment intent", func(t *testing.T) {
		client, srv := newTestClient(t)
		srv.Fail("POST /v1/payment_intents", stripetest.APIError{
			Status:          http.StatusPaymentRequired,
			Type:            "card_error",
			Code:            "authentication_required",
			Message:         "This payment requires authentication.",
			PaymentIntentID: "pi_declined",
		})

		_, err := client.CreatePaymentIntent(ctx, &provider.PaymentIntentRequest{
			Amount: 1000, Currency: "usd", CustomerID: "cus_1", PaymentMethodID: "pm_card",
		})
		gwErr, ok := domainErrors.AsGatewayError(err)
		require.True(t, ok)
		assert.Equal(t, domainErrors.KindProviderRejected, gwErr.Kind)
		assert.True(t, gwErr.IsCardError())
		assert.Equal(t, "authentication_required", gwErr.Code)
		assert.Equal(t, "pi_declined", gwErr.PaymentIntentID)
	})
}

func TestClient_SetupIntentAndSubscription(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)
	customerID := srv.AddCustomer("a@example.com", "A", "sys-9")
	productID := srv.AddProduct("basic", true)
	priceID := srv.AddPrice(productID, 1000, "usd", "month")

	setup, err := client.CreateSetupIntent(ctx, customerID)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.IntentSecret)
	require.NotNil(t, setup.Customer)
	assert.Equal(t, "sys-9", setup.Customer.SystemID)

	sub, err := client.CreateSubscription(ctx, customerID, priceID)
	require.NoError(t, err)
	assert.Equal(t, "incomplete", sub.Status)
	assert.NotEmpty(t, sub.PaymentIntentID)
	assert.Equal(t, priceID, srv.LastForm("POST /v1/subscriptions").Get("items[0][price]"))
}

func TestClient_ErrorClassification(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		apiErr   stripetest.APIError
		wantKind domainErrors.Kind
	}{
		{
			name:     "invalid request is rejected",
			apiErr:   stripetest.APIError{Status: http.StatusBadRequest, Type: "invalid_request_error", Code: "parameter_invalid_empty"},
			wantKind: domainErrors.KindProviderRejected,
		},
		{
			name:     "provider outage is unavailable",
			apiErr:   stripetest.APIError{Status: http.StatusInternalServerError, Type: "api_error"},
			wantKind: domainErrors.KindProviderUnavailable,
		},
		{
			name:     "rate limit is unavailable",
			apiErr:   stripetest.APIError{Status: http.StatusTooManyRequests, Type: "invalid_request_error", Code: "rate_limit"},
			wantKind: domainErrors.KindProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(t)
			srv.Fail("GET /v1/customers", tt.apiErr)

			_, err := client.ListCustomers(ctx, 10)
			assert.Equal(t, tt.wantKind, domainErrors.KindOf(err))
			assert.Equal(t, 1, srv.Calls("GET /v1/customers"), "provider calls are never retried")
		})
	}

	t.Run("transport failure is unavailable", func(t *testing.T) {
		srv := stripetest.NewServer(t)
		url := srv.URL
		srv.Close()

		client := stripe.NewClient(stripe.Config{SecretKey: "sk_test", BaseURL: url, Logger: zap.NewNop()})
		_, err := client.ListCustomers(ctx, 10)
		assert.Equal(t, domainErrors.KindProviderUnavailable, domainErrors.KindOf(err))
	})

	t.Run("deadline is unavailable", func(t *testing.T) {
		client, _ := newTestClient(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := client.ListCustomers(cancelled, 10)
		assert.Equal(t, domainErrors.KindProviderUnavailable, domainErrors.KindOf(err))
	})
}
