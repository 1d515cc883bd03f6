package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	handlers "github.com/wekeepgrowing/payments-gateway/internal/adapter/handler/http"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/payments-gateway/internal/domain/errors"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"github.com/wekeepgrowing/payments-gateway/pkg/logger"
)

// MockGateway is a mock implementation of usecase.PaymentsGateway
type MockGateway struct {
	mock.Mock
}

var _ usecase.PaymentsGateway = (*MockGateway)(nil)

func (m *MockGateway) GetCustomerByEmail(ctx context.Context, email string, includes entity.IncludeSet) (*entity.Customer, error) {
	args := m.Called(ctx, email, includes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockGateway) GetCustomerBySystemID(ctx context.Context, systemID string) (*entity.Customer, error) {
	args := m.Called(ctx, systemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockGateway) CreateCustomer(ctx context.Context, email, name, systemID string) (*entity.Customer, error) {
	args := m.Called(ctx, email, name, systemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockGateway) ListCustomers(ctx context.Context, take int) ([]*entity.Customer, error) {
	args := m.Called(ctx, take)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Customer), args.Error(1)
}

func (m *MockGateway) DeleteCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockGateway) PopulatePlans(ctx context.Context, desired []entity.Plan) ([]entity.Plan, error) {
	args := m.Called(ctx, desired)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Plan), args.Error(1)
}

func (m *MockGateway) DefaultPlans() []entity.Plan {
	args := m.Called()
	return args.Get(0).([]entity.Plan)
}

func (m *MockGateway) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string, makeDefault bool) (*entity.PaymentMethod, error) {
	args := m.Called(ctx, paymentMethodID, customerID, makeDefault)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentMethod), args.Error(1)
}

func (m *MockGateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	return m.Called(ctx, paymentMethodID).Error(0)
}

func (m *MockGateway) GetPaymentMethods(ctx context.Context, customerID string, methodType entity.PaymentMethodType) ([]entity.PaymentMethod, error) {
	args := m.Called(ctx, customerID, methodType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PaymentMethod), args.Error(1)
}

func (m *MockGateway) GetPaymentMethodsByCustomerEmail(ctx context.Context, email string) ([]entity.PaymentMethod, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PaymentMethod), args.Error(1)
}

func (m *MockGateway) ChargeWithCustomerEmail(ctx context.Context, email string, charge entity.Charge) (*entity.ChargeResult, error) {
	args := m.Called(ctx, email, charge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChargeResult), args.Error(1)
}

func (m *MockGateway) Charge(ctx context.Context, customerID, email string, charge entity.Charge) (*entity.ChargeResult, error) {
	args := m.Called(ctx, customerID, email, charge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChargeResult), args.Error(1)
}

func (m *MockGateway) GetPaymentStatus(ctx context.Context, paymentID string) ([]entity.ChargeSummary, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChargeSummary), args.Error(1)
}

func (m *MockGateway) PrepareForFuturePayment(ctx context.Context, customerID string) (*entity.FuturePaymentIntent, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FuturePaymentIntent), args.Error(1)
}

func (m *MockGateway) PrepareForFuturePaymentByEmail(ctx context.Context, email string) (*entity.FuturePaymentIntent, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FuturePaymentIntent), args.Error(1)
}

func (m *MockGateway) CreateSubscription(ctx context.Context, email, priceID string) (bool, error) {
	args := m.Called(ctx, email, priceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGateway) CreateSubscriptionWorkflow(ctx context.Context, req usecase.WorkflowRequest) (*usecase.WorkflowResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.WorkflowResult), args.Error(1)
}

func newTestServer(gateway usecase.PaymentsGateway) *echo.Echo {
	e := echo.New()
	e.Validator = handlers.NewRequestValidator()
	logger.WithEchoLogger(e, zap.NewNop())
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	handlers.RegisterRoutes(e, gateway, passthrough, zap.NewNop())
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCustomerHandler(t *testing.T) {
	t.Run("get by email with payment methods", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("GetCustomerByEmail", mock.Anything, "ana@example.com", entity.Includes(entity.IncludePaymentMethods)).
			Return(&entity.Customer{ProviderID: "cus_1", Email: "ana@example.com"}, nil)

		rec := doRequest(e, http.MethodGet, "/api/customers/by-email?email=ana@example.com&include=paymentMethods", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cus_1", decodeBody(t, rec)["providerId"])
		gateway.AssertExpectations(t)
	})

	t.Run("missing customer is 404", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("GetCustomerByEmail", mock.Anything, "ghost@example.com", mock.Anything).Return(nil, nil)

		rec := doRequest(e, http.MethodGet, "/api/customers/by-email?email=ghost@example.com", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", decodeBody(t, rec)["code"])
	})

	t.Run("ambiguous email is 409", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("GetCustomerByEmail", mock.Anything, "dup@example.com", mock.Anything).
			Return(nil, domainErrors.Ambiguous("get customer by email", domainErrors.ErrAmbiguousCustomer))

		rec := doRequest(e, http.MethodGet, "/api/customers/by-email?email=dup@example.com", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("create validates body", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)

		rec := doRequest(e, http.MethodPost, "/api/customers", `{"email":"not-an-email","name":"Ana"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("create returns 201", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("CreateCustomer", mock.Anything, "ana@example.com", "Ana", "sys-1").
			Return(&entity.Customer{ProviderID: "cus_1", SystemID: "sys-1"}, nil)

		rec := doRequest(e, http.MethodPost, "/api/customers", `{"email":"ana@example.com","name":"Ana","systemId":"sys-1"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "sys-1", decodeBody(t, rec)["systemId"])
	})

	t.Run("list passes take", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("ListCustomers", mock.Anything, 25).Return([]*entity.Customer{}, nil)

		rec := doRequest(e, http.MethodGet, "/api/customers?take=25", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		gateway.AssertExpectations(t)
	})

	t.Run("provider outage is 503", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("ListCustomers", mock.Anything, 0).
			Return(nil, domainErrors.Unavailable("list customers", context.DeadlineExceeded))

		rec := doRequest(e, http.MethodGet, "/api/customers", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "UNAVAILABLE", decodeBody(t, rec)["code"])
	})
}

func TestChargeHandler(t *testing.T) {
	t.Run("converts major units once", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("ChargeWithCustomerEmail", mock.Anything, "ana@example.com", entity.Charge{
			PaymentMethodID:  "pm_1",
			Currency:         entity.CurrencyUSD,
			UnitAmount:       1050,
			SendReceiptEmail: true,
		}).Return(&entity.ChargeResult{PaymentIntentID: "pi_1", Status: "succeeded"}, nil)

		rec := doRequest(e, http.MethodPost, "/api/charge",
			`{"customerEmail":"ana@example.com","paymentMethodId":"pm_1","amount":10.50,"currency":"USD","sendReceiptEmail":true}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pi_1", decodeBody(t, rec)["paymentIntentId"])
		gateway.AssertExpectations(t)
	})

	t.Run("rejects sub-cent amounts", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)

		rec := doRequest(e, http.MethodPost, "/api/charge",
			`{"customerEmail":"ana@example.com","paymentMethodId":"pm_1","amount":"10.505","currency":"USD"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gateway.AssertNotCalled(t, "ChargeWithCustomerEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects amounts beyond int64", func(t *testing.T) {
		for _, amount := range []string{"92233720368547758.08", "184467440737095516.17", "100000000000000000000", "1000000.00"} {
			gateway := new(MockGateway)
			e := newTestServer(gateway)

			rec := doRequest(e, http.MethodPost, "/api/charge",
				`{"customerEmail":"ana@example.com","paymentMethodId":"pm_1","amount":"`+amount+`","currency":"USD"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code, amount)
			gateway.AssertNotCalled(t, "ChargeWithCustomerEmail", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("card error is 402 with intent", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("ChargeWithCustomerEmail", mock.Anything, "ana@example.com", mock.Anything).
			Return(&entity.ChargeResult{PaymentIntentID: "pi_auth", Status: "requires_action"}, &domainErrors.GatewayError{
				Kind:            domainErrors.KindProviderRejected,
				Type:            domainErrors.ProviderErrorTypeCard,
				Code:            "authentication_required",
				PaymentIntentID: "pi_auth",
				Message:         "This payment requires authentication.",
			})

		rec := doRequest(e, http.MethodPost, "/api/charge",
			`{"customerEmail":"ana@example.com","paymentMethodId":"pm_1","amount":10,"currency":"USD"}`)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "authentication_required", body["providerCode"])
		assert.Equal(t, "pi_auth", body["paymentIntentId"])
		assert.Equal(t, "requires_action", body["status"])
	})

	t.Run("status", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("GetPaymentStatus", mock.Anything, "pi_1").
			Return([]entity.ChargeSummary{{ID: "ch_1", Status: "succeeded"}}, nil)

		rec := doRequest(e, http.MethodGet, "/api/charge/pi_1/status", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"id":"ch_1","status":"succeeded"}]`, rec.Body.String())
	})
}

func TestPaymentMethodHandler(t *testing.T) {
	t.Run("payments by email returns customer with methods", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("GetCustomerByEmail", mock.Anything, "ana@example.com", entity.Includes(entity.IncludePaymentMethods)).
			Return(&entity.Customer{
				ProviderID: "cus_1",
				Email:      "ana@example.com",
				PaymentMethods: []entity.PaymentMethod{
					{ProviderID: "pm_1", Type: entity.PaymentMethodTypeCard},
				},
			}, nil)

		rec := doRequest(e, http.MethodGet, "/api/payments/ana@example.com", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "cus_1", body["providerId"])
		methods, ok := body["paymentMethods"].([]interface{})
		require.True(t, ok)
		assert.Len(t, methods, 1)
		gateway.AssertNotCalled(t, "GetPaymentMethodsByCustomerEmail", mock.Anything, mock.Anything)
	})

	t.Run("payments by email for unknown customer is 404", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("GetCustomerByEmail", mock.Anything, "ghost@example.com", mock.Anything).Return(nil, nil)

		rec := doRequest(e, http.MethodGet, "/api/payments/ghost@example.com", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("attach defaults to make default", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("AttachPaymentMethod", mock.Anything, "pm_1", "cus_1", true).
			Return(&entity.PaymentMethod{ProviderID: "pm_1", Type: entity.PaymentMethodTypeCard}, nil)

		rec := doRequest(e, http.MethodPost, "/api/payment-methods/attach", `{"paymentMethodId":"pm_1","customerId":"cus_1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		gateway.AssertExpectations(t)
	})

	t.Run("detach", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("DetachPaymentMethod", mock.Anything, "pm_1").Return(nil)

		rec := doRequest(e, http.MethodDelete, "/api/payment-methods/pm_1", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestSubscriptionHandler(t *testing.T) {
	t.Run("simple subscription reports created flag", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("CreateSubscription", mock.Anything, "ghost@example.com", "price_1").Return(false, nil)

		rec := doRequest(e, http.MethodPost, "/api/subscription/simple", `{"customerEmail":"ghost@example.com","priceId":"price_1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"created":false}`, rec.Body.String())
	})

	t.Run("failed workflow exposes partial state", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		req := usecase.WorkflowRequest{CustomerEmail: "ana@example.com", PaymentMethodID: "pm_1", PriceID: "price_1"}
		gateway.On("CreateSubscriptionWorkflow", mock.Anything, req).Return(&usecase.WorkflowResult{
			ID:         "wf-1",
			Completed:  []usecase.WorkflowStep{usecase.StepResolveCustomer, usecase.StepAttachPaymentMethod},
			FailedStep: usecase.StepSetDefaultPaymentMethod,
		}, &domainErrors.GatewayError{Kind: domainErrors.KindProviderRejected, Message: "No such customer"})

		rec := doRequest(e, http.MethodPost, "/api/subscription/create-subscription",
			`{"customerEmail":"ana@example.com","paymentMethodId":"pm_1","priceId":"price_1"}`)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		workflow, ok := decodeBody(t, rec)["workflow"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "set_default_payment_method", workflow["failedStep"])
	})

	t.Run("workflow accepts customer id", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		req := usecase.WorkflowRequest{CustomerID: "cus_1", PaymentMethodID: "pm_1", PriceID: "price_1"}
		gateway.On("CreateSubscriptionWorkflow", mock.Anything, req).Return(&usecase.WorkflowResult{
			ID:           "wf-2",
			Completed:    []usecase.WorkflowStep{usecase.StepResolveCustomer},
			Subscription: &entity.Subscription{ProviderID: "sub_1", CustomerID: "cus_1", Status: "active"},
		}, nil)

		rec := doRequest(e, http.MethodPost, "/api/subscription/create-subscription",
			`{"customerId":"cus_1","paymentMethodId":"pm_1","priceId":"price_1"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		gateway.AssertExpectations(t)
	})

	t.Run("workflow needs a customer reference", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)

		rec := doRequest(e, http.MethodPost, "/api/subscription/create-subscription",
			`{"paymentMethodId":"pm_1","priceId":"price_1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gateway.AssertNotCalled(t, "CreateSubscriptionWorkflow", mock.Anything, mock.Anything)
	})

	t.Run("prepare returns setup secret", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("PrepareForFuturePaymentByEmail", mock.Anything, "ana@example.com").
			Return(&entity.FuturePaymentIntent{ID: "seti_1", IntentSecret: "seti_1_secret"}, nil)

		rec := doRequest(e, http.MethodPost, "/api/subscription", `{"email":"ana@example.com"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "seti_1_secret", decodeBody(t, rec)["intentSecret"])
	})
}

func TestCatalogHandler(t *testing.T) {
	t.Run("populate default catalog", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)
		gateway.On("DefaultPlans").Return(usecase.DefaultCatalog())
		gateway.On("PopulatePlans", mock.Anything, usecase.DefaultCatalog()).Return(usecase.DefaultCatalog(), nil)

		rec := doRequest(e, http.MethodPost, "/api/customers/populate", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		gateway.AssertExpectations(t)
	})

	t.Run("invalid plan is rejected", func(t *testing.T) {
		gateway := new(MockGateway)
		e := newTestServer(gateway)

		rec := doRequest(e, http.MethodPost, "/api/plans/populate",
			`{"plans":[{"name":"basic","prices":[{"currency":"GBP","interval":"Monthly","unitAmount":1000}]}]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gateway.AssertNotCalled(t, "PopulatePlans", mock.Anything, mock.Anything)
	})
}
