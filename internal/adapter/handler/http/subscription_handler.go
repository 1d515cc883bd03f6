package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	gateway usecase.PaymentsGateway
	logger  *zap.Logger
}

func NewSubscriptionHandler(gateway usecase.PaymentsGateway, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		gateway: gateway,
		logger:  logger,
	}
}

type PrepareSubscriptionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SimpleSubscriptionRequest struct {
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	PriceID       string `json:"priceId" validate:"required"`
}

// PrepareSubscription creates a setup intent for the customer so a payment method
// can be saved before subscribing.
func (h *SubscriptionHandler) PrepareSubscription(c echo.Context) error {
	var req PrepareSubscriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	intent, err := h.gateway.PrepareForFuturePaymentByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, intent)
}

func (h *SubscriptionHandler) CreateSimpleSubscription(c echo.Context) error {
	var req SimpleSubscriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.gateway.CreateSubscription(c.Request().Context(), req.CustomerEmail, req.PriceID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"created": created})
}

// CreateSubscription runs the attach, set default and subscribe workflow. A failed
// workflow responds with the error and the partial workflow state.
func (h *SubscriptionHandler) CreateSubscription(c echo.Context) error {
	var req usecase.WorkflowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.gateway.CreateSubscriptionWorkflow(c.Request().Context(), req)
	if err != nil {
		httpErr := errorResponse(err)
		if body, ok := httpErr.Message.(echo.Map); ok && result != nil {
			body["workflow"] = result
		}
		return httpErr
	}
	return c.JSON(http.StatusCreated, result)
}
