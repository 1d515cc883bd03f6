package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"go.uber.org/zap"
)

type PaymentMethodHandler struct {
	gateway usecase.PaymentsGateway
	logger  *zap.Logger
}

func NewPaymentMethodHandler(gateway usecase.PaymentsGateway, logger *zap.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		gateway: gateway,
		logger:  logger,
	}
}

type AttachPaymentMethodRequest struct {
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
	CustomerID      string `json:"customerId" validate:"required"`
	// MakeDefault defaults to true.
	MakeDefault *bool `json:"makeDefault"`
}

// GetPaymentMethods returns the customer in the path with its payment methods.
func (h *PaymentMethodHandler) GetPaymentMethods(c echo.Context) error {
	customer, err := h.gateway.GetCustomerByEmail(c.Request().Context(), c.Param("email"),
		entity.Includes(entity.IncludePaymentMethods))
	if err != nil {
		return errorResponse(err)
	}
	if customer == nil {
		return notFound("customer not found")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *PaymentMethodHandler) AttachPaymentMethod(c echo.Context) error {
	var req AttachPaymentMethodRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	makeDefault := true
	if req.MakeDefault != nil {
		makeDefault = *req.MakeDefault
	}

	method, err := h.gateway.AttachPaymentMethod(c.Request().Context(), req.PaymentMethodID, req.CustomerID, makeDefault)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, method)
}

func (h *PaymentMethodHandler) DetachPaymentMethod(c echo.Context) error {
	if err := h.gateway.DetachPaymentMethod(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}
