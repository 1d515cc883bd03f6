package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"go.uber.org/zap"
)

type ChargeHandler struct {
	gateway usecase.PaymentsGateway
	logger  *zap.Logger
}

func NewChargeHandler(gateway usecase.PaymentsGateway, logger *zap.Logger) *ChargeHandler {
	return &ChargeHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// Charge charges a saved payment method. The amount arrives in major units and is
// converted to minor units here, once.
func (h *ChargeHandler) Charge(c echo.Context) error {
	var req entity.ChargeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	minor, err := req.MinorUnits()
	if err != nil {
		return badRequest(err.Error(), err)
	}

	result, err := h.gateway.ChargeWithCustomerEmail(c.Request().Context(), req.CustomerEmail, entity.Charge{
		PaymentMethodID:  req.PaymentMethodID,
		Currency:         req.Currency,
		UnitAmount:       minor,
		SendReceiptEmail: req.SendReceiptEmail,
		Description:      req.Description,
	})
	if err != nil {
		h.logger.Warn("Charge failed",
			zap.String("email", req.CustomerEmail),
			zap.String("payment_method_id", req.PaymentMethodID),
			zap.Error(err))
		httpErr := errorResponse(err)
		if body, ok := httpErr.Message.(echo.Map); ok && result != nil && result.Status != "" {
			body["status"] = result.Status
		}
		return httpErr
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ChargeHandler) GetPaymentStatus(c echo.Context) error {
	charges, err := h.gateway.GetPaymentStatus(c.Request().Context(), c.Param("paymentId"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, charges)
}
