package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	gateway usecase.PaymentsGateway
	logger  *zap.Logger
}

func NewCustomerHandler(gateway usecase.PaymentsGateway, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		gateway: gateway,
		logger:  logger,
	}
}

type CreateCustomerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	SystemID string `json:"systemId"`
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req CreateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.gateway.CreateCustomer(c.Request().Context(), req.Email, req.Name, req.SystemID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	take := 0
	if raw := c.QueryParam("take"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest("take must be an integer", err)
		}
		take = n
	}

	customers, err := h.gateway.ListCustomers(c.Request().Context(), take)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, customers)
}

// parseIncludes reads a comma separated include list. Unknown values are ignored.
func parseIncludes(raw string) entity.IncludeSet {
	var values []entity.CustomerInclude
	for _, part := range strings.Split(raw, ",") {
		if strings.EqualFold(strings.TrimSpace(part), string(entity.IncludePaymentMethods)) {
			values = append(values, entity.IncludePaymentMethods)
		}
	}
	return entity.Includes(values...)
}

func (h *CustomerHandler) GetCustomerByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return badRequest("email is required", nil)
	}

	customer, err := h.gateway.GetCustomerByEmail(c.Request().Context(), email, parseIncludes(c.QueryParam("include")))
	if err != nil {
		return errorResponse(err)
	}
	if customer == nil {
		return notFound("customer not found")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) GetCustomerBySystemID(c echo.Context) error {
	customer, err := h.gateway.GetCustomerBySystemID(c.Request().Context(), c.Param("systemId"))
	if err != nil {
		return errorResponse(err)
	}
	if customer == nil {
		return notFound("customer not found")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return badRequest("email is required", nil)
	}

	customer, err := h.gateway.DeleteCustomerByEmail(c.Request().Context(), email)
	if err != nil {
		return errorResponse(err)
	}
	if customer == nil {
		return notFound("customer not found")
	}

	h.logger.Info("Customer deleted", zap.String("customer_id", customer.ProviderID))
	return c.JSON(http.StatusOK, customer)
}
