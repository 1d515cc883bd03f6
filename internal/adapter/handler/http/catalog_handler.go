package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	pkgErrors "github.com/wekeepgrowing/payments-gateway/pkg/errors"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	gateway usecase.PaymentsGateway
	logger  *zap.Logger
}

func NewCatalogHandler(gateway usecase.PaymentsGateway, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		gateway: gateway,
		logger:  logger,
	}
}

type PopulatePlansRequest struct {
	Plans []entity.Plan `json:"plans" validate:"required,min=1,dive"`
}

// PopulatePlans reconciles the plans in the request body.
func (h *CatalogHandler) PopulatePlans(c echo.Context) error {
	var req PopulatePlansRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.populate(c, req.Plans)
}

// PopulateDefaultPlans reconciles the configured catalog.
func (h *CatalogHandler) PopulateDefaultPlans(c echo.Context) error {
	return h.populate(c, h.gateway.DefaultPlans())
}

func (h *CatalogHandler) populate(c echo.Context, plans []entity.Plan) error {
	reconciled, err := h.gateway.PopulatePlans(c.Request().Context(), plans)
	if err != nil {
		pkgErrors.LogError(h.logger, toAppError(err), "Failed to populate plans", zap.Int("plans", len(plans)))
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, reconciled)
}
