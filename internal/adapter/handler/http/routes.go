package http

import (
	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the gateway API under /api. admin guards the routes that
// mutate the catalog or delete customers.
func RegisterRoutes(e *echo.Echo, gateway usecase.PaymentsGateway, admin echo.MiddlewareFunc, logger *zap.Logger) {
	customers := NewCustomerHandler(gateway, logger)
	catalog := NewCatalogHandler(gateway, logger)
	methods := NewPaymentMethodHandler(gateway, logger)
	charges := NewChargeHandler(gateway, logger)
	subscriptions := NewSubscriptionHandler(gateway, logger)

	api := e.Group("/api")

	api.POST("/customers", customers.CreateCustomer)
	api.GET("/customers", customers.ListCustomers)
	api.GET("/customers/by-email", customers.GetCustomerByEmail)
	api.GET("/customers/system/:systemId", customers.GetCustomerBySystemID)
	api.DELETE("/customers", customers.DeleteCustomer, admin)
	api.POST("/customers/populate", catalog.PopulateDefaultPlans, admin)
	api.POST("/plans/populate", catalog.PopulatePlans, admin)

	api.GET("/payments/:email", methods.GetPaymentMethods)
	api.POST("/payment-methods/attach", methods.AttachPaymentMethod)
	api.DELETE("/payment-methods/:id", methods.DetachPaymentMethod)

	api.POST("/charge", charges.Charge)
	api.GET("/charge/:paymentId/status", charges.GetPaymentStatus)

	api.POST("/subscription", subscriptions.PrepareSubscription)
	api.POST("/subscription/simple", subscriptions.CreateSimpleSubscription)
	api.POST("/subscription/create-subscription", subscriptions.CreateSubscription)
}
