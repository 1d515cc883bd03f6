package usecase

import (
	"context"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/payments-gateway/internal/domain/errors"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/event"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"go.uber.org/zap"
)

// ChargeOrchestrator charges saved payment methods off-session and prepares
// customers for future off-session payments. Charges are attempted exactly once.
type ChargeOrchestrator struct {
	client    provider.Client
	identity  *IdentityService
	publisher event.Publisher
	logger    *zap.Logger
}

func NewChargeOrchestrator(
	client provider.Client,
	identity *IdentityService,
	publisher event.Publisher,
	logger *zap.Logger,
) *ChargeOrchestrator {
	return &ChargeOrchestrator{
		client:    client,
		identity:  identity,
		publisher: publisher,
		logger:    logger,
	}
}

// ChargeWithCustomerEmail resolves the customer registered under email and charges it.
func (o *ChargeOrchestrator) ChargeWithCustomerEmail(ctx context.Context, email string, charge entity.Charge) (*entity.ChargeResult, error) {
	customer, err := o.identity.ResolveCustomer(ctx, email)
	if err != nil {
		o.logger.Warn("ChargeOrchestrator: cannot charge unresolved customer",
			zap.String("email", email),
			zap.Error(err))
		return nil, domainErrors.WithOp(err, "charge")
	}
	return o.Charge(ctx, customer.ProviderID, email, charge)
}

// Charge creates a confirmed off-session payment intent for customerID.
//
// A card error means the charge needs customer action, typically authentication.
// The resulting intent is fetched and returned together with the rejection, and a
// charge.requires_action event is published for out-of-band follow-up.
func (o *ChargeOrchestrator) Charge(ctx context.Context, customerID, email string, charge entity.Charge) (*entity.ChargeResult, error) {
	req := &provider.PaymentIntentRequest{
		Amount:          charge.UnitAmount,
		Currency:        charge.Currency.ProviderCode(),
		CustomerID:      customerID,
		PaymentMethodID: charge.PaymentMethodID,
		Description:     charge.Description,
	}
	if charge.SendReceiptEmail {
		req.ReceiptEmail = email
	}

	pi, err := o.client.CreatePaymentIntent(ctx, req)
	if err == nil {
		o.logger.Info("ChargeOrchestrator: charge created",
			zap.String("customer_id", customerID),
			zap.String("payment_intent_id", pi.ID),
			zap.String("status", pi.Status))
		return &entity.ChargeResult{PaymentIntentID: pi.ID, Status: pi.Status}, nil
	}

	gwErr, ok := domainErrors.AsGatewayError(err)
	if !ok || !gwErr.IsCardError() {
		o.logger.Error("ChargeOrchestrator: charge failed",
			zap.String("customer_id", customerID),
			zap.String("payment_method_id", charge.PaymentMethodID),
			zap.Error(err))
		publish(ctx, o.publisher, o.logger, event.TypeChargeFailed, map[string]interface{}{
			"customer_id":       customerID,
			"payment_method_id": charge.PaymentMethodID,
			"kind":              domainErrors.KindOf(err).String(),
		})
		return nil, err
	}

	result := &entity.ChargeResult{PaymentIntentID: gwErr.PaymentIntentID}
	if gwErr.PaymentIntentID != "" {
		intent, fetchErr := o.client.GetPaymentIntent(ctx, gwErr.PaymentIntentID)
		if fetchErr != nil {
			o.logger.Error("ChargeOrchestrator: failed to fetch declined payment intent",
				zap.String("payment_intent_id", gwErr.PaymentIntentID),
				zap.Error(fetchErr))
		} else {
			result.Status = intent.Status
		}
	}

	o.logger.Warn("ChargeOrchestrator: card error on off-session charge",
		zap.String("customer_id", customerID),
		zap.String("payment_method_id", charge.PaymentMethodID),
		zap.String("payment_intent_id", result.PaymentIntentID),
		zap.String("code", gwErr.Code),
		zap.String("decline_code", gwErr.DeclineCode),
		zap.String("status", result.Status))
	publish(ctx, o.publisher, o.logger, event.TypeChargeRequiresAction, map[string]interface{}{
		"customer_id":       customerID,
		"payment_method_id": charge.PaymentMethodID,
		"payment_intent_id": result.PaymentIntentID,
		"status":            result.Status,
		"code":              gwErr.Code,
	})
	return result, err
}

// GetPaymentStatus lists the charges of a payment intent.
func (o *ChargeOrchestrator) GetPaymentStatus(ctx context.Context, paymentID string) ([]entity.ChargeSummary, error) {
	return o.client.ListCharges(ctx, paymentID)
}

// PrepareForFuturePayment creates a setup intent whose secret lets the customer
// authorize a payment method for later off-session charges.
func (o *ChargeOrchestrator) PrepareForFuturePayment(ctx context.Context, customerID string) (*entity.FuturePaymentIntent, error) {
	intent, err := o.client.CreateSetupIntent(ctx, customerID)
	if err != nil {
		o.logger.Error("ChargeOrchestrator: failed to create setup intent",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return nil, err
	}
	return intent, nil
}

func (o *ChargeOrchestrator) PrepareForFuturePaymentByEmail(ctx context.Context, email string) (*entity.FuturePaymentIntent, error) {
	customer, err := o.identity.ResolveCustomer(ctx, email)
	if err != nil {
		return nil, domainErrors.WithOp(err, "prepare future payment")
	}
	return o.PrepareForFuturePayment(ctx, customer.ProviderID)
}
