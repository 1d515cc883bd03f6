package usecase

import (
	"context"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/payments-gateway/internal/domain/errors"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"go.uber.org/zap"
)

// toPaymentMethod maps a provider payment method. ok is false when the provider
// type is not recognized; the method is still returned with the zero type.
func toPaymentMethod(pm *provider.PaymentMethod) (entity.PaymentMethod, bool) {
	methodType, ok := entity.ParsePaymentMethodType(pm.Type)
	method := entity.PaymentMethod{
		ProviderID: pm.ID,
		Type:       methodType,
	}
	if methodType == entity.PaymentMethodTypeCard && pm.Card != nil {
		card := *pm.Card
		method.Card = &card
	}
	return method, ok
}

// mapPaymentMethods drops methods of unrecognized type.
func mapPaymentMethods(methods []*provider.PaymentMethod, logger *zap.Logger) []entity.PaymentMethod {
	mapped := make([]entity.PaymentMethod, 0, len(methods))
	for _, pm := range methods {
		method, ok := toPaymentMethod(pm)
		if !ok {
			logger.Error("unrecognized payment method type, skipping",
				zap.String("payment_method_id", pm.ID),
				zap.String("type", pm.Type))
			continue
		}
		mapped = append(mapped, method)
	}
	return mapped
}

// PaymentMethodManager attaches, detaches and lists customer payment methods.
type PaymentMethodManager struct {
	client   provider.Client
	identity *IdentityService
	logger   *zap.Logger
}

func NewPaymentMethodManager(client provider.Client, identity *IdentityService, logger *zap.Logger) *PaymentMethodManager {
	return &PaymentMethodManager{
		client:   client,
		identity: identity,
		logger:   logger,
	}
}

// AttachPaymentMethod attaches paymentMethodID to customerID and, when makeDefault
// is set, makes it the customer's default invoice payment method. The two calls
// are not atomic: if the second fails the method stays attached and the error is
// returned. A method of unrecognized type is returned with the zero type.
func (m *PaymentMethodManager) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string, makeDefault bool) (*entity.PaymentMethod, error) {
	pm, err := m.client.AttachPaymentMethod(ctx, paymentMethodID, customerID)
	if err != nil {
		m.logger.Error("PaymentMethodManager: failed to attach payment method",
			zap.String("payment_method_id", paymentMethodID),
			zap.String("customer_id", customerID),
			zap.Error(err))
		return nil, err
	}

	if makeDefault {
		if _, err := m.client.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
			m.logger.Error("PaymentMethodManager: attached payment method but failed to make it default",
				zap.String("payment_method_id", paymentMethodID),
				zap.String("customer_id", customerID),
				zap.Error(err))
			return nil, err
		}
	}

	method, ok := toPaymentMethod(pm)
	if !ok {
		m.logger.Error("PaymentMethodManager: unrecognized payment method type",
			zap.String("payment_method_id", pm.ID),
			zap.String("type", pm.Type))
	}
	return &method, nil
}

// DetachPaymentMethod detaches the method. Success only means the provider call
// did not fail.
func (m *PaymentMethodManager) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	if err := m.client.DetachPaymentMethod(ctx, paymentMethodID); err != nil {
		m.logger.Error("PaymentMethodManager: failed to detach payment method",
			zap.String("payment_method_id", paymentMethodID),
			zap.Error(err))
		return err
	}
	return nil
}

// GetPaymentMethods lists the customer's methods of the given type. Methods of
// unrecognized type are skipped.
func (m *PaymentMethodManager) GetPaymentMethods(ctx context.Context, customerID string, methodType entity.PaymentMethodType) ([]entity.PaymentMethod, error) {
	methods, err := m.client.ListPaymentMethods(ctx, customerID, string(methodType))
	if err != nil {
		return nil, err
	}
	return mapPaymentMethods(methods, m.logger), nil
}

// GetPaymentMethodsByCustomerEmail lists the card methods of the customer
// registered under email.
func (m *PaymentMethodManager) GetPaymentMethodsByCustomerEmail(ctx context.Context, email string) ([]entity.PaymentMethod, error) {
	customer, err := m.identity.ResolveCustomer(ctx, email)
	if err != nil {
		return nil, domainErrors.WithOp(err, "get payment methods")
	}
	return m.GetPaymentMethods(ctx, customer.ProviderID, entity.PaymentMethodTypeCard)
}
