package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/payments-gateway/internal/domain/errors"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/event"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"go.uber.org/zap"
)

// WorkflowStep names a step of the subscription workflow.
type WorkflowStep string

const (
	StepResolveCustomer         WorkflowStep = "resolve_customer"
	StepAttachPaymentMethod     WorkflowStep = "attach_payment_method"
	StepSetDefaultPaymentMethod WorkflowStep = "set_default_payment_method"
	StepCreateSubscription      WorkflowStep = "create_subscription"
)

// WorkflowRequest identifies the customer by provider ID or by email. CustomerID
// wins when both are given.
type WorkflowRequest struct {
	CustomerID      string `json:"customerId" validate:"required_without=CustomerEmail"`
	CustomerEmail   string `json:"customerEmail" validate:"omitempty,email"`
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
	PriceID         string `json:"priceId" validate:"required"`
}

// WorkflowResult exposes how far a subscription workflow got. On failure
// Completed lists the steps whose effects are still in place unless Compensated.
type WorkflowResult struct {
	ID           string               `json:"id"`
	Completed    []WorkflowStep       `json:"completed"`
	FailedStep   WorkflowStep         `json:"failedStep,omitempty"`
	Compensated  bool                 `json:"compensated"`
	Subscription *entity.Subscription `json:"subscription,omitempty"`
}

func (r *WorkflowResult) Succeeded() bool {
	return r.FailedStep == "" && r.Subscription != nil
}

// SubscriptionOrchestrator creates subscriptions for customers resolved by email.
type SubscriptionOrchestrator struct {
	client   provider.Client
	identity *IdentityService
	methods  *PaymentMethodManager

	publisher           event.Publisher
	compensateOnFailure bool
	logger              *zap.Logger
}

// NewSubscriptionOrchestrator creates the orchestrator. When compensateOnFailure
// is set a workflow that fails after attaching the payment method detaches it again.
func NewSubscriptionOrchestrator(
	client provider.Client,
	identity *IdentityService,
	methods *PaymentMethodManager,
	publisher event.Publisher,
	compensateOnFailure bool,
	logger *zap.Logger,
) *SubscriptionOrchestrator {
	return &SubscriptionOrchestrator{
		client:              client,
		identity:            identity,
		methods:             methods,
		publisher:           publisher,
		compensateOnFailure: compensateOnFailure,
		logger:              logger,
	}
}

// CreateSubscription subscribes the customer registered under email to priceID.
// It returns false without an error when no customer matches email.
func (o *SubscriptionOrchestrator) CreateSubscription(ctx context.Context, email, priceID string) (bool, error) {
	customer, err := o.identity.GetCustomerByEmail(ctx, email, nil)
	if err != nil {
		return false, domainErrors.WithOp(err, "create subscription")
	}
	if customer == nil {
		o.logger.Info("SubscriptionOrchestrator: no customer for email", zap.String("email", email))
		return false, nil
	}

	sub, err := o.client.CreateSubscription(ctx, customer.ProviderID, priceID)
	if err != nil {
		o.logger.Error("SubscriptionOrchestrator: failed to create subscription",
			zap.String("customer_id", customer.ProviderID),
			zap.String("price_id", priceID),
			zap.Error(err))
		return false, err
	}

	o.publishCreated(ctx, sub)
	return true, nil
}

// CreateSubscriptionWorkflow resolves the customer, attaches the payment method,
// makes it the default and subscribes the customer, in that order. The steps are
// not transactional; the result records which of them completed.
func (o *SubscriptionOrchestrator) CreateSubscriptionWorkflow(ctx context.Context, req WorkflowRequest) (*WorkflowResult, error) {
	result := &WorkflowResult{ID: uuid.NewString()}
	log := o.logger.With(
		zap.String("workflow_id", result.ID),
		zap.String("requested_customer_id", req.CustomerID),
		zap.String("email", req.CustomerEmail),
		zap.String("payment_method_id", req.PaymentMethodID),
		zap.String("price_id", req.PriceID))

	customer, err := o.resolveCustomer(ctx, req)
	if err != nil {
		return o.fail(ctx, log, result, StepResolveCustomer, "", req, err)
	}
	result.Completed = append(result.Completed, StepResolveCustomer)

	if _, err := o.methods.AttachPaymentMethod(ctx, req.PaymentMethodID, customer.ProviderID, false); err != nil {
		return o.fail(ctx, log, result, StepAttachPaymentMethod, customer.ProviderID, req, err)
	}
	result.Completed = append(result.Completed, StepAttachPaymentMethod)

	if _, err := o.client.SetDefaultPaymentMethod(ctx, customer.ProviderID, req.PaymentMethodID); err != nil {
		return o.fail(ctx, log, result, StepSetDefaultPaymentMethod, customer.ProviderID, req, err)
	}
	result.Completed = append(result.Completed, StepSetDefaultPaymentMethod)

	sub, err := o.client.CreateSubscription(ctx, customer.ProviderID, req.PriceID)
	if err != nil {
		return o.fail(ctx, log, result, StepCreateSubscription, customer.ProviderID, req, err)
	}
	result.Completed = append(result.Completed, StepCreateSubscription)
	result.Subscription = sub

	log.Info("SubscriptionOrchestrator: workflow completed",
		zap.String("customer_id", customer.ProviderID),
		zap.String("subscription_id", sub.ProviderID),
		zap.String("status", sub.Status))
	o.publishCreated(ctx, sub)
	return result, nil
}

func (o *SubscriptionOrchestrator) resolveCustomer(ctx context.Context, req WorkflowRequest) (*entity.Customer, error) {
	if req.CustomerID != "" {
		return &entity.Customer{ProviderID: req.CustomerID}, nil
	}
	return o.identity.ResolveCustomer(ctx, req.CustomerEmail)
}

func (o *SubscriptionOrchestrator) fail(
	ctx context.Context,
	log *zap.Logger,
	result *WorkflowResult,
	step WorkflowStep,
	customerID string,
	req WorkflowRequest,
	err error,
) (*WorkflowResult, error) {
	result.FailedStep = step

	attached := false
	for _, done := range result.Completed {
		if done == StepAttachPaymentMethod {
			attached = true
		}
	}

	if attached && o.compensateOnFailure {
		if detachErr := o.methods.DetachPaymentMethod(ctx, req.PaymentMethodID); detachErr != nil {
			log.Error("SubscriptionOrchestrator: compensation failed, payment method left attached",
				zap.Error(detachErr))
		} else {
			result.Compensated = true
		}
	}

	log.Error("SubscriptionOrchestrator: workflow failed",
		zap.String("customer_id", customerID),
		zap.String("failed_step", string(step)),
		zap.Any("completed_steps", result.Completed),
		zap.Bool("compensated", result.Compensated),
		zap.Error(err))

	if len(result.Completed) > 0 {
		publish(ctx, o.publisher, o.logger, event.TypeSubscriptionWorkflowFailed, map[string]interface{}{
			"workflow_id":       result.ID,
			"customer_id":       customerID,
			"payment_method_id": req.PaymentMethodID,
			"price_id":          req.PriceID,
			"failed_step":       string(step),
			"completed_steps":   result.Completed,
			"compensated":       result.Compensated,
		})
	}
	return result, domainErrors.WithOp(err, "subscription workflow: "+string(step))
}

func (o *SubscriptionOrchestrator) publishCreated(ctx context.Context, sub *entity.Subscription) {
	publish(ctx, o.publisher, o.logger, event.TypeSubscriptionCreated, map[string]interface{}{
		"subscription_id": sub.ProviderID,
		"customer_id":     sub.CustomerID,
		"price_id":        sub.PriceID,
		"status":          sub.Status,
	})
}
