package event

import (
	"context"
	"time"
)

// Event types published by the gateway.
const (
	TypeChargeRequiresAction       = "charge.requires_action"
	TypeChargeFailed               = "charge.failed"
	TypeSubscriptionWorkflowFailed = "subscription.workflow_failed"
	TypeSubscriptionCreated        = "subscription.created"
	TypeCatalogReconciled          = "catalog.reconciled"
)

// Event is a gateway outcome that needs follow-up outside the request, such as an
// off-session charge that requires customer authentication.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// Publisher delivers gateway events. Publishing failures never fail the operation
// that produced the event.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}
