package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ChargeRequest is the boundary form of a charge, with Amount in major units.
type ChargeRequest struct {
	CustomerEmail    string          `json:"customerEmail" validate:"required,email"`
	PaymentMethodID  string          `json:"paymentMethodId" validate:"required"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         Currency        `json:"currency" validate:"required,oneof=EUR USD MXN"`
	SendReceiptEmail bool            `json:"sendReceiptEmail"`
	Description      string          `json:"description"`
}

// MaxChargeMinorUnits is the largest single charge Stripe accepts, in minor units.
const MaxChargeMinorUnits int64 = 99999999

// MinorUnits converts Amount to minor currency units. Non-positive amounts,
// amounts with more than two decimal places and amounts above
// MaxChargeMinorUnits are rejected.
func (r ChargeRequest) MinorUnits() (int64, error) {
	if !r.Amount.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", r.Amount)
	}
	minor := r.Amount.Shift(2)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than two decimal places", r.Amount)
	}
	if minor.GreaterThan(decimal.NewFromInt(MaxChargeMinorUnits)) {
		return 0, fmt.Errorf("amount %s exceeds the maximum charge of %s", r.Amount,
			decimal.New(MaxChargeMinorUnits, -2).StringFixed(2))
	}
	return minor.IntPart(), nil
}

// ChargeResult reports the payment intent created or fetched for a charge.
type ChargeResult struct {
	PaymentIntentID string `json:"paymentIntentId"`
	Status          string `json:"status"`
}

// ChargeSummary is the minimal status projection of a provider charge.
type ChargeSummary struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// FuturePaymentIntent is a transient setup handshake handed to the caller.
type FuturePaymentIntent struct {
	ID           string    `json:"id"`
	IntentSecret string    `json:"intentSecret"`
	Customer     *Customer `json:"customer,omitempty"`
}

// Charge is an off-session charge of a saved payment method. UnitAmount is in
// minor currency units and is passed to the provider unchanged.
type Charge struct {
	PaymentMethodID  string
	Currency         Currency
	UnitAmount       int64
	SendReceiptEmail bool
	Description      string
}
