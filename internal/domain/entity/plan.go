package entity

import "strings"

// Plan is a provider product together with its prices.
// Name is the reconciliation key and is compared case-insensitively.
type Plan struct {
	ProviderID string      `json:"providerId,omitempty" yaml:"-"`
	Name       string      `json:"name" yaml:"name" validate:"required"`
	Prices     []PlanPrice `json:"prices" yaml:"prices" validate:"dive"`
}

// PlanPrice is a recurring price. UnitAmount is in minor currency units.
type PlanPrice struct {
	ProviderID string   `json:"providerId,omitempty" yaml:"-"`
	Currency   Currency `json:"currency" yaml:"currency" validate:"required,oneof=EUR USD MXN"`
	Interval   Interval `json:"interval" yaml:"interval" validate:"required,oneof=Monthly Yearly"`
	UnitAmount int64    `json:"unitAmount" yaml:"unit_amount" validate:"gt=0"`
}

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyMXN Currency = "MXN"
)

// ProviderCode returns the lower-case ISO code used by the provider.
func (c Currency) ProviderCode() string {
	return strings.ToLower(string(c))
}

// CurrencyFromProvider maps a provider currency code.
func CurrencyFromProvider(code string) Currency {
	return Currency(strings.ToUpper(code))
}

type Interval string

const (
	IntervalMonthly Interval = "Monthly"
	IntervalYearly  Interval = "Yearly"
)

// ProviderCode returns the provider recurring interval for i.
func (i Interval) ProviderCode() string {
	switch i {
	case IntervalMonthly:
		return "month"
	case IntervalYearly:
		return "year"
	default:
		return strings.ToLower(string(i))
	}
}

// IntervalFromProvider maps a provider recurring interval code.
func IntervalFromProvider(code string) Interval {
	switch code {
	case "month":
		return IntervalMonthly
	case "year":
		return IntervalYearly
	default:
		return Interval(code)
	}
}
