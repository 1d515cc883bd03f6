package entity

// PaymentMethodType is the normalized payment method type.
// The zero value means the provider type was not recognized.
type PaymentMethodType string

const (
	PaymentMethodTypeUnknown PaymentMethodType = ""
	PaymentMethodTypeCard    PaymentMethodType = "card"
)

// ParsePaymentMethodType maps a provider type string. ok is false for unknown types.
func ParsePaymentMethodType(s string) (PaymentMethodType, bool) {
	switch PaymentMethodType(s) {
	case PaymentMethodTypeCard:
		return PaymentMethodTypeCard, true
	default:
		return PaymentMethodTypeUnknown, false
	}
}

type PaymentMethod struct {
	ProviderID string            `json:"providerId"`
	Type       PaymentMethodType `json:"type"`
	Card       *CardDetails      `json:"card,omitempty"`
}

type CardDetails struct {
	Brand       string `json:"brand"`
	Country     string `json:"country"`
	Last4       string `json:"last4"`
	ExpMonth    int64  `json:"expMonth"`
	ExpYear     int64  `json:"expYear"`
	Issuer      string `json:"issuer,omitempty"`
	Funding     string `json:"funding"`
	Fingerprint string `json:"fingerprint"`
	Description string `json:"description,omitempty"`
	IIN         string `json:"iin,omitempty"`
}
