package entity

// Subscription is the provider subscription returned at creation time. It is not
// persisted and its state is not tracked afterwards.
type Subscription struct {
	ProviderID string `json:"providerId"`
	CustomerID string `json:"customerId"`
	PriceID    string `json:"priceId"`
	Status     string `json:"status"`
	// PaymentIntentID and ClientSecret come from the expanded latest invoice.
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	ClientSecret    string `json:"clientSecret,omitempty"`
}
