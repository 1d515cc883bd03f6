package entity

// Customer is a provider customer as seen by the application. It is never cached;
// every instance is the result of a live provider read.
type Customer struct {
	ProviderID  string `json:"providerId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	// SystemID references the owning application entity. It is stored in provider metadata.
	SystemID string `json:"systemId"`

	// PaymentMethods is only populated when requested.
	PaymentMethods []PaymentMethod `json:"paymentMethods,omitempty"`
}

// CustomerInclude selects optional relations loaded with a customer.
type CustomerInclude string

const (
	IncludePaymentMethods CustomerInclude = "paymentMethods"
)

// IncludeSet is a set of CustomerInclude values.
type IncludeSet map[CustomerInclude]struct{}

func Includes(values ...CustomerInclude) IncludeSet {
	set := make(IncludeSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s IncludeSet) Has(v CustomerInclude) bool {
	_, ok := s[v]
	return ok
}
