package entity

const (
	DefaultCustomerPageSize = 10
	MaxCustomerPageSize     = 100
)

// ClampPageSize applies the customer listing default and cap.
func ClampPageSize(take int) int {
	switch {
	case take <= 0:
		return DefaultCustomerPageSize
	case take > MaxCustomerPageSize:
		return MaxCustomerPageSize
	default:
		return take
	}
}
