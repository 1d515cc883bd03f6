package errors

// Application error codes shared by the HTTP and gRPC surfaces.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"

	// Payment provider outcomes.
	ErrPaymentRequired = "PAYMENT_REQUIRED"
	ErrUnavailable     = "UNAVAILABLE"
	ErrBadGateway      = "BAD_GATEWAY"
)
