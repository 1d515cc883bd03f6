package errors

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures so callers can tell "did not exist" from
// "provider refused" from "network failed".
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound means a lookup matched nothing.
	KindNotFound
	// KindProviderRejected is a provider business-rule error such as a card decline.
	KindProviderRejected
	// KindProviderUnavailable is a transport, timeout or provider-side outage.
	KindProviderUnavailable
	// KindUnrecognized is a provider value the mapping layer cannot interpret.
	KindUnrecognized
	// KindAmbiguous means a lookup that must match at most once matched several records.
	KindAmbiguous
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindProviderRejected:
		return "provider_rejected"
	case KindProviderUnavailable:
		return "provider_unavailable"
	case KindUnrecognized:
		return "unrecognized"
	case KindAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// ProviderErrorTypeCard is the provider error type reported for card failures.
const ProviderErrorTypeCard = "card_error"

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrAmbiguousCustomer = errors.New("more than one customer matches email")
)

// GatewayError is the error model returned by the gateway and its provider adapter.
type GatewayError struct {
	Kind Kind
	// Op names the failed operation, e.g. "attach payment method".
	Op string

	// Provider details, set for provider-reported errors.
	Type            string
	Code            string
	DeclineCode     string
	RequestID       string
	PaymentIntentID string
	HTTPStatus      int

	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.Op, e.Kind, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsCardError reports whether the provider classified the failure as a card error.
func (e *GatewayError) IsCardError() bool {
	return e.Type == ProviderErrorTypeCard
}

func NotFound(op string, err error) *GatewayError {
	return &GatewayError{Kind: KindNotFound, Op: op, Err: err}
}

func Ambiguous(op string, err error) *GatewayError {
	return &GatewayError{Kind: KindAmbiguous, Op: op, Err: err}
}

func Unrecognized(op, message string) *GatewayError {
	return &GatewayError{Kind: KindUnrecognized, Op: op, Message: message}
}

func Unavailable(op string, err error) *GatewayError {
	return &GatewayError{Kind: KindProviderUnavailable, Op: op, Err: err}
}

// AsGatewayError returns the first GatewayError in err's chain.
func AsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// KindOf returns the kind of the first GatewayError in err's chain.
func KindOf(err error) Kind {
	if gwErr, ok := AsGatewayError(err); ok {
		return gwErr.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// WithOp returns a copy of err renamed to op when it is a GatewayError.
// Other errors are wrapped unchanged.
func WithOp(err error, op string) error {
	if err == nil {
		return nil
	}
	if gwErr, ok := AsGatewayError(err); ok {
		clone := *gwErr
		clone.Op = op
		return &clone
	}
	return fmt.Errorf("%s: %w", op, err)
}
