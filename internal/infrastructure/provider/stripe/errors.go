package stripe

import (
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v79"
	domainErrors "github.com/wekeepgrowing/payments-gateway/internal/domain/errors"
)

// wrapStripeError classifies err for op. Stripe API errors are provider rejections
// unless Stripe itself failed or throttled the call; everything else, including
// deadlines and connection failures, means the provider was unavailable.
func wrapStripeError(op string, err error) error {
	if err == nil {
		return nil
	}

	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return domainErrors.Unavailable(op, err)
	}

	gwErr := &domainErrors.GatewayError{
		Kind:        domainErrors.KindProviderRejected,
		Op:          op,
		Type:        string(stripeErr.Type),
		Code:        string(stripeErr.Code),
		DeclineCode: string(stripeErr.DeclineCode),
		RequestID:   stripeErr.RequestID,
		HTTPStatus:  stripeErr.HTTPStatusCode,
		Message:     stripeErr.Msg,
		Err:         err,
	}
	if stripeErr.PaymentIntent != nil {
		gwErr.PaymentIntentID = stripeErr.PaymentIntent.ID
	}
	if stripeErr.Type == stripe.ErrorTypeAPI ||
		stripeErr.HTTPStatusCode >= http.StatusInternalServerError ||
		stripeErr.HTTPStatusCode == http.StatusTooManyRequests {
		gwErr.Kind = domainErrors.KindProviderUnavailable
	}
	return gwErr
}
