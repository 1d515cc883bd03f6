package http

import (
	"errors"

	"github.com/labstack/echo/v4"
	domainErrors "github.com/wekeepgrowing/payments-gateway/internal/domain/errors"
	pkgErrors "github.com/wekeepgrowing/payments-gateway/pkg/errors"
)

// toAppError maps a gateway failure onto an application error code.
func toAppError(err error) *pkgErrors.AppError {
	var appErr *pkgErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	gwErr, ok := domainErrors.AsGatewayError(err)
	if !ok {
		return pkgErrors.NewAppError(pkgErrors.ErrInternal, "internal error", err)
	}

	message := gwErr.Message
	switch gwErr.Kind {
	case domainErrors.KindNotFound:
		if message == "" {
			message = "customer not found"
		}
		return pkgErrors.NewAppError(pkgErrors.ErrNotFound, message, err)
	case domainErrors.KindAmbiguous:
		return pkgErrors.NewAppError(pkgErrors.ErrConflict, "more than one customer matches this email", err)
	case domainErrors.KindProviderRejected:
		if message == "" {
			message = "payment provider rejected the request"
		}
		return pkgErrors.NewAppError(pkgErrors.ErrPaymentRequired, message, err)
	case domainErrors.KindProviderUnavailable:
		return pkgErrors.NewAppError(pkgErrors.ErrUnavailable, "payment provider unavailable", err)
	case domainErrors.KindUnrecognized:
		return pkgErrors.NewAppError(pkgErrors.ErrBadGateway, "unexpected payment provider response", err)
	default:
		return pkgErrors.NewAppError(pkgErrors.ErrInternal, "internal error", err)
	}
}

// errorResponse converts err into an echo error carrying code, message and,
// for provider errors, the provider code and payment intent.
func errorResponse(err error) *echo.HTTPError {
	appErr := toAppError(err)
	httpErr := pkgErrors.ToHTTPError(appErr)

	if gwErr, ok := domainErrors.AsGatewayError(err); ok {
		if body, ok := httpErr.Message.(echo.Map); ok {
			if gwErr.Code != "" {
				body["providerCode"] = gwErr.Code
			}
			if gwErr.DeclineCode != "" {
				body["declineCode"] = gwErr.DeclineCode
			}
			if gwErr.PaymentIntentID != "" {
				body["paymentIntentId"] = gwErr.PaymentIntentID
			}
		}
	}
	return httpErr
}

func badRequest(message string, err error) *echo.HTTPError {
	return pkgErrors.ToHTTPError(pkgErrors.NewAppError(pkgErrors.ErrInvalidArgument, message, err))
}

func notFound(message string) *echo.HTTPError {
	return pkgErrors.ToHTTPError(pkgErrors.NewAppError(pkgErrors.ErrNotFound, message, nil))
}
