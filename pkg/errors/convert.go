package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// CodePair maps an application code onto HTTP and gRPC.
type CodePair struct {
	HTTPStatus int
	GRPCCode   codes.Code
}

var codeMapping = map[string]CodePair{
	ErrInternal:        {http.StatusInternalServerError, codes.Internal},
	ErrNotFound:        {http.StatusNotFound, codes.NotFound},
	ErrInvalidArgument: {http.StatusBadRequest, codes.InvalidArgument},
	ErrUnauthenticated: {http.StatusUnauthorized, codes.Unauthenticated},
	ErrUnauthorized:    {http.StatusForbidden, codes.PermissionDenied},
	ErrConflict:        {http.StatusConflict, codes.AlreadyExists},
	ErrTimeout:         {http.StatusGatewayTimeout, codes.DeadlineExceeded},
	ErrNotImplemented:  {http.StatusNotImplemented, codes.Unimplemented},
	ErrPaymentRequired: {http.StatusPaymentRequired, codes.FailedPrecondition},
	ErrUnavailable:     {http.StatusServiceUnavailable, codes.Unavailable},
	ErrBadGateway:      {http.StatusBadGateway, codes.Unknown},
}

// GetCodeMapping returns the HTTP status and gRPC code for an application code.
// Unknown codes map to internal errors.
func GetCodeMapping(code string) (int, codes.Code) {
	if pair, ok := codeMapping[code]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return http.StatusInternalServerError, codes.Internal
}
