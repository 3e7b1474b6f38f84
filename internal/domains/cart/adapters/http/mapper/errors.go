package mapper

import (
	"context"
	"errors"

	cartdomain "github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

// remoteUnavailableDetail replaces upstream error text, which may quote the storefront response body.
const remoteUnavailableDetail = "storefront temporarily unavailable"

// ProblemFromError maps cart errors onto problem details for a ChainedResponder.
func ProblemFromError(err error) (apierrors.ProblemDetail, bool) {
	var rejected *cartdomain.RejectedError
	switch {
	case err == nil:
		return apierrors.ProblemDetail{}, false
	case errors.Is(err, cartdomain.ErrCartNotFound):
		return apierrors.NewNotFoundProblem("cart", "session").WithDetail(err.Error()), true
	case errors.As(err, &rejected):
		return apierrors.ErrUnprocessable.
			WithDetail(rejected.Error()).
			WithExtension("userErrors", fromDomainUserErrors(rejected.UserErrors)), true
	case errors.Is(err, cartdomain.ErrInvalidArgument):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, cartdomain.ErrRemoteUnavailable):
		return apierrors.ErrBadGateway.WithDetail(remoteUnavailableDetail), true
	case errors.Is(err, cartdomain.ErrSessionClosed):
		return apierrors.ErrGone.WithDetail(err.Error()), true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apierrors.ErrInternal.WithDetail("request cancelled while waiting for the cart"), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

// UserError is the transport shape of a storefront validation message.
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

func fromDomainUserErrors(in []cartdomain.UserError) []UserError {
	out := make([]UserError, 0, len(in))
	for _, ue := range in {
		out = append(out, UserError{Field: ue.Field, Message: ue.Message, Code: ue.Code})
	}
	return out
}
