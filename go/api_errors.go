package cartserver

import (
	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/http/mapper"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

var cartResponder = apierrors.NewResponder("", carthttpmapper.ProblemFromError)

// respondBadRequest answers malformed requests that never reached the cart store.
func respondBadRequest(c *gin.Context, err error) {
	if err == nil {
		return
	}
	cartResponder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondCartError maps a cart store error and attaches the session snapshot so the
// client can render the error flag alongside the unchanged cart.
func respondCartError(c *gin.Context, err error, snapshot carthttpmapper.Snapshot) {
	if err == nil {
		return
	}
	cartResponder.Respond(c, cartResponder.Problem(err).WithExtension("cart", snapshot))
}
