package cartserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/http/mapper"
	cartdomain "github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// SessionRegistry hands out the cart store of a browser session.
type SessionRegistry interface {
	Open(ctx context.Context, sessionID string) (cartports.Service, error)
	Forget(ctx context.Context, sessionID string) error
}

// CartAPI serves the cart endpoints the storefront pages call.
type CartAPI struct {
	sessions SessionRegistry
	cookie   SessionOptions
}

// NewCartAPI wires dependencies.
func NewCartAPI(sessions SessionRegistry, cookie SessionOptions) CartAPI {
	return CartAPI{sessions: sessions, cookie: cookie}
}

// Get /api/cart
// Returns the session cart snapshot
func (api *CartAPI) GetCart(c *gin.Context) {
	svc, ok := api.open(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainSnapshot(svc.Snapshot()))
}

// Get /api/cart/count
// Returns the header badge count
func (api *CartAPI) GetItemCount(c *gin.Context) {
	svc, ok := api.open(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.ItemCount{Count: svc.ItemCount()})
}

// Post /api/cart/add
// Adds a variant, creating the cart on first use
func (api *CartAPI) AddItem(c *gin.Context) {
	var payload carthttpmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	svc, ok := api.open(c)
	if !ok {
		return
	}
	err := svc.AddItem(c.Request.Context(), payload.VariantID, payload.QuantityOrDefault())
	api.respondMutation(c, svc, err)
}

// Post /api/cart/update
// Sets the quantity of a line
func (api *CartAPI) UpdateQuantity(c *gin.Context) {
	var payload carthttpmapper.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	svc, ok := api.open(c)
	if !ok {
		return
	}
	err := svc.UpdateQuantity(c.Request.Context(), payload.LineID, payload.Quantity)
	api.respondMutation(c, svc, err)
}

// Post /api/cart/remove
// Removes a line
func (api *CartAPI) RemoveItem(c *gin.Context) {
	var payload carthttpmapper.RemoveItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	svc, ok := api.open(c)
	if !ok {
		return
	}
	err := svc.RemoveItem(c.Request.Context(), payload.LineID)
	api.respondMutation(c, svc, err)
}

// Post /api/cart/adjust
// Applies a relative change, removing the line when it reaches zero
// Without currentQuantity the last known quantity of the line is used
func (api *CartAPI) AdjustQuantity(c *gin.Context) {
	var payload carthttpmapper.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	svc, ok := api.open(c)
	if !ok {
		return
	}
	current := payload.CurrentQuantity
	if current <= 0 {
		line, found := svc.Snapshot().Cart.Line(payload.LineID)
		if !found {
			respondBadRequest(c, fmt.Errorf("line %q is not in the cart", payload.LineID))
			return
		}
		current = line.Quantity
	}
	err := svc.DecrementOrRemove(c.Request.Context(), payload.LineID, current, payload.Delta)
	api.respondMutation(c, svc, err)
}

// Post /api/cart/open
func (api *CartAPI) OpenCart(c *gin.Context) {
	svc, ok := api.open(c)
	if !ok {
		return
	}
	svc.OpenCart()
	c.JSON(http.StatusOK, carthttpmapper.FromDomainSnapshot(svc.Snapshot()))
}

// Post /api/cart/close
func (api *CartAPI) CloseCart(c *gin.Context) {
	svc, ok := api.open(c)
	if !ok {
		return
	}
	svc.CloseCart()
	c.JSON(http.StatusOK, carthttpmapper.FromDomainSnapshot(svc.Snapshot()))
}

// Delete /api/cart/session
// Ends the session and forgets its cart
func (api *CartAPI) EndSession(c *gin.Context) {
	if err := api.sessions.Forget(c.Request.Context(), SessionID(c)); err != nil {
		cartResponder.RespondError(c, err)
		return
	}
	clearSessionCookie(c, api.cookie.CookieName, api.cookie.CookieSecure)
	c.Status(http.StatusNoContent)
}

func (api *CartAPI) open(c *gin.Context) (cartports.Service, bool) {
	svc, err := api.sessions.Open(c.Request.Context(), SessionID(c))
	if err != nil {
		respondCartError(c, err, carthttpmapper.Snapshot{State: string(cartdomain.StateEmpty)})
		return nil, false
	}
	return svc, true
}

func (api *CartAPI) respondMutation(c *gin.Context, svc cartports.Service, err error) {
	snapshot := carthttpmapper.FromDomainSnapshot(svc.Snapshot())
	if err != nil {
		respondCartError(c, err, snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
