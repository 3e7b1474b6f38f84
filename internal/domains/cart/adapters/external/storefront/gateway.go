package storefront

import (
	"context"
	"errors"
	"fmt"

	storefrontclient "github.com/Apurer/storefront-cart/internal/clients/http/storefront"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// Gateway implements the cart gateway port on top of the Storefront GraphQL client.
// Each call is a single request; nothing is retried.
type Gateway struct {
	client *storefrontclient.Client
}

// NewGateway wires a storefront client into the gateway adapter.
func NewGateway(client *storefrontclient.Client) *Gateway {
	return &Gateway{client: client}
}

// CreateCart creates a remote cart holding one line.
func (g *Gateway) CreateCart(ctx context.Context, variantID string, quantity int) (*domain.Cart, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	payload, err := g.client.CreateCart(ctx, storefrontclient.CartLineInput{MerchandiseID: variantID, Quantity: quantity})
	if err != nil {
		return nil, remoteError("cartCreate", err)
	}
	cart, err := fromPayload("cartCreate", payload)
	if errors.Is(err, domain.ErrCartNotFound) {
		return nil, fmt.Errorf("%w: cartCreate returned no cart", domain.ErrRemoteUnavailable)
	}
	return cart, err
}

// AddLine adds a variant to an existing cart.
func (g *Gateway) AddLine(ctx context.Context, cartID, variantID string, quantity int) (*domain.Cart, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	payload, err := g.client.AddLines(ctx, cartID, storefrontclient.CartLineInput{MerchandiseID: variantID, Quantity: quantity})
	if err != nil {
		return nil, remoteError("cartLinesAdd", err)
	}
	return fromPayload("cartLinesAdd", payload)
}

// UpdateLine sets the absolute quantity of a line.
func (g *Gateway) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	payload, err := g.client.UpdateLines(ctx, cartID, storefrontclient.CartLineUpdateInput{ID: lineID, Quantity: quantity})
	if err != nil {
		return nil, remoteError("cartLinesUpdate", err)
	}
	return fromPayload("cartLinesUpdate", payload)
}

// RemoveLine deletes a line.
func (g *Gateway) RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	payload, err := g.client.RemoveLines(ctx, cartID, lineID)
	if err != nil {
		return nil, remoteError("cartLinesRemove", err)
	}
	return fromPayload("cartLinesRemove", payload)
}

// FetchCart reads a cart. found is false when the storefront no longer knows the id.
func (g *Gateway) FetchCart(ctx context.Context, cartID string) (*domain.Cart, bool, error) {
	if err := g.ready(); err != nil {
		return nil, false, err
	}
	wire, err := g.client.Cart(ctx, cartID)
	if err != nil {
		return nil, false, remoteError("cart", err)
	}
	if wire == nil {
		return nil, false, nil
	}
	cart, err := ToDomainCart(wire)
	if err != nil {
		return nil, false, fmt.Errorf("%w: decode cart: %w", domain.ErrRemoteUnavailable, err)
	}
	return cart, true, nil
}

func (g *Gateway) ready() error {
	if g == nil || g.client == nil {
		return fmt.Errorf("%w: storefront gateway not configured", domain.ErrRemoteUnavailable)
	}
	return nil
}

func fromPayload(field string, payload *storefrontclient.CartPayload) (*domain.Cart, error) {
	if len(payload.UserErrors) > 0 {
		userErrors := ToDomainUserErrors(payload.UserErrors)
		if referencesCartID(userErrors) {
			return nil, fmt.Errorf("%w: %w", domain.ErrCartNotFound, &domain.RejectedError{UserErrors: userErrors})
		}
		return nil, &domain.RejectedError{UserErrors: userErrors}
	}
	if payload.Cart == nil {
		return nil, fmt.Errorf("%w: %s returned no cart", domain.ErrCartNotFound, field)
	}
	cart, err := ToDomainCart(payload.Cart)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s cart: %w", domain.ErrRemoteUnavailable, field, err)
	}
	return cart, nil
}

func referencesCartID(userErrors []domain.UserError) bool {
	for _, ue := range userErrors {
		if n := len(ue.Field); n > 0 && ue.Field[n-1] == "cartId" {
			return true
		}
	}
	return false
}

// remoteError classifies every client failure (transport, status, graphql, decode) as unavailable.
func remoteError(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrRemoteUnavailable, field, err)
}

var _ ports.Gateway = (*Gateway)(nil)
