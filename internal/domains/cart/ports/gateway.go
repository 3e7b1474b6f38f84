package ports

import (
	"context"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// Gateway issues typed cart requests against the remote storefront.
// Every successful mutation returns the complete cart.
type Gateway interface {
	CreateCart(ctx context.Context, variantID string, quantity int) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, variantID string, quantity int) (*domain.Cart, error)
	UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error)
	// FetchCart reports found=false for a cart that no longer exists; err is reserved for transport failures.
	FetchCart(ctx context.Context, cartID string) (cart *domain.Cart, found bool, err error)
}
