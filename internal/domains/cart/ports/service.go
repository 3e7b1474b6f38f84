package ports

import (
	"context"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// Service is the per-session cart store exposed to the HTTP layer (inbound/driving port).
type Service interface {
	Restore(ctx context.Context) (domain.RestoreOutcome, error)
	AddItem(ctx context.Context, variantID string, quantity int) error
	UpdateQuantity(ctx context.Context, lineID string, quantity int) error
	RemoveItem(ctx context.Context, lineID string) error
	DecrementOrRemove(ctx context.Context, lineID string, currentQuantity, delta int) error
	OpenCart()
	CloseCart()
	ItemCount() int
	Snapshot() domain.Snapshot
	Close()
}
