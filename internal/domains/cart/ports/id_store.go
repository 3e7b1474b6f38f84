package ports

import "context"

// CartIDKey names the single persisted slot per session.
const CartIDKey = "shopify_cart_id"

// CartIDStore persists the cart identifier of a session between requests.
type CartIDStore interface {
	// Load returns the stored identifier, or "" when nothing is stored.
	Load(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, cartID string) error
	// Touch pushes the expiry of a stored identifier forward. It is a no-op when
	// nothing is stored.
	Touch(ctx context.Context, sessionID string) error
	Clear(ctx context.Context, sessionID string) error
}

// NoopCartIDStore forgets everything; carts then live only as long as the session store.
var NoopCartIDStore CartIDStore = noopCartIDStore{}

type noopCartIDStore struct{}

func (noopCartIDStore) Load(_ context.Context, _ string) (string, error) { return "", nil }
func (noopCartIDStore) Save(_ context.Context, _, _ string) error        { return nil }
func (noopCartIDStore) Touch(_ context.Context, _ string) error          { return nil }
func (noopCartIDStore) Clear(_ context.Context, _ string) error          { return nil }
