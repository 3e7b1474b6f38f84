package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// CartIDStore keeps cart identifiers in process memory. Ids are lost on restart.
type CartIDStore struct {
	ids sync.Map
}

func NewCartIDStore() *CartIDStore {
	return &CartIDStore{}
}

func (s *CartIDStore) Load(_ context.Context, sessionID string) (string, error) {
	v, ok := s.ids.Load(strings.TrimSpace(sessionID))
	if !ok {
		return "", nil
	}
	return v.(string), nil
}

func (s *CartIDStore) Save(_ context.Context, sessionID, cartID string) error {
	s.ids.Store(strings.TrimSpace(sessionID), cartID)
	return nil
}

// Touch is a no-op; memory slots never expire.
func (s *CartIDStore) Touch(_ context.Context, _ string) error { return nil }

func (s *CartIDStore) Clear(_ context.Context, sessionID string) error {
	s.ids.Delete(strings.TrimSpace(sessionID))
	return nil
}

var _ ports.CartIDStore = (*CartIDStore)(nil)
