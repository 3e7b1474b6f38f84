package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithZeroQuantityPolicy selects what DecrementOrRemove does when a line would reach zero.
func WithZeroQuantityPolicy(policy domain.ZeroQuantityPolicy) Option {
	return func(s *Store) {
		s.policy = policy
	}
}

// Store owns the cart state of one session and serializes every mutation against it.
//
// Mutations are queued: a call arriving while another is in flight waits for the
// slot (or for its own context to end) and then works on the latest snapshot.
// Once admitted, gateway requests run to completion regardless of the caller's
// context so that the snapshot never lags behind a change the storefront applied.
type Store struct {
	sessionID string
	gateway   ports.Gateway
	ids       ports.CartIDStore
	logger    *slog.Logger
	policy    domain.ZeroQuantityPolicy

	slot chan struct{}

	// guarded by slot
	restored    bool
	persistedID string

	mu      sync.RWMutex
	cart    *domain.Cart
	loading bool
	errMsg  string
	isOpen  bool
	state   domain.State
	closed  bool
}

// NewStore wires a session store. A nil id store disables persistence.
func NewStore(sessionID string, gateway ports.Gateway, ids ports.CartIDStore, opts ...Option) *Store {
	if ids == nil {
		ids = ports.NoopCartIDStore
	}
	s := &Store{
		sessionID: sessionID,
		gateway:   gateway,
		ids:       ids,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy:    domain.ZeroQuantityRemove,
		slot:      make(chan struct{}, 1),
		state:     domain.StateEmpty,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SessionID returns the session this store belongs to.
func (s *Store) SessionID() string { return s.sessionID }

// Restore loads the persisted cart identifier and fetches the remote cart.
// It runs at most once per store. A missing remote cart is not an error; the slot
// is cleared and the store stays empty. Transport failures also leave the store
// empty and clear the slot, and are returned for the caller to log.
func (s *Store) Restore(ctx context.Context) (domain.RestoreOutcome, error) {
	if err := s.acquire(ctx); err != nil {
		return domain.RestoreFailed, err
	}
	defer s.release()
	return s.restoreLocked(ctx)
}

func (s *Store) restoreLocked(ctx context.Context) (domain.RestoreOutcome, error) {
	if s.restored {
		return domain.RestoreSkipped, nil
	}
	s.restored = true
	ctx = context.WithoutCancel(ctx)

	cartID, err := s.ids.Load(ctx, s.sessionID)
	if err != nil {
		return domain.RestoreFailed, fmt.Errorf("load persisted cart id: %w", err)
	}
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return domain.RestoreNoCartID, nil
	}

	s.setState(domain.StateRestoring)
	cart, found, err := s.gateway.FetchCart(ctx, cartID)
	if err == nil && found && cart != nil {
		s.persistedID = cartID
		s.finish(cart, domain.StateReady, "")
		s.persist(ctx, cart.ID)
		return domain.RestoreRestored, nil
	}

	s.finish(nil, domain.StateEmpty, "")
	s.persistedID = ""
	clearErr := s.ids.Clear(ctx, s.sessionID)
	if clearErr != nil {
		clearErr = fmt.Errorf("clear persisted cart id: %w", clearErr)
	}
	if err != nil {
		return domain.RestoreFailed, errors.Join(fmt.Errorf("restore cart %s: %w", cartID, err), clearErr)
	}
	return domain.RestoreNotFound, clearErr
}

// AddItem adds quantity of a variant, creating the remote cart on first use.
func (s *Store) AddItem(ctx context.Context, variantID string, quantity int) error {
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		return s.reject(opAdd, fmt.Errorf("%w: variant id is required", domain.ErrInvalidArgument))
	}
	if quantity <= 0 {
		return s.reject(opAdd, fmt.Errorf("%w: quantity must be a positive integer, got %d", domain.ErrInvalidArgument, quantity))
	}
	return s.mutate(ctx, opAdd, false, func(ctx context.Context, current *domain.Cart) (*domain.Cart, error) {
		if current == nil {
			return s.gateway.CreateCart(ctx, variantID, quantity)
		}
		return s.gateway.AddLine(ctx, current.ID, variantID, quantity)
	})
}

// UpdateQuantity sets the absolute quantity of a line. It is a no-op without a cart.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return s.reject(opUpdate, fmt.Errorf("%w: line id is required", domain.ErrInvalidArgument))
	}
	if quantity < 1 {
		return s.reject(opUpdate, fmt.Errorf("%w: quantity must be at least 1, got %d", domain.ErrInvalidArgument, quantity))
	}
	return s.mutate(ctx, opUpdate, true, func(ctx context.Context, current *domain.Cart) (*domain.Cart, error) {
		return s.gateway.UpdateLine(ctx, current.ID, lineID, quantity)
	})
}

// RemoveItem deletes a line. It is a no-op without a cart.
func (s *Store) RemoveItem(ctx context.Context, lineID string) error {
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return s.reject(opRemove, fmt.Errorf("%w: line id is required", domain.ErrInvalidArgument))
	}
	return s.mutate(ctx, opRemove, true, func(ctx context.Context, current *domain.Cart) (*domain.Cart, error) {
		return s.gateway.RemoveLine(ctx, current.ID, lineID)
	})
}

// DecrementOrRemove applies delta to a line's current quantity. Reaching zero removes
// the line under ZeroQuantityRemove and keeps it at one under ZeroQuantityClamp.
func (s *Store) DecrementOrRemove(ctx context.Context, lineID string, currentQuantity, delta int) error {
	next := currentQuantity + delta
	if next > 0 {
		return s.UpdateQuantity(ctx, lineID, next)
	}
	if s.policy == domain.ZeroQuantityClamp {
		if currentQuantity == 1 {
			return nil
		}
		return s.UpdateQuantity(ctx, lineID, 1)
	}
	return s.RemoveItem(ctx, lineID)
}

// OpenCart shows the sidebar.
func (s *Store) OpenCart() {
	s.mu.Lock()
	s.isOpen = true
	s.mu.Unlock()
}

// CloseCart hides the sidebar.
func (s *Store) CloseCart() {
	s.mu.Lock()
	s.isOpen = false
	s.mu.Unlock()
}

// ItemCount returns the last known total quantity without any I/O.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return 0
	}
	return s.cart.TotalQuantity
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Snapshot{
		Cart:    s.cart.Clone(),
		Loading: s.loading,
		Error:   s.errMsg,
		IsOpen:  s.isOpen,
		State:   s.state,
	}
}

// Close ends the session. In-flight work completes; later mutations fail.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

type mutation func(ctx context.Context, current *domain.Cart) (*domain.Cart, error)

func (s *Store) mutate(ctx context.Context, op operation, requireCart bool, call mutation) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if _, err := s.restoreLocked(ctx); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "cart restoration failed before mutation",
			slog.String("session.id", s.sessionID), slog.String("error", err.Error()))
	}

	s.mu.RLock()
	current := s.cart
	s.mu.RUnlock()
	if requireCart && current == nil {
		return nil
	}

	settled, working := domain.StateReady, domain.StateMutating
	if current == nil {
		settled, working = domain.StateEmpty, domain.StateCreating
	}
	s.begin(working)

	updated, err := call(context.WithoutCancel(ctx), current)
	if err == nil && updated == nil {
		err = fmt.Errorf("%w: response carried no cart", domain.ErrRemoteUnavailable)
	}
	if err != nil {
		s.finish(current, settled, op.failureMessage(err))
		return err
	}
	s.finish(updated, domain.StateReady, "")
	s.persist(ctx, updated.ID)
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		<-s.slot
		return domain.ErrSessionClosed
	}
	return nil
}

func (s *Store) release() { <-s.slot }

func (s *Store) begin(state domain.State) {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.state = state
	s.mu.Unlock()
}

func (s *Store) finish(cart *domain.Cart, state domain.State, errMsg string) {
	s.mu.Lock()
	s.cart = cart
	s.loading = false
	s.errMsg = errMsg
	s.state = state
	s.mu.Unlock()
}

func (s *Store) setState(state domain.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Store) reject(op operation, err error) error {
	s.mu.Lock()
	s.errMsg = op.failureMessage(err)
	s.mu.Unlock()
	return err
}

// persist writes the cart id when it differs from the last value written and
// otherwise refreshes the slot's expiry. A failed write keeps the cart in memory;
// the next replacement retries it.
func (s *Store) persist(ctx context.Context, cartID string) {
	if cartID == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if cartID == s.persistedID {
		if err := s.ids.Touch(ctx, s.sessionID); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to refresh cart id expiry",
				slog.String("session.id", s.sessionID), slog.String("cart.id", cartID), slog.String("error", err.Error()))
		}
		return
	}
	if err := s.ids.Save(ctx, s.sessionID, cartID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist cart id",
			slog.String("session.id", s.sessionID), slog.String("cart.id", cartID), slog.String("error", err.Error()))
		return
	}
	s.persistedID = cartID
}

var _ ports.Service = (*Store)(nil)
