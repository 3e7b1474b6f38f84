package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// DefaultIdleTTL bounds how long an untouched session store stays in memory.
const DefaultIdleTTL = 30 * time.Minute

// Decorator wraps a freshly created session store, e.g. with tracing.
type Decorator func(sessionID string, svc ports.Service) ports.Service

// SessionsOption configures the session registry.
type SessionsOption func(*Sessions)

// WithIdleTTL sets the idle period after which Sweep ends a session.
func WithIdleTTL(ttl time.Duration) SessionsOption {
	return func(s *Sessions) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreOptions passes options to every Store the registry creates.
func WithStoreOptions(opts ...Option) SessionsOption {
	return func(s *Sessions) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// WithDecorator wraps each new session store.
func WithDecorator(decorate Decorator) SessionsOption {
	return func(s *Sessions) {
		s.decorate = decorate
	}
}

// WithRegistryLogger sets the logger used for lifecycle events.
func WithRegistryLogger(logger *slog.Logger) SessionsOption {
	return func(s *Sessions) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Sessions owns one Store per browser session: created and restored on first use,
// torn down when the session ends or goes idle.
type Sessions struct {
	gateway   ports.Gateway
	ids       ports.CartIDStore
	storeOpts []Option
	decorate  Decorator
	idleTTL   time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	service  ports.Service
	lastSeen time.Time
}

// NewSessions wires the registry with the shared gateway and cart id store.
func NewSessions(gateway ports.Gateway, ids ports.CartIDStore, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		gateway: gateway,
		ids:     ids,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		entries: map[string]*sessionEntry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open returns the store of a session, creating and restoring it on first use.
func (s *Sessions) Open(ctx context.Context, sessionID string) (ports.Service, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	if entry, ok := s.entries[sessionID]; ok {
		entry.lastSeen = s.now()
		s.mu.Unlock()
		return entry.service, nil
	}
	var svc ports.Service = NewStore(sessionID, s.gateway, s.ids, s.storeOpts...)
	if s.decorate != nil {
		svc = s.decorate(sessionID, svc)
	}
	s.entries[sessionID] = &sessionEntry{service: svc, lastSeen: s.now()}
	s.mu.Unlock()

	if _, err := svc.Restore(ctx); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "cart session started empty",
			slog.String("session.id", sessionID), slog.String("error", err.Error()))
	}
	return svc, nil
}

// End tears down a session store. The persisted cart id is kept.
func (s *Sessions) End(sessionID string) bool {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	delete(s.entries, sessionID)
	s.mu.Unlock()
	if ok {
		entry.service.Close()
	}
	return ok
}

// Forget ends the session and clears its persisted cart id.
func (s *Sessions) Forget(ctx context.Context, sessionID string) error {
	s.End(sessionID)
	if s.ids == nil {
		return nil
	}
	if err := s.ids.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear persisted cart id: %w", err)
	}
	return nil
}

// Sweep ends every session idle for longer than the TTL and returns how many ended.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)
	var expired []ports.Service
	s.mu.Lock()
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry.service)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()
	for _, svc := range expired {
		svc.Close()
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.LogAttrs(ctx, slog.LevelInfo, "idle cart sessions ended", slog.Int("count", n))
			}
		}
	}
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// CloseAll ends every session, used on shutdown.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = map[string]*sessionEntry{}
	s.mu.Unlock()
	for _, entry := range entries {
		entry.service.Close()
	}
}
