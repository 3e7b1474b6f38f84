package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// DefaultCartIDTTL matches the lifetime the storefront grants an untouched cart.
const DefaultCartIDTTL = 10 * 24 * time.Hour

// CartIDStore persists session cart identifiers in PostgreSQL.
type CartIDStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewCartIDStore wires a PostgreSQL-backed cart id store. Caller owns DB lifecycle.
func NewCartIDStore(db *gorm.DB, ttl time.Duration) *CartIDStore {
	if ttl <= 0 {
		ttl = DefaultCartIDTTL
	}
	return &CartIDStore{db: db, ttl: ttl, now: time.Now}
}

type cartSessionRecord struct {
	SessionID string     `gorm:"primaryKey;column:session_id;size:128"`
	Key       string     `gorm:"primaryKey;column:slot_key;size:64"`
	CartID    string     `gorm:"column:cart_id;size:512"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (cartSessionRecord) TableName() string { return "cart_sessions" }

// Load returns the stored cart id or "" when none is stored or it expired.
func (s *CartIDStore) Load(ctx context.Context, sessionID string) (string, error) {
	if err := s.ensureDB(); err != nil {
		return "", err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", nil
	}
	var rec cartSessionRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND slot_key = ?", sessionID, ports.CartIDKey).
		Where("expires_at IS NULL OR expires_at > ?", s.now()).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.CartID, nil
}

// Save upserts the cart id of a session and pushes its expiry forward.
func (s *CartIDStore) Save(ctx context.Context, sessionID, cartID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	sessionID = strings.TrimSpace(sessionID)
	cartID = strings.TrimSpace(cartID)
	if sessionID == "" || cartID == "" {
		return errors.New("session id and cart id are required")
	}
	now := s.now()
	expiry := now.Add(s.ttl)
	rec := cartSessionRecord{
		SessionID: sessionID,
		Key:       ports.CartIDKey,
		CartID:    cartID,
		ExpiresAt: &expiry,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"cart_id", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Touch pushes the expiry of a live slot forward. Expired slots stay expired.
func (s *CartIDStore) Touch(ctx context.Context, sessionID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	now := s.now()
	return s.db.WithContext(ctx).
		Model(&cartSessionRecord{}).
		Where("session_id = ? AND slot_key = ?", sessionID, ports.CartIDKey).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Updates(map[string]any{"expires_at": now.Add(s.ttl), "updated_at": now}).Error
}

// Clear removes the cart id of a session.
func (s *CartIDStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("session_id = ? AND slot_key = ?", sessionID, ports.CartIDKey).
		Delete(&cartSessionRecord{}).Error
}

// PurgeExpired deletes every expired slot and reports how many went.
func (s *CartIDStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&cartSessionRecord{})
	return res.RowsAffected, res.Error
}

func (s *CartIDStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres cart id store not configured")
	}
	return nil
}

var _ ports.CartIDStore = (*CartIDStore)(nil)
