package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema of the cart persistence adapters.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cartSessionRecord{},
	)
}

// Cart session schema mirrors the cart id Postgres adapter.
type cartSessionRecord struct {
	SessionID string     `gorm:"primaryKey;column:session_id;size:128"`
	Key       string     `gorm:"primaryKey;column:slot_key;size:64"`
	CartID    string     `gorm:"column:cart_id;size:512"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (cartSessionRecord) TableName() string { return "cart_sessions" }
