package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardRecord marks that the one-time reward announcement already fired for a referrer.
// It is an idempotency guard, not a ledger: at most one row per identity, never updated.
type RewardRecord struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TelegramID int64     `gorm:"not null;uniqueIndex" json:"telegram_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RewardRecord) TableName() string { return "rewards" }

func (r *RewardRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
