package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral is a directed edge: ReferrerID brought ReferredID into the bot.
// The (referrer, referred) pair is unique, so a replayed join cannot be counted twice.
type Referral struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ReferrerID int64     `gorm:"not null;uniqueIndex:ux_referral_pair,priority:1" json:"referrer_id"`
	ReferredID int64     `gorm:"not null;uniqueIndex:ux_referral_pair,priority:2" json:"referred_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Referral) TableName() string { return "referrals" }

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
