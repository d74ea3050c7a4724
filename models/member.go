package models

import (
	"strconv"
	"time"
)

// Member is one Telegram identity that has contacted the bot in private.
// Rows are created lazily on first contact and never deleted.
type Member struct {
	TelegramID    int64     `gorm:"primaryKey;autoIncrement:false" json:"telegram_id"`
	Username      *string   `gorm:"size:64" json:"username,omitempty"`
	ReferralCount int       `gorm:"not null;default:0;index" json:"referral_count"`
	ReferredBy    *int64    `gorm:"index" json:"referred_by,omitempty"`
	JoinedAt      time.Time `gorm:"not null" json:"joined_at"`

	Timestamps
}

func (Member) TableName() string { return "members" }

// Handle returns the display handle, falling back to the numeric identity.
func (m *Member) Handle() string {
	if m.Username != nil && *m.Username != "" {
		return *m.Username
	}
	return strconv.FormatInt(m.TelegramID, 10)
}
