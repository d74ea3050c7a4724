package models

import "time"

// Manager grants elevated group privileges (moderation phrases) to an identity.
// The primary administrator is configuration, never a row here.
type Manager struct {
	TelegramID int64     `gorm:"primaryKey;autoIncrement:false" json:"telegram_id"`
	AddedBy    int64     `gorm:"not null" json:"added_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Manager) TableName() string { return "managers" }
