package models

// SettingsRowID is the fixed key of the singleton settings row.
const SettingsRowID uint = 1

// Setting holds global bot switches. At most one logical row exists (ID = SettingsRowID).
type Setting struct {
	ID             uint `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ModerationMode bool `gorm:"not null;default:false" json:"moderation_mode"`

	Timestamps
}

func (Setting) TableName() string { return "settings" }
