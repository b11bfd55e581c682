package models

import "time"

// Badge display classifications produced by the detector.
const (
	BadgeDisplayExplicit = "explicit"
	BadgeDisplayImplicit = "implicit"
	BadgeDisplayNone     = "none"
)

// BadgeDisplayRecord is one row per tool, overwritten on every detection
// cycle. No history is retained.
type BadgeDisplayRecord struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	ToolID uint64 `gorm:"not null;uniqueIndex"`

	DisplayType   string    `gorm:"type:varchar(20);not null"`
	LastCheckedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (BadgeDisplayRecord) TableName() string {
	return "badge_display_records"
}
