package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ExportTriggerManual = "manual"
	ExportTriggerCron   = "cron"

	ExportStatusSuccess = "success"
	ExportStatusError   = "error"
)

// ExportAttempt is an append-only audit row, one per export invocation
// whether it succeeded or not.
type ExportAttempt struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	ExportedAt    time.Time      `gorm:"type:timestamptz;not null;index"`
	ToolCount     int            `gorm:"not null"`
	FilesUpdated  datatypes.JSON `gorm:"type:jsonb;not null"`
	TriggerSource string         `gorm:"type:varchar(20);not null"`
	Status        string         `gorm:"type:varchar(20);not null"`
	ErrorMessage  *string        `gorm:"type:text"`
}

func (ExportAttempt) TableName() string {
	return "export_attempts"
}
