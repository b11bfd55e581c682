package models

import "time"

// HealthCheckRecord is one immutable probe outcome. Rows are append-only and
// garbage-collected after the retention window; the resolver only ever looks
// at the few most recent rows per tool.
type HealthCheckRecord struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	ToolID uint64 `gorm:"not null;index:idx_health_tool_checked,priority:1"`

	CheckedAt      time.Time `gorm:"type:timestamptz;not null;index:idx_health_tool_checked,priority:2,sort:desc"`
	IsOnline       bool      `gorm:"not null"`
	HTTPStatus     *int      `gorm:""`
	ResponseTimeMs *int      `gorm:""`
}

func (HealthCheckRecord) TableName() string {
	return "health_check_records"
}
