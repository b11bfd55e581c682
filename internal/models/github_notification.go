package models

import "time"

const (
	NotificationStatusCreated = "created"
	NotificationStatusError   = "error"
)

// GitHubNotification records the issue-creation side effect for one tool.
// The unique tool_id row doubles as the idempotency token: a row with
// status=created blocks re-notification unless the caller forces it.
type GitHubNotification struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	ToolID uint64 `gorm:"not null;uniqueIndex"`

	IssueURL     *string `gorm:"type:text"`
	IssueNumber  *int    `gorm:""`
	Status       string  `gorm:"type:varchar(20);not null"`
	ErrorMessage *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (GitHubNotification) TableName() string {
	return "github_notifications"
}
