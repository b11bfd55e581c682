package models

import "time"

// Tool statuses as written by the submission/review layer. The monitor only
// ever selects approved tools.
const (
	ToolStatusPending  = "pending"
	ToolStatusApproved = "approved"
	ToolStatusRejected = "rejected"
)

// Tool is the directory entry. Most fields are owned by the CRUD layer; the
// monitor reads identity/url/status and writes archive_url plus the cached
// repository metadata columns.
type Tool struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Slug        string `gorm:"type:varchar(120);uniqueIndex;not null"`
	Name        string `gorm:"type:varchar(200);not null"`
	URL         string `gorm:"type:text;not null"`
	Description string `gorm:"type:text"`
	CoreTask    string `gorm:"type:varchar(200)"`

	Status     string `gorm:"type:varchar(20);not null;index;default:pending"`
	IsFeatured bool   `gorm:"not null;default:false"`

	// Set at most once, when sustained offline probes trigger archival.
	ArchiveURL *string `gorm:"type:text"`

	RepoURL       *string    `gorm:"type:text"`
	RepoStars     *int       `gorm:""`
	RepoForks     *int       `gorm:""`
	RepoLicense   *string    `gorm:"type:varchar(100)"`
	RepoLanguage  *string    `gorm:"type:varchar(50)"`
	RepoFetchedAt *time.Time `gorm:"type:timestamptz;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Tool) TableName() string {
	return "tools"
}
