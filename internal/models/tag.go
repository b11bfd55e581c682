package models

// Reserved tag dimension whose values drive export category grouping.
const TagDimensionCategory = "category"

// Tag is owned by the CRUD layer; the exporter only joins it to derive each
// tool's category bucket.
type Tag struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Slug      string `gorm:"type:varchar(120);uniqueIndex;not null"`
	Label     string `gorm:"type:varchar(120);not null"`
	Dimension string `gorm:"type:varchar(40);not null;index"`
}

func (Tag) TableName() string {
	return "tags"
}
