package models

type ToolTag struct {
	ToolID uint64 `gorm:"primaryKey"`
	TagID  uint64 `gorm:"primaryKey"`
}

func (ToolTag) TableName() string {
	return "tool_tags"
}
