package models

import "time"

// Project is a named bucket that sessions are recorded against.
type Project struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	// NameKey is Name case-folded; uniqueness is enforced on it.
	NameKey     string     `gorm:"size:800;not null;default:''" json:"-"`
	Description *string    `gorm:"size:1000" json:"description"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// ProjectSummary is a Project with its read-time rollups.
type ProjectSummary struct {
	Project
	TotalSessions int64 `json:"totalSessions"`
	TotalHours    int64 `json:"totalHours"`
}
