package models

import "time"

// Session represents a time tracking session
type Session struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	ProjectID       uint       `gorm:"not null;index:idx_sessions_project_id;index:idx_sessions_project_active,priority:1" json:"projectId"`
	StartTime       time.Time  `gorm:"not null;index:idx_sessions_start_time" json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationSeconds *int64     `json:"durationSeconds"`
	IsActive        bool       `gorm:"not null;index:idx_sessions_is_active;index:idx_sessions_project_active,priority:2" json:"isActive"`
	// IsAutoStopped is reserved for idle detection and is never set today.
	IsAutoStopped bool      `gorm:"not null" json:"isAutoStopped"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`

	// Relationships
	Project *Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Completed reports whether the session has ended.
func (s *Session) Completed() bool {
	return s.EndTime != nil
}

// ActiveSession is the answer to "what is running right now".
type ActiveSession struct {
	Active         bool     `json:"active"`
	Session        *Session `json:"session"`
	ElapsedSeconds int64    `json:"elapsedSeconds"`
}
