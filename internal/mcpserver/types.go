package mcpserver

import (
	"time"

	"github.com/balkashynov/tempo/internal/models"
)

// ProjectResult is a project as returned by tools.
type ProjectResult struct {
	ID            uint   `json:"id" jsonschema:"project identifier"`
	Name          string `json:"name" jsonschema:"project name"`
	Description   string `json:"description,omitempty" jsonschema:"optional project description"`
	CreatedAt     string `json:"created_at" jsonschema:"RFC3339 timestamp when the project was created"`
	UpdatedAt     string `json:"updated_at,omitempty" jsonschema:"RFC3339 timestamp of the last update, if any"`
	TotalSessions int64  `json:"total_sessions" jsonschema:"number of sessions recorded against the project"`
	TotalHours    int64  `json:"total_hours" jsonschema:"completed session time rounded to whole hours"`
}

// SessionResult is a session as returned by tools.
type SessionResult struct {
	ID              uint   `json:"id" jsonschema:"session identifier"`
	ProjectID       uint   `json:"project_id" jsonschema:"project the session belongs to"`
	StartTime       string `json:"start_time" jsonschema:"RFC3339 timestamp when the session started"`
	EndTime         string `json:"end_time,omitempty" jsonschema:"RFC3339 timestamp when the session ended, if it has"`
	DurationSeconds int64  `json:"duration_seconds" jsonschema:"recorded length in whole seconds; 0 while active"`
	IsActive        bool   `json:"is_active" jsonschema:"true until the session is ended"`
	IsAutoStopped   bool   `json:"is_auto_stopped" jsonschema:"true if the session was ended by idle detection"`
}

// StatisticsResult aggregates a set of sessions.
type StatisticsResult struct {
	AverageDurationSeconds int64  `json:"average_duration_seconds"`
	TotalCompletedSessions int64  `json:"total_completed_sessions"`
	TotalDurationSeconds   int64  `json:"total_duration_seconds"`
	LongestSessionSeconds  int64  `json:"longest_session_seconds,omitempty" jsonschema:"omitted when nothing has completed"`
	ShortestSessionSeconds int64  `json:"shortest_session_seconds,omitempty" jsonschema:"omitted when nothing has completed"`
	ActiveSessions         int64  `json:"active_sessions"`
	FirstSessionAt         string `json:"first_session_at,omitempty"`
	LastSessionAt          string `json:"last_session_at,omitempty"`
	UniqueProjects         int64  `json:"unique_projects"`
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func projectResult(p *models.ProjectSummary) ProjectResult {
	out := ProjectResult{
		ID:            p.ID,
		Name:          p.Name,
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTimePtr(p.UpdatedAt),
		TotalSessions: p.TotalSessions,
		TotalHours:    p.TotalHours,
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	return out
}

func sessionResult(s *models.Session) SessionResult {
	return SessionResult{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		StartTime:       formatTime(s.StartTime),
		EndTime:         formatTimePtr(s.EndTime),
		DurationSeconds: derefInt64(s.DurationSeconds),
		IsActive:        s.IsActive,
		IsAutoStopped:   s.IsAutoStopped,
	}
}

func statisticsResult(st models.Statistics) StatisticsResult {
	return StatisticsResult{
		AverageDurationSeconds: st.AverageDurationSeconds,
		TotalCompletedSessions: st.TotalCompletedSessions,
		TotalDurationSeconds:   st.TotalDurationSeconds,
		LongestSessionSeconds:  derefInt64(st.LongestSessionSeconds),
		ShortestSessionSeconds: derefInt64(st.ShortestSessionSeconds),
		ActiveSessions:         st.ActiveSessions,
		FirstSessionAt:         formatTimePtr(st.FirstSessionAt),
		LastSessionAt:          formatTimePtr(st.LastSessionAt),
		UniqueProjects:         st.UniqueProjects,
	}
}
