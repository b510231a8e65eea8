package models

import "time"

// AverageDuration is the mean length of completed sessions.
type AverageDuration struct {
	AverageDurationSeconds int64 `json:"averageDurationSeconds"`
	TotalCompletedSessions int64 `json:"totalCompletedSessions"`
}

// Statistics aggregates a set of sessions. Duration fields cover completed
// sessions only; the start-time bounds and project count cover every session.
type Statistics struct {
	AverageDurationSeconds int64      `json:"averageDurationSeconds"`
	TotalCompletedSessions int64      `json:"totalCompletedSessions"`
	TotalDurationSeconds   int64      `json:"totalDurationSeconds"`
	LongestSessionSeconds  *int64     `json:"longestSessionSeconds"`
	ShortestSessionSeconds *int64     `json:"shortestSessionSeconds"`
	ActiveSessions         int64      `json:"activeSessions"`
	FirstSessionAt         *time.Time `json:"firstSessionAt"`
	LastSessionAt          *time.Time `json:"lastSessionAt"`
	UniqueProjects         int64      `json:"uniqueProjects"`
}

// ProjectStatistics is Statistics scoped to one project.
type ProjectStatistics struct {
	ProjectID        uint   `json:"projectId"`
	ProjectName      string `json:"projectName"`
	HasActiveSession bool   `json:"hasActiveSession"`
	ActiveSessionID  *uint  `json:"activeSessionId"`
	Statistics
}
