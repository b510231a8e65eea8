package db

import (
	"context"

	"github.com/balkashynov/tempo/internal/models"
)

// AverageDuration returns the mean duration of every completed session
func (s *Store) AverageDuration(ctx context.Context) (*models.AverageDuration, error) {
	var row struct {
		Total int64
		Count int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Select("COALESCE(SUM(duration_seconds), 0) AS total, COUNT(*) AS count").
		Where("end_time IS NOT NULL").
		Scan(&row).Error
	if err != nil {
		return nil, s.internal(ctx, err, "average duration")
	}

	return &models.AverageDuration{
		AverageDurationSeconds: average(row.Total, row.Count),
		TotalCompletedSessions: row.Count,
	}, nil
}

// GlobalStatistics aggregates the whole session history
func (s *Store) GlobalStatistics(ctx context.Context) (*models.Statistics, error) {
	var sessions []models.Session
	if err := s.db.WithContext(ctx).Find(&sessions).Error; err != nil {
		return nil, s.internal(ctx, err, "global statistics")
	}

	st := summarize(sessions)
	return &st, nil
}

// ProjectStatistics aggregates one project's session history
func (s *Store) ProjectStatistics(ctx context.Context, projectID uint) (*models.ProjectStatistics, error) {
	tx := s.db.WithContext(ctx)
	project, err := s.findProject(tx, projectID)
	if err != nil {
		return nil, s.internal(ctx, err, "project statistics")
	}

	var sessions []models.Session
	if err := tx.Where("project_id = ?", projectID).Find(&sessions).Error; err != nil {
		return nil, s.internal(ctx, err, "project statistics")
	}

	out := &models.ProjectStatistics{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Statistics:  summarize(sessions),
	}
	for i := range sessions {
		if sessions[i].IsActive {
			id := sessions[i].ID
			out.HasActiveSession = true
			out.ActiveSessionID = &id
			break
		}
	}
	return out, nil
}
