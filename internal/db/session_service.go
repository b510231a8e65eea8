package db

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/balkashynov/tempo/internal/apperr"
	"github.com/balkashynov/tempo/internal/models"
)

// StartSession starts a new time tracking session for a project.
//
// The any-project active check runs before the project lookup, so starting
// against a missing project while something else runs reports the conflict.
func (s *Store) StartSession(ctx context.Context, projectID uint) (*models.Session, error) {
	var session models.Session

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNothingRunning(tx, projectID); err != nil {
			return err
		}
		if _, err := s.findProject(tx, projectID); err != nil {
			return err
		}

		now := s.clock.Now()
		session = models.Session{
			ProjectID: projectID,
			StartTime: now,
			IsActive:  true,
			CreatedAt: now,
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race against another start; report what a sequential
			// caller would have seen.
			if cerr := ensureNothingRunning(s.db.WithContext(ctx), projectID); cerr != nil {
				return nil, cerr
			}
		}
		return nil, s.internal(ctx, err, "start session")
	}

	return &session, nil
}

// EndSession stops an active session and records its duration
func (s *Store) EndSession(ctx context.Context, sessionID uint) (*models.Session, error) {
	var session models.Session

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.CodeNotFound, "session #%d not found", sessionID)
			}
			return err
		}
		if !session.IsActive {
			return alreadyEnded(sessionID)
		}

		end := s.clock.Now()
		if end.Before(session.StartTime) {
			// clock went backwards; never record a negative duration
			end = session.StartTime
		}
		duration := roundSeconds(end.Sub(session.StartTime))

		res := tx.Model(&models.Session{}).
			Where("id = ? AND is_active = ?", sessionID, true).
			Updates(map[string]any{
				"end_time":         end,
				"duration_seconds": duration,
				"is_active":        false,
				"is_auto_stopped":  false,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return alreadyEnded(sessionID)
		}

		session.EndTime = &end
		session.DurationSeconds = &duration
		session.IsActive = false
		session.IsAutoStopped = false
		return nil
	})
	if err != nil {
		return nil, s.internal(ctx, err, "end session")
	}

	return &session, nil
}

// ListSessions returns a project's sessions, most recent start first
func (s *Store) ListSessions(ctx context.Context, projectID uint) ([]models.Session, error) {
	tx := s.db.WithContext(ctx)
	if _, err := s.findProject(tx, projectID); err != nil {
		return nil, s.internal(ctx, err, "list sessions")
	}

	sessions := []models.Session{}
	if err := tx.Where("project_id = ?", projectID).Find(&sessions).Error; err != nil {
		return nil, s.internal(ctx, err, "list sessions")
	}
	// Stored times are text carrying their offset, so order by instant here.
	slices.SortStableFunc(sessions, func(a, b models.Session) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return sessions, nil
}

// GetActiveSessionForProject returns the project's running session, if any
func (s *Store) GetActiveSessionForProject(ctx context.Context, projectID uint) (*models.ActiveSession, error) {
	tx := s.db.WithContext(ctx)
	if _, err := s.findProject(tx, projectID); err != nil {
		return nil, s.internal(ctx, err, "get active session")
	}

	active, err := findActive(tx.Where("project_id = ?", projectID))
	if err != nil {
		return nil, s.internal(ctx, err, "get active session")
	}
	return s.activeView(active), nil
}

// GetActiveSession returns the currently active session, if any
func (s *Store) GetActiveSession(ctx context.Context) (*models.ActiveSession, error) {
	active, err := findActive(s.db.WithContext(ctx))
	if err != nil {
		return nil, s.internal(ctx, err, "get active session")
	}
	return s.activeView(active), nil
}

func (s *Store) activeView(session *models.Session) *models.ActiveSession {
	if session == nil {
		return &models.ActiveSession{}
	}
	elapsed := roundSeconds(s.clock.Now().Sub(session.StartTime))
	if elapsed < 0 {
		elapsed = 0
	}
	return &models.ActiveSession{
		Active:         true,
		Session:        session,
		ElapsedSeconds: elapsed,
	}
}

// findActive returns the single active session matching tx's conditions, or
// nil. No active session is not an error.
func findActive(tx *gorm.DB) (*models.Session, error) {
	var sessions []models.Session
	err := tx.Preload("Project").
		Where("is_active = ?", true).
		Limit(1).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// ensureNothingRunning fails with Conflict when any session is active.
func ensureNothingRunning(tx *gorm.DB, projectID uint) error {
	active, err := findActive(tx)
	if err != nil {
		return err
	}
	if active == nil {
		return nil
	}

	if active.ProjectID == projectID {
		return apperr.Newf(apperr.CodeConflict,
			"project #%d already has an active session (#%d)", projectID, active.ID)
	}

	running := fmt.Sprintf("#%d", active.ProjectID)
	if active.Project != nil {
		running = fmt.Sprintf("%q (#%d)", active.Project.Name, active.ProjectID)
	}
	return apperr.Newf(apperr.CodeConflict,
		"project %s already has an active session (#%d); only one project's session may run at a time",
		running, active.ID)
}

func alreadyEnded(sessionID uint) error {
	return apperr.Newf(apperr.CodeConflict, "session #%d has already ended", sessionID)
}
