package db

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/balkashynov/tempo/internal/apperr"
	"github.com/balkashynov/tempo/internal/models"
)

const (
	MaxProjectNameLength        = 200
	MaxProjectDescriptionLength = 1000
)

// ProjectRequest holds the data needed to create or update a project
type ProjectRequest struct {
	Name        string
	Description *string
}

// normalize trims input and enforces the length limits.
func (r ProjectRequest) normalize() (string, *string, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return "", nil, apperr.New(apperr.CodeInvalidArgument, "project name is required")
	}
	if utf8.RuneCountInString(name) > MaxProjectNameLength {
		return "", nil, apperr.Newf(apperr.CodeInvalidArgument,
			"project name must be at most %d characters", MaxProjectNameLength)
	}

	if r.Description == nil {
		return name, nil, nil
	}
	desc := strings.TrimSpace(*r.Description)
	if utf8.RuneCountInString(desc) > MaxProjectDescriptionLength {
		return "", nil, apperr.Newf(apperr.CodeInvalidArgument,
			"project description must be at most %d characters", MaxProjectDescriptionLength)
	}
	if desc == "" {
		return name, nil, nil
	}
	return name, &desc, nil
}

// CreateProject creates a new project
func (s *Store) CreateProject(ctx context.Context, req ProjectRequest) (*models.ProjectSummary, error) {
	name, desc, err := req.normalize()
	if err != nil {
		return nil, err
	}

	project := models.Project{
		Name:        name,
		NameKey:     nameKey(name),
		Description: desc,
		CreatedAt:   s.clock.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, name, 0); err != nil {
			return err
		}
		return tx.Create(&project).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nameTaken(name)
		}
		return nil, s.internal(ctx, err, "create project")
	}

	return &models.ProjectSummary{Project: project}, nil
}

// ListProjects returns every project, newest first, with session rollups
func (s *Store) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Find(&projects).Error; err != nil {
		return nil, s.internal(ctx, err, "list projects")
	}
	// Stored times are text carrying their offset, so order by instant here.
	slices.SortStableFunc(projects, func(a, b models.Project) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	rollups, err := s.projectRollups(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]models.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, rollups[p.ID].apply(p))
	}
	return out, nil
}

// GetProject retrieves a project by ID
func (s *Store) GetProject(ctx context.Context, id uint) (*models.ProjectSummary, error) {
	project, err := s.findProject(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, s.internal(ctx, err, "get project")
	}

	rollups, err := s.projectRollups(ctx, &id)
	if err != nil {
		return nil, err
	}

	summary := rollups[id].apply(*project)
	return &summary, nil
}

// UpdateProject renames a project and/or changes its description
func (s *Store) UpdateProject(ctx context.Context, id uint, req ProjectRequest) (*models.ProjectSummary, error) {
	name, desc, err := req.normalize()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := s.findProject(tx, id)
		if err != nil {
			return err
		}
		if err := ensureNameFree(tx, name, id); err != nil {
			return err
		}

		now := s.clock.Now()
		return tx.Model(project).Updates(map[string]any{
			"name":        name,
			"name_key":    nameKey(name),
			"description": desc,
			"updated_at":  now,
		}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nameTaken(name)
		}
		return nil, s.internal(ctx, err, "update project")
	}

	return s.GetProject(ctx, id)
}

// DeleteProject removes a project and every session recorded against it
func (s *Store) DeleteProject(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findProject(tx, id); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return s.internal(ctx, err, "delete project")
	}
	return nil
}

func (s *Store) findProject(tx *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	err := tx.First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Newf(apperr.CodeNotFound, "project #%d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ensureNameFree fails when a project other than exceptID already uses name.
func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	q := tx.Model(&models.Project{}).Where("name_key = ?", nameKey(name))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nameTaken(name)
	}
	return nil
}

// nameKey folds case for every script, not just ASCII.
func nameKey(name string) string {
	return cases.Fold().String(name)
}

func nameTaken(name string) error {
	return apperr.Newf(apperr.CodeConflict, "a project named %q already exists", name)
}

type rollup struct {
	sessions       int64
	closedDuration time.Duration
}

func (r rollup) apply(p models.Project) models.ProjectSummary {
	return models.ProjectSummary{
		Project:       p,
		TotalSessions: r.sessions,
		TotalHours:    roundHours(r.closedDuration),
	}
}

// projectRollups counts sessions and sums closed session time per project.
// A nil projectID covers every project.
func (s *Store) projectRollups(ctx context.Context, projectID *uint) (map[uint]rollup, error) {
	var sessions []models.Session
	q := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Select("project_id", "start_time", "end_time")
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, s.internal(ctx, err, "project rollups")
	}

	out := make(map[uint]rollup)
	for _, sess := range sessions {
		r := out[sess.ProjectID]
		r.sessions++
		if sess.EndTime != nil {
			r.closedDuration += sess.EndTime.Sub(sess.StartTime)
		}
		out[sess.ProjectID] = r
	}
	return out, nil
}
