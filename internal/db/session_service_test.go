package db

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tempo/internal/apperr"
	"github.com/balkashynov/tempo/internal/clock"
	"github.com/balkashynov/tempo/internal/models"
)

func countActive(t *testing.T, s *Store) int64 {
	t.Helper()

	var n int64
	require.NoError(t, s.db.Model(&models.Session{}).Where("is_active = ?", true).Count(&n).Error)
	return n
}

func TestStartSession(t *testing.T) {
	s, clk := openTestStore(t)
	p := mustCreateProject(t, s, "Website")

	sess, err := s.StartSession(context.Background(), p.ID)
	require.NoError(t, err)

	assert.NotZero(t, sess.ID)
	assert.Equal(t, p.ID, sess.ProjectID)
	assert.True(t, sess.IsActive)
	assert.False(t, sess.IsAutoStopped)
	assert.Nil(t, sess.EndTime)
	assert.Nil(t, sess.DurationSeconds)
	assert.True(t, sess.StartTime.Equal(clk.Now()))

	_, offset := sess.StartTime.Zone()
	assert.Equal(t, 8*3600, offset)
}

func TestStartSessionSameProjectConflict(t *testing.T) {
	s, _ := openTestStore(t)
	p := mustCreateProject(t, s, "Website")

	_, err := s.StartSession(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = s.StartSession(context.Background(), p.ID)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "already has an active session")
	assert.Equal(t, int64(1), countActive(t, s))
}

func TestStartSessionOtherProjectConflictNamesRunningProject(t *testing.T) {
	s, _ := openTestStore(t)
	a := mustCreateProject(t, s, "Alpha")
	b := mustCreateProject(t, s, "Bravo")

	_, err := s.StartSession(context.Background(), a.ID)
	require.NoError(t, err)

	_, err = s.StartSession(context.Background(), b.ID)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), `"Alpha"`)
	assert.NotContains(t, err.Error(), "Bravo")
	assert.Contains(t, err.Error(), "only one project's session may run at a time")
	assert.Equal(t, int64(1), countActive(t, s))
}

func TestStartSessionMissingProject(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.StartSession(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStartSessionActiveCheckPrecedesProjectLookup(t *testing.T) {
	s, _ := openTestStore(t)
	p := mustCreateProject(t, s, "Website")

	_, err := s.StartSession(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = s.StartSession(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestEndSession(t *testing.T) {
	s, clk := openTestStore(t)
	p := mustCreateProject(t, s, "Website")

	started, err := s.StartSession(context.Background(), p.ID)
	require.NoError(t, err)

	clk.Advance(25*time.Minute + 1600*time.Millisecond)
	ended, err := s.EndSession(context.Background(), started.ID)
	require.NoError(t, err)

	assert.False(t, ended.IsActive)
	assert.False(t, ended.IsAutoStopped)
	require.NotNil(t, ended.EndTime)
	assert.True(t, ended.EndTime.Equal(clk.Now()))
	require.NotNil(t, ended.DurationSeconds)
	assert.Equal(t, int64(25*60+2), *ended.DurationSeconds)

	sessions, err := s.ListSessions(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, *ended.DurationSeconds, *sessions[0].DurationSeconds)
	assert.True(t, sessions[0].EndTime.Equal(*ended.EndTime))
}

func TestEndSessionTwice(t *testing.T) {
	s, clk := openTestStore(t)
	p := mustCreateProject(t, s, "Website")
	first := recordSession(t, s, clk, p.ID, 10*time.Minute)

	clk.Advance(time.Hour)
	_, err := s.EndSession(context.Background(), first.ID)
	require.ErrorIs(t, err, apperr.ErrConflict)

	sessions, err := s.ListSessions(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].EndTime.Equal(*first.EndTime))
	assert.Equal(t, int64(600), *sessions[0].DurationSeconds)
}

func TestEndSessionNotFound(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.EndSession(context.Background(), 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEndSessionClockWentBackwards(t *testing.T) {
	s, clk := openTestStore(t)
	p := mustCreateProject(t, s, "Website")

	started, err := s.StartSession(context.Background(), p.ID)
	require.NoError(t, err)

	clk.Advance(-time.Minute)
	ended, err := s.EndSession(context.Background(), started.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), *ended.DurationSeconds)
	assert.True(t, ended.EndTime.Equal(started.StartTime))
}

func TestListSessionsNewestFirst(t *testing.T) {
	s, clk := openTestStore(t)
	p := mustCreateProject(t, s, "Website")
	other := mustCreateProject(t, s, "Other")

	first := recordSession(t, s, clk, p.ID, time.Minute)
	recordSession(t, s, clk, other.ID, time.Minute)
	second := recordSession(t, s, clk, p.ID, time.Minute)

	sessions, err := s.ListSessions(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)

	_, err = s.ListSessions(context.Background(), 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListSessionsOrdersByInstantAcrossOffsets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo.db")

	// 10:00+08:00 is 02:00Z
	eastClock := clock.NewManual(time.Date(2024, 3, 1, 10, 0, 0, 0, utc8))
	east := openStoreAt(t, path, eastClock)
	p := mustCreateProject(t, east, "Website")
	earlier := recordSession(t, east, eastClock, p.ID, 10*time.Minute)
	require.NoError(t, east.Close())

	// 03:00Z starts later, though "03:00" sorts before "10:00" as text
	utcClock := clock.NewManual(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC))
	utc := openStoreAt(t, path, utcClock)
	later := recordSession(t, utc, utcClock, p.ID, 10*time.Minute)

	sessions, err := utc.ListSessions(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, later.ID, sessions[0].ID)
	assert.Equal(t, earlier.ID, sessions[1].ID)
	assert.True(t, sessions[0].StartTime.After(sessions[1].StartTime))
}

func TestListSessionsEmptyIsNotNil(t *testing.T) {
	s, _ := openTestStore(t)
	p := mustCreateProject(t, s, "Website")

	sessions, err := s.ListSessions(context.Background(), p.ID)
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestGetActiveSession(t *testing.T) {
	s, clk := openTestStore(t)
	a := mustCreateProject(t, s, "Alpha")
	b := mustCreateProject(t, s, "Bravo")

	none, err := s.GetActiveSession(context.Background())
	require.NoError(t, err)
	assert.False(t, none.Active)
	assert.Nil(t, none.Session)

	started, err := s.StartSession(context.Background(), a.ID)
	require.NoError(t, err)
	clk.Advance(95 * time.Second)

	current, err := s.GetActiveSession(context.Background())
	require.NoError(t, err)
	require.True(t, current.Active)
	assert.Equal(t, started.ID, current.Session.ID)
	assert.Equal(t, int64(95), current.ElapsedSeconds)

	forA, err := s.GetActiveSessionForProject(context.Background(), a.ID)
	require.NoError(t, err)
	require.True(t, forA.Active)
	assert.Equal(t, started.ID, forA.Session.ID)

	forB, err := s.GetActiveSessionForProject(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, forB.Active)
	assert.Zero(t, forB.ElapsedSeconds)

	_, err = s.GetActiveSessionForProject(context.Background(), 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSingleActiveIndexRejectsSecondActiveRow(t *testing.T) {
	s, clk := openTestStore(t)
	p := mustCreateProject(t, s, "Website")

	_, err := s.StartSession(context.Background(), p.ID)
	require.NoError(t, err)

	err = s.db.Create(&models.Session{
		ProjectID: p.ID,
		StartTime: clk.Now(),
		IsActive:  true,
		CreatedAt: clk.Now(),
	}).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}

func TestConcurrentStartsOnlyOneWins(t *testing.T) {
	s, _ := openTestStore(t)

	const workers = 8
	ids := make([]uint, workers)
	for i := range ids {
		ids[i] = mustCreateProject(t, s, "Project "+string(rune('A'+i))).ID
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := s.StartSession(context.Background(), id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperr.CodeOf(err) == apperr.CodeConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, int64(1), countActive(t, s))
}

func TestStartEndSequenceKeepsAtMostOneActive(t *testing.T) {
	s, clk := openTestStore(t)
	a := mustCreateProject(t, s, "Alpha")
	b := mustCreateProject(t, s, "Bravo")
	ctx := context.Background()

	var running *models.Session
	for i, id := range []uint{a.ID, b.ID, a.ID, a.ID, b.ID, b.ID} {
		sess, err := s.StartSession(ctx, id)
		if running != nil {
			require.ErrorIs(t, err, apperr.ErrConflict, "step %d", i)
			_, err = s.EndSession(ctx, running.ID)
			require.NoError(t, err)
			running = nil
		} else {
			require.NoError(t, err, "step %d", i)
			running = sess
		}
		clk.Advance(time.Minute)
		assert.LessOrEqual(t, countActive(t, s), int64(1))
	}
}
