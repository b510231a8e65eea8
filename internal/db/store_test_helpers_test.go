package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tempo/internal/clock"
	"github.com/balkashynov/tempo/internal/models"
)

var utc8 = time.FixedZone("UTC+08:00", 8*3600)

// openTestStore opens a store on a fresh sqlite file with a manual clock.
func openTestStore(t *testing.T) (*Store, *clock.Manual) {
	t.Helper()

	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, utc8))
	return openStoreAt(t, filepath.Join(t.TempDir(), "tempo.db"), clk), clk
}

// openStoreAt opens the store at path, closing it when the test ends.
func openStoreAt(t *testing.T, path string, clk clock.Clock) *Store {
	t.Helper()

	store, err := Open(path, WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustCreateProject(t *testing.T, s *Store, name string) *models.ProjectSummary {
	t.Helper()

	p, err := s.CreateProject(context.Background(), ProjectRequest{Name: name})
	require.NoError(t, err)
	return p
}

// recordSession starts and ends a session of length d on project id.
func recordSession(t *testing.T, s *Store, clk *clock.Manual, id uint, d time.Duration) *models.Session {
	t.Helper()

	ctx := context.Background()
	started, err := s.StartSession(ctx, id)
	require.NoError(t, err)
	clk.Advance(d)
	ended, err := s.EndSession(ctx, started.ID)
	require.NoError(t, err)
	clk.Advance(time.Minute)
	return ended
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
