package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tempo/internal/apperr"
)

type cli struct {
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{dir: t.TempDir()}
}

func (c *cli) exec(args ...string) (string, error) {
	full := append([]string{
		"--config", filepath.Join(c.dir, "config.yml"),
		"--db", filepath.Join(c.dir, "tempo.db"),
		"--utc-offset", "+08:00",
		"--log-level", "error",
	}, args...)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), err
}

func (c *cli) ok(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.exec(args...)
	require.NoError(t, err, "tempo %v", args)
	return out
}

func TestProjectCommands(t *testing.T) {
	c := newCLI(t)

	out := c.ok(t, "project", "add", "Website", "-d", "marketing site")
	assert.Contains(t, out, `New project "Website" added - ID: 1`)

	_, err := c.exec("project", "add", "website")
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	out = c.ok(t, "project", "ls")
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "SESSIONS")

	out = c.ok(t, "project", "edit", "1", "--name", "Docs")
	assert.Contains(t, out, "Updated project #1: Docs")

	out = c.ok(t, "project", "rm", "1")
	assert.Contains(t, out, "Deleted project #1")

	out = c.ok(t, "project", "ls")
	assert.Contains(t, out, "No projects yet")

	_, err = c.exec("project", "rm", "1")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestSessionCommands(t *testing.T) {
	c := newCLI(t)
	c.ok(t, "project", "add", "Alpha")
	c.ok(t, "project", "add", "Bravo")

	out := c.ok(t, "status")
	assert.Contains(t, out, "No active time tracking session")

	out = c.ok(t, "start", "1", "--no-ui")
	assert.Contains(t, out, "Started tracking time for project #1: Alpha")
	assert.Contains(t, out, "+08:00")

	_, err := c.exec("start", "2", "--no-ui")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "Alpha")

	out = c.ok(t, "status")
	assert.Contains(t, out, "Currently tracking: project #1: Alpha")

	out = c.ok(t, "log", "1")
	assert.Contains(t, out, "running")

	out = c.ok(t, "stop")
	assert.Contains(t, out, "Stopped tracking time for project #1: Alpha")

	_, err = c.exec("stop")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = c.exec("stop", "1")
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	out = c.ok(t, "log", "1")
	assert.NotContains(t, out, "running")

	out = c.ok(t, "log", "2")
	assert.Contains(t, out, "No sessions recorded for project #2")
}

func TestStatsCommand(t *testing.T) {
	c := newCLI(t)

	out := c.ok(t, "stats")
	assert.Contains(t, out, "Completed sessions: 0")
	assert.Contains(t, out, "Longest session: -")

	c.ok(t, "project", "add", "Website")
	c.ok(t, "start", "1", "--no-ui")
	c.ok(t, "stop", "1")

	out = c.ok(t, "stats")
	assert.Contains(t, out, "Completed sessions: 1")
	assert.Contains(t, out, "Projects: 1")

	out = c.ok(t, "stats", "--project", "1")
	assert.Contains(t, out, "Project #1: Website")
	assert.NotContains(t, out, "Running session")

	_, err := c.exec("stats", "--project", "9")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestInvalidIDs(t *testing.T) {
	c := newCLI(t)

	for _, arg := range []string{"0", "-1", "abc", "99999999999"} {
		_, err := c.exec("start", "--no-ui", "--", arg)
		require.Error(t, err, arg)
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err), arg)
	}
}

func TestFlagErrorsAreInvalidArgument(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{
		{"start", "-1"},
		{"start", "1", "--bogus"},
		{"stats", "--project"},
	} {
		_, err := c.exec(args...)
		require.Error(t, err, "%v", args)
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err), "%v", args)
	}
}

func TestBadConfigFlag(t *testing.T) {
	c := newCLI(t)
	_, err := c.exec("--utc-offset", "+25:00", "status")
	assert.ErrorContains(t, err, "utc_offset")
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2024-03-01")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"version"}, &stdout, &stdout))
	assert.Equal(t, "tempo 1.2.3 (commit abc123, built 2024-03-01)\n", stdout.String())
}
