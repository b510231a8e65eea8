package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tempo/internal/clock"
	"github.com/balkashynov/tempo/internal/db"
	"github.com/balkashynov/tempo/internal/logging"
)

type harness struct {
	client *mcp.ClientSession
	clock  *clock.Manual
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	loc := time.FixedZone("UTC+08:00", 8*3600)
	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, loc))
	store, err := db.Open(filepath.Join(t.TempDir(), "tempo.db"),
		db.WithClock(clk),
		db.WithLogger(logging.Discard()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := New(store, "test", logging.Discard())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := srv.mcp.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return &harness{client: session, clock: clk}
}

func (h *harness) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}
	result, err := h.client.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "call %s", name)
	require.NotNil(t, result)
	return result
}

func callOK[T any](t *testing.T, h *harness, name string, args map[string]any) T {
	t.Helper()

	result := h.call(t, name, args)
	require.False(t, result.IsError, "%s failed: %s", name, errorText(result))
	return decodeStructuredContent[T](t, result.StructuredContent)
}

func decodeStructuredContent[T any](t *testing.T, value any) T {
	t.Helper()

	data, err := json.Marshal(value)
	require.NoError(t, err, "marshal structured content")
	var output T
	require.NoError(t, json.Unmarshal(data, &output), "unmarshal structured content")
	return output
}

func errorText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestListToolsRegistersEverything(t *testing.T) {
	h := newHarness(t)

	res, err := h.client.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"project_create", "project_list", "project_update", "project_delete",
		"session_start", "session_end", "session_list", "session_active",
		"stats_average", "stats_global", "stats_project",
	}, names)
}

func TestProjectTools(t *testing.T) {
	h := newHarness(t)

	created := callOK[ProjectResult](t, h, "project_create", map[string]any{"name": " Website ", "description": "site"})
	assert.Equal(t, "Website", created.Name)
	assert.Equal(t, "site", created.Description)
	assert.Equal(t, "2024-03-01T09:00:00+08:00", created.CreatedAt)
	assert.Empty(t, created.UpdatedAt)

	dup := h.call(t, "project_create", map[string]any{"name": "WEBSITE"})
	assert.True(t, dup.IsError)
	assert.Contains(t, errorText(dup), "CONFLICT")

	h.clock.Advance(time.Hour)
	updated := callOK[ProjectResult](t, h, "project_update", map[string]any{"project_id": created.ID, "name": "Docs"})
	assert.Equal(t, "Docs", updated.Name)
	assert.Equal(t, "site", updated.Description)
	assert.Equal(t, "2024-03-01T10:00:00+08:00", updated.UpdatedAt)

	cleared := callOK[ProjectResult](t, h, "project_update", map[string]any{"project_id": created.ID, "name": "Docs", "description": ""})
	assert.Empty(t, cleared.Description)

	unknown := h.call(t, "project_update", map[string]any{"project_id": 999, "name": "Nope"})
	assert.True(t, unknown.IsError)
	assert.Contains(t, errorText(unknown), "NOT_FOUND")

	list := callOK[ProjectListResult](t, h, "project_list", nil)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "Docs", list.Projects[0].Name)

	deleted := callOK[ProjectDeleteResult](t, h, "project_delete", map[string]any{"project_id": created.ID})
	assert.True(t, deleted.Deleted)

	missing := h.call(t, "project_delete", map[string]any{"project_id": created.ID})
	assert.True(t, missing.IsError)
	assert.Contains(t, errorText(missing), "NOT_FOUND")

	empty := callOK[ProjectListResult](t, h, "project_list", nil)
	assert.Empty(t, empty.Projects)
}

func TestSessionTools(t *testing.T) {
	h := newHarness(t)
	a := callOK[ProjectResult](t, h, "project_create", map[string]any{"name": "Alpha"})
	b := callOK[ProjectResult](t, h, "project_create", map[string]any{"name": "Bravo"})

	idle := callOK[SessionActiveResult](t, h, "session_active", nil)
	assert.False(t, idle.Active)

	started := callOK[SessionResult](t, h, "session_start", map[string]any{"project_id": a.ID})
	assert.True(t, started.IsActive)
	assert.Empty(t, started.EndTime)

	blocked := h.call(t, "session_start", map[string]any{"project_id": b.ID})
	assert.True(t, blocked.IsError)
	assert.Contains(t, errorText(blocked), "Alpha")

	h.clock.Advance(42 * time.Second)
	active := callOK[SessionActiveResult](t, h, "session_active", map[string]any{"project_id": a.ID})
	assert.True(t, active.Active)
	assert.Equal(t, started.ID, active.Session.ID)
	assert.Equal(t, int64(42), active.ElapsedSeconds)

	ended := callOK[SessionResult](t, h, "session_end", map[string]any{"session_id": started.ID})
	assert.False(t, ended.IsActive)
	assert.Equal(t, int64(42), ended.DurationSeconds)

	again := h.call(t, "session_end", map[string]any{"session_id": started.ID})
	assert.True(t, again.IsError)
	assert.Contains(t, errorText(again), "CONFLICT")

	list := callOK[SessionListResult](t, h, "session_list", map[string]any{"project_id": a.ID})
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, "2024-03-01T09:00:42+08:00", list.Sessions[0].EndTime)
}

func TestInvalidIDs(t *testing.T) {
	h := newHarness(t)

	for _, tool := range []string{"session_start", "session_list", "stats_project", "project_delete"} {
		res := h.call(t, tool, map[string]any{"project_id": 0})
		assert.True(t, res.IsError, tool)
		assert.Contains(t, errorText(res), "INVALID_ARGUMENT", tool)
	}

	res := h.call(t, "session_end", map[string]any{"session_id": -3})
	assert.True(t, res.IsError)
	assert.Contains(t, errorText(res), "INVALID_ARGUMENT")
}

func TestStatsTools(t *testing.T) {
	h := newHarness(t)

	avg := callOK[StatsAverageResult](t, h, "stats_average", nil)
	assert.Zero(t, avg.AverageDurationSeconds)
	assert.Zero(t, avg.TotalCompletedSessions)

	p := callOK[ProjectResult](t, h, "project_create", map[string]any{"name": "Website"})
	for _, d := range []time.Duration{10 * time.Second, 21 * time.Second} {
		s := callOK[SessionResult](t, h, "session_start", map[string]any{"project_id": p.ID})
		h.clock.Advance(d)
		callOK[SessionResult](t, h, "session_end", map[string]any{"session_id": s.ID})
	}

	avg = callOK[StatsAverageResult](t, h, "stats_average", nil)
	// 31 / 2 = 15.5
	assert.Equal(t, int64(16), avg.AverageDurationSeconds)

	global := callOK[StatisticsResult](t, h, "stats_global", nil)
	assert.Equal(t, int64(31), global.TotalDurationSeconds)
	assert.Equal(t, int64(21), global.LongestSessionSeconds)
	assert.Equal(t, int64(10), global.ShortestSessionSeconds)
	assert.Equal(t, int64(1), global.UniqueProjects)

	scoped := callOK[StatsProjectResult](t, h, "stats_project", map[string]any{"project_id": p.ID})
	assert.Equal(t, "Website", scoped.ProjectName)
	assert.False(t, scoped.HasActiveSession)
	assert.Equal(t, int64(2), scoped.Statistics.TotalCompletedSessions)

	missing := h.call(t, "stats_project", map[string]any{"project_id": 99})
	assert.True(t, missing.IsError)
	assert.Contains(t, errorText(missing), "NOT_FOUND")
}

func TestServeWithoutServer(t *testing.T) {
	var s *Server
	assert.Error(t, s.serveWithTransport(context.Background(), &mcp.StdioTransport{}))
}
