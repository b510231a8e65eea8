package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatsAverageInput takes no arguments.
type StatsAverageInput struct{}

// StatsGlobalInput takes no arguments.
type StatsGlobalInput struct{}

// StatsAverageResult is the mean length of completed sessions.
type StatsAverageResult struct {
	AverageDurationSeconds int64 `json:"average_duration_seconds" jsonschema:"rounded mean; 0 when nothing has completed"`
	TotalCompletedSessions int64 `json:"total_completed_sessions"`
}

// StatsProjectInput represents the MCP tool input for project statistics.
type StatsProjectInput struct {
	ProjectID int64 `json:"project_id" jsonschema:"project identifier"`
}

// StatsProjectResult is StatisticsResult scoped to one project.
type StatsProjectResult struct {
	ProjectID        uint             `json:"project_id"`
	ProjectName      string           `json:"project_name"`
	HasActiveSession bool             `json:"has_active_session"`
	ActiveSessionID  uint             `json:"active_session_id,omitempty" jsonschema:"omitted when nothing is running"`
	Statistics       StatisticsResult `json:"statistics"`
}

// StatsAverageTool defines the MCP tool schema for the average duration.
func StatsAverageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stats_average",
		Description: "Returns the mean duration of completed sessions.",
	}
}

// StatsAverageHandler executes an average duration request.
func (s *Server) StatsAverageHandler() mcp.ToolHandlerFor[StatsAverageInput, StatsAverageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ StatsAverageInput) (*mcp.CallToolResult, StatsAverageResult, error) {
		avg, err := s.tracker.AverageDuration(ctx)
		if err != nil {
			return nil, StatsAverageResult{}, s.toolError(ctx, "stats_average", err)
		}
		return nil, StatsAverageResult{
			AverageDurationSeconds: avg.AverageDurationSeconds,
			TotalCompletedSessions: avg.TotalCompletedSessions,
		}, nil
	}
}

// StatsGlobalTool defines the MCP tool schema for global statistics.
func StatsGlobalTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stats_global",
		Description: "Aggregates every recorded session.",
	}
}

// StatsGlobalHandler executes a global statistics request.
func (s *Server) StatsGlobalHandler() mcp.ToolHandlerFor[StatsGlobalInput, StatisticsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ StatsGlobalInput) (*mcp.CallToolResult, StatisticsResult, error) {
		st, err := s.tracker.GlobalStatistics(ctx)
		if err != nil {
			return nil, StatisticsResult{}, s.toolError(ctx, "stats_global", err)
		}
		return nil, statisticsResult(*st), nil
	}
}

// StatsProjectTool defines the MCP tool schema for project statistics.
func StatsProjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stats_project",
		Description: "Aggregates one project's sessions.",
	}
}

// StatsProjectHandler executes a project statistics request.
func (s *Server) StatsProjectHandler() mcp.ToolHandlerFor[StatsProjectInput, StatsProjectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StatsProjectInput) (*mcp.CallToolResult, StatsProjectResult, error) {
		id, err := positiveID("project_id", input.ProjectID)
		if err != nil {
			return nil, StatsProjectResult{}, err
		}

		st, err := s.tracker.ProjectStatistics(ctx, id)
		if err != nil {
			return nil, StatsProjectResult{}, s.toolError(ctx, "stats_project", err)
		}

		out := StatsProjectResult{
			ProjectID:        st.ProjectID,
			ProjectName:      st.ProjectName,
			HasActiveSession: st.HasActiveSession,
			Statistics:       statisticsResult(st.Statistics),
		}
		if st.ActiveSessionID != nil {
			out.ActiveSessionID = *st.ActiveSessionID
		}
		return nil, out, nil
	}
}
