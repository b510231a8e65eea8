package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/balkashynov/tempo/internal/models"
)

// SessionStartInput represents the MCP tool input for starting a session.
type SessionStartInput struct {
	ProjectID int64 `json:"project_id" jsonschema:"project to track time against"`
}

// SessionEndInput represents the MCP tool input for ending a session.
type SessionEndInput struct {
	SessionID int64 `json:"session_id" jsonschema:"session identifier"`
}

// SessionListInput represents the MCP tool input for listing sessions.
type SessionListInput struct {
	ProjectID int64 `json:"project_id" jsonschema:"project identifier"`
}

// SessionListResult wraps a project's sessions.
type SessionListResult struct {
	Sessions []SessionResult `json:"sessions" jsonschema:"sessions, most recent start first"`
}

// SessionActiveInput optionally scopes the active lookup to one project.
type SessionActiveInput struct {
	ProjectID int64 `json:"project_id,omitempty" jsonschema:"optional project identifier; omit for any project"`
}

// SessionActiveResult reports the running session, if any.
type SessionActiveResult struct {
	Active         bool          `json:"active"`
	Session        SessionResult `json:"session" jsonschema:"the running session; zero valued when none is active"`
	ElapsedSeconds int64         `json:"elapsed_seconds"`
}

// SessionStartTool defines the MCP tool schema for starting a session.
func SessionStartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_start",
		Description: "Starts a session for a project. Only one session may be active across all projects.",
	}
}

// SessionStartHandler executes a session start request.
func (s *Server) SessionStartHandler() mcp.ToolHandlerFor[SessionStartInput, SessionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionStartInput) (*mcp.CallToolResult, SessionResult, error) {
		id, err := positiveID("project_id", input.ProjectID)
		if err != nil {
			return nil, SessionResult{}, err
		}

		session, err := s.tracker.StartSession(ctx, id)
		if err != nil {
			return nil, SessionResult{}, s.toolError(ctx, "session_start", err)
		}
		return nil, sessionResult(session), nil
	}
}

// SessionEndTool defines the MCP tool schema for ending a session.
func SessionEndTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_end",
		Description: "Ends an active session and records its duration.",
	}
}

// SessionEndHandler executes a session end request.
func (s *Server) SessionEndHandler() mcp.ToolHandlerFor[SessionEndInput, SessionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionEndInput) (*mcp.CallToolResult, SessionResult, error) {
		id, err := positiveID("session_id", input.SessionID)
		if err != nil {
			return nil, SessionResult{}, err
		}

		session, err := s.tracker.EndSession(ctx, id)
		if err != nil {
			return nil, SessionResult{}, s.toolError(ctx, "session_end", err)
		}
		return nil, sessionResult(session), nil
	}
}

// SessionListTool defines the MCP tool schema for listing a project's sessions.
func SessionListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_list",
		Description: "Lists a project's sessions, most recent first.",
	}
}

// SessionListHandler executes a session list request.
func (s *Server) SessionListHandler() mcp.ToolHandlerFor[SessionListInput, SessionListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionListInput) (*mcp.CallToolResult, SessionListResult, error) {
		id, err := positiveID("project_id", input.ProjectID)
		if err != nil {
			return nil, SessionListResult{}, err
		}

		sessions, err := s.tracker.ListSessions(ctx, id)
		if err != nil {
			return nil, SessionListResult{}, s.toolError(ctx, "session_list", err)
		}

		out := SessionListResult{Sessions: make([]SessionResult, 0, len(sessions))}
		for i := range sessions {
			out.Sessions = append(out.Sessions, sessionResult(&sessions[i]))
		}
		return nil, out, nil
	}
}

// SessionActiveTool defines the MCP tool schema for the active session lookup.
func SessionActiveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_active",
		Description: "Returns the running session and its elapsed time, optionally scoped to one project.",
	}
}

// SessionActiveHandler executes an active session lookup.
func (s *Server) SessionActiveHandler() mcp.ToolHandlerFor[SessionActiveInput, SessionActiveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionActiveInput) (*mcp.CallToolResult, SessionActiveResult, error) {
		var (
			active *models.ActiveSession
			err    error
		)
		switch {
		case input.ProjectID == 0:
			active, err = s.tracker.GetActiveSession(ctx)
		default:
			id, idErr := positiveID("project_id", input.ProjectID)
			if idErr != nil {
				return nil, SessionActiveResult{}, idErr
			}
			active, err = s.tracker.GetActiveSessionForProject(ctx, id)
		}
		if err != nil {
			return nil, SessionActiveResult{}, s.toolError(ctx, "session_active", err)
		}

		out := SessionActiveResult{Active: active.Active, ElapsedSeconds: active.ElapsedSeconds}
		if active.Session != nil {
			out.Session = sessionResult(active.Session)
		}
		return nil, out, nil
	}
}
