package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/balkashynov/tempo/internal/db"
)

// ProjectCreateInput represents the MCP tool input for creating a project.
type ProjectCreateInput struct {
	Name        string `json:"name" jsonschema:"project name, unique ignoring case"`
	Description string `json:"description,omitempty" jsonschema:"optional description"`
}

// ProjectListInput takes no arguments.
type ProjectListInput struct{}

// ProjectListResult wraps the project list.
type ProjectListResult struct {
	Projects []ProjectResult `json:"projects" jsonschema:"projects, newest first"`
}

// ProjectUpdateInput represents the MCP tool input for updating a project.
type ProjectUpdateInput struct {
	ProjectID   int64   `json:"project_id" jsonschema:"project identifier"`
	Name        string  `json:"name" jsonschema:"new project name"`
	Description *string `json:"description,omitempty" jsonschema:"new description; omit to keep the current one, empty to clear it"`
}

// ProjectDeleteInput represents the MCP tool input for deleting a project.
type ProjectDeleteInput struct {
	ProjectID int64 `json:"project_id" jsonschema:"project identifier"`
}

// ProjectDeleteResult confirms a deletion.
type ProjectDeleteResult struct {
	ProjectID uint `json:"project_id"`
	Deleted   bool `json:"deleted"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ProjectCreateTool defines the MCP tool schema for creating a project.
func ProjectCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "project_create",
		Description: "Creates a project. Names are trimmed and must be unique ignoring case.",
	}
}

// ProjectCreateHandler executes a project create request.
func (s *Server) ProjectCreateHandler() mcp.ToolHandlerFor[ProjectCreateInput, ProjectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProjectCreateInput) (*mcp.CallToolResult, ProjectResult, error) {
		project, err := s.tracker.CreateProject(ctx, db.ProjectRequest{
			Name:        input.Name,
			Description: optional(input.Description),
		})
		if err != nil {
			return nil, ProjectResult{}, s.toolError(ctx, "project_create", err)
		}
		return nil, projectResult(project), nil
	}
}

// ProjectListTool defines the MCP tool schema for listing projects.
func ProjectListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "project_list",
		Description: "Lists every project with its session count and tracked hours.",
	}
}

// ProjectListHandler executes a project list request.
func (s *Server) ProjectListHandler() mcp.ToolHandlerFor[ProjectListInput, ProjectListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ProjectListInput) (*mcp.CallToolResult, ProjectListResult, error) {
		projects, err := s.tracker.ListProjects(ctx)
		if err != nil {
			return nil, ProjectListResult{}, s.toolError(ctx, "project_list", err)
		}

		out := ProjectListResult{Projects: make([]ProjectResult, 0, len(projects))}
		for i := range projects {
			out.Projects = append(out.Projects, projectResult(&projects[i]))
		}
		return nil, out, nil
	}
}

// ProjectUpdateTool defines the MCP tool schema for updating a project.
func ProjectUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "project_update",
		Description: "Renames a project. The description is replaced when given and kept when omitted; an empty description clears it.",
	}
}

// ProjectUpdateHandler executes a project update request.
func (s *Server) ProjectUpdateHandler() mcp.ToolHandlerFor[ProjectUpdateInput, ProjectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProjectUpdateInput) (*mcp.CallToolResult, ProjectResult, error) {
		id, err := positiveID("project_id", input.ProjectID)
		if err != nil {
			return nil, ProjectResult{}, err
		}

		description := input.Description
		if description == nil {
			current, err := s.tracker.GetProject(ctx, id)
			if err != nil {
				return nil, ProjectResult{}, s.toolError(ctx, "project_update", err)
			}
			description = current.Description
		}

		project, err := s.tracker.UpdateProject(ctx, id, db.ProjectRequest{
			Name:        input.Name,
			Description: description,
		})
		if err != nil {
			return nil, ProjectResult{}, s.toolError(ctx, "project_update", err)
		}
		return nil, projectResult(project), nil
	}
}

// ProjectDeleteTool defines the MCP tool schema for deleting a project.
func ProjectDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "project_delete",
		Description: "Deletes a project and every session recorded against it.",
	}
}

// ProjectDeleteHandler executes a project delete request.
func (s *Server) ProjectDeleteHandler() mcp.ToolHandlerFor[ProjectDeleteInput, ProjectDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProjectDeleteInput) (*mcp.CallToolResult, ProjectDeleteResult, error) {
		id, err := positiveID("project_id", input.ProjectID)
		if err != nil {
			return nil, ProjectDeleteResult{}, err
		}

		if err := s.tracker.DeleteProject(ctx, id); err != nil {
			return nil, ProjectDeleteResult{}, s.toolError(ctx, "project_delete", err)
		}
		return nil, ProjectDeleteResult{ProjectID: id, Deleted: true}, nil
	}
}
