// Package mcpserver exposes the tracker as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/balkashynov/tempo/internal/apperr"
	"github.com/balkashynov/tempo/internal/db"
	"github.com/balkashynov/tempo/internal/models"
)

const serverName = "tempo"

// Tracker is the core the tools call into. *db.Store implements it.
type Tracker interface {
	CreateProject(ctx context.Context, req db.ProjectRequest) (*models.ProjectSummary, error)
	ListProjects(ctx context.Context) ([]models.ProjectSummary, error)
	GetProject(ctx context.Context, id uint) (*models.ProjectSummary, error)
	UpdateProject(ctx context.Context, id uint, req db.ProjectRequest) (*models.ProjectSummary, error)
	DeleteProject(ctx context.Context, id uint) error

	StartSession(ctx context.Context, projectID uint) (*models.Session, error)
	EndSession(ctx context.Context, sessionID uint) (*models.Session, error)
	ListSessions(ctx context.Context, projectID uint) ([]models.Session, error)
	GetActiveSessionForProject(ctx context.Context, projectID uint) (*models.ActiveSession, error)
	GetActiveSession(ctx context.Context) (*models.ActiveSession, error)

	AverageDuration(ctx context.Context) (*models.AverageDuration, error)
	GlobalStatistics(ctx context.Context) (*models.Statistics, error)
	ProjectStatistics(ctx context.Context, projectID uint) (*models.ProjectStatistics, error)
}

// Server owns the MCP server and the tracker its tools call.
type Server struct {
	tracker Tracker
	log     *slog.Logger
	mcp     *mcp.Server
}

// New builds a Server with every tool registered.
func New(tracker Tracker, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		tracker: tracker,
		log:     log,
		mcp:     mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, ProjectCreateTool(), s.ProjectCreateHandler())
	mcp.AddTool(s.mcp, ProjectListTool(), s.ProjectListHandler())
	mcp.AddTool(s.mcp, ProjectUpdateTool(), s.ProjectUpdateHandler())
	mcp.AddTool(s.mcp, ProjectDeleteTool(), s.ProjectDeleteHandler())

	mcp.AddTool(s.mcp, SessionStartTool(), s.SessionStartHandler())
	mcp.AddTool(s.mcp, SessionEndTool(), s.SessionEndHandler())
	mcp.AddTool(s.mcp, SessionListTool(), s.SessionListHandler())
	mcp.AddTool(s.mcp, SessionActiveTool(), s.SessionActiveHandler())

	mcp.AddTool(s.mcp, StatsAverageTool(), s.StatsAverageHandler())
	mcp.AddTool(s.mcp, StatsGlobalTool(), s.StatsGlobalHandler())
	mcp.AddTool(s.mcp, StatsProjectTool(), s.StatsProjectHandler())
}

// Run serves tools over stdio until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcp == nil {
		return errors.New("mcp server is not configured")
	}
	s.log.Info("mcp server starting", "transport", fmt.Sprintf("%T", transport))
	if err := s.mcp.Run(ctx, transport); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// toolError turns a core failure into the error a client sees. Internal
// details stay in the log.
func (s *Server) toolError(ctx context.Context, tool string, err error) error {
	if apperr.CodeOf(err) == apperr.CodeInternal {
		s.log.ErrorContext(ctx, "tool failed", "tool", tool, "error", err)
	}
	return fmt.Errorf("%s: %s", apperr.CodeOf(err), apperr.PublicMessage(err))
}

func positiveID(name string, v int64) (uint, error) {
	if v <= 0 || v > int64(^uint32(0)) {
		return 0, fmt.Errorf("%s: %s must be a positive integer", apperr.CodeInvalidArgument, name)
	}
	return uint(v), nil
}
