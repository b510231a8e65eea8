package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempo/internal/apperr"
	"github.com/balkashynov/tempo/internal/db"
	"github.com/balkashynov/tempo/internal/models"
	"github.com/balkashynov/tempo/internal/tui"
)

const timeLayout = "2006-01-02 15:04:05 -07:00"

func newStartCmd(a *app) *cobra.Command {
	var noUI bool

	cmd := &cobra.Command{
		Use:   "start <project-id>",
		Short: "Start tracking time on a project",
		Long: `Start tracking time on a project. Opens interactive timer by default, use --no-ui for simple start.

Examples:
  tempo start 3        # Start timer with interactive UI
  tempo start 3 --no-ui # Start timer without UI`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&noUI, "no-ui", false, "Start timer without interactive UI")

	cmd.RunE = withStore(a, func(cmd *cobra.Command, args []string, store *db.Store) error {
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}

		session, err := store.StartSession(cmd.Context(), projectID)
		if err != nil {
			return err
		}
		project := lookupProject(cmd.Context(), store, session.ProjectID)
		out := cmd.OutOrStdout()

		if noUI || !tui.IsTTY() {
			fmt.Fprintf(out, "⏱️  Started tracking time for project #%d: %s\n", session.ProjectID, projectLabel(project))
			fmt.Fprintf(out, "Session #%d started at: %s\n", session.ID, session.StartTime.Format(timeLayout))
			return nil
		}

		ended, err := tui.RunTimer(cmd.Context(), store, session, project, a.clock)
		if err != nil {
			return err
		}
		if ended == nil {
			fmt.Fprintf(out, "\n💡 Timer is still running in the background for project #%d: %s\n", session.ProjectID, projectLabel(project))
			fmt.Fprintln(out, "   Use 'tempo status' to check current timer or 'tempo stop' to stop it.")
			return nil
		}
		printStopped(out, ended, project)
		return nil
	})
	return cmd
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop [session-id]",
		Short: "Stop tracking time",
		Long: `Stop a session. Without an ID, stops whichever session is running.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withStore(a, func(cmd *cobra.Command, args []string, store *db.Store) error {
			var sessionID uint
			if len(args) == 1 {
				id, err := parseID(args[0], "session")
				if err != nil {
					return err
				}
				sessionID = id
			} else {
				active, err := store.GetActiveSession(cmd.Context())
				if err != nil {
					return err
				}
				if !active.Active {
					return apperr.New(apperr.CodeNotFound, "no active time tracking session")
				}
				sessionID = active.Session.ID
			}

			session, err := store.EndSession(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			printStopped(cmd.OutOrStdout(), session, lookupProject(cmd.Context(), store, session.ProjectID))
			return nil
		}),
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current time tracking status",
		Args:  cobra.NoArgs,
		RunE: withStore(a, func(cmd *cobra.Command, _ []string, store *db.Store) error {
			active, err := store.GetActiveSession(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !active.Active {
				fmt.Fprintln(out, "No active time tracking session")
				return nil
			}

			session := active.Session
			project := lookupProject(cmd.Context(), store, session.ProjectID)
			fmt.Fprintf(out, "⏱️  Currently tracking: project #%d: %s\n", session.ProjectID, projectLabel(project))
			fmt.Fprintf(out, "Session #%d started at: %s\n", session.ID, session.StartTime.Format(timeLayout))
			fmt.Fprintf(out, "Elapsed time: %s\n", tui.FormatDuration(time.Duration(active.ElapsedSeconds)*time.Second))
			return nil
		}),
	}
}

func newLogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "log <project-id>",
		Short: "List a project's sessions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(a, func(cmd *cobra.Command, args []string, store *db.Store) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}

			sessions, err := store.ListSessions(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintf(out, "No sessions recorded for project #%d\n", projectID)
				return nil
			}

			t := newTable("ID", "STARTED", "ENDED", "DURATION")
			for _, s := range sessions {
				ended, duration := "running", "-"
				if s.EndTime != nil {
					ended = s.EndTime.Format(timeLayout)
				}
				if s.DurationSeconds != nil {
					duration = tui.FormatDuration(time.Duration(*s.DurationSeconds) * time.Second)
				}
				t.Row(strconv.FormatUint(uint64(s.ID), 10), s.StartTime.Format(timeLayout), ended, duration)
			}
			fmt.Fprintln(out, t.String())
			return nil
		}),
	}
}

// lookupProject is best effort; output falls back to the ID.
func lookupProject(ctx context.Context, store *db.Store, id uint) *models.ProjectSummary {
	project, err := store.GetProject(ctx, id)
	if err != nil {
		return nil
	}
	return project
}

func projectLabel(p *models.ProjectSummary) string {
	if p == nil {
		return "(unknown)"
	}
	return p.Name
}

func printStopped(out io.Writer, session *models.Session, project *models.ProjectSummary) {
	var seconds int64
	if session.DurationSeconds != nil {
		seconds = *session.DurationSeconds
	}
	fmt.Fprintf(out, "⏹️  Stopped tracking time for project #%d: %s\n", session.ProjectID, projectLabel(project))
	fmt.Fprintf(out, "📊 Session duration: %s\n", tui.FormatDuration(time.Duration(seconds)*time.Second))
}
