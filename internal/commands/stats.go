package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempo/internal/db"
	"github.com/balkashynov/tempo/internal/models"
	"github.com/balkashynov/tempo/internal/tui"
)

func newStatsCmd(a *app) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session statistics",
		Long: `Show statistics across every session, or for one project with --project.

Examples:
  tempo stats
  tempo stats --project 3`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "project ID to scope the statistics to")

	cmd.RunE = withStore(a, func(cmd *cobra.Command, _ []string, store *db.Store) error {
		out := cmd.OutOrStdout()

		if !cmd.Flags().Changed("project") {
			st, err := store.GlobalStatistics(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "📊 All projects")
			printStatistics(out, st)
			return nil
		}

		id, err := parseID(project, "project")
		if err != nil {
			return err
		}
		st, err := store.ProjectStatistics(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "📊 Project #%d: %s\n", st.ProjectID, st.ProjectName)
		if st.ActiveSessionID != nil {
			fmt.Fprintf(out, "Running session: #%d\n", *st.ActiveSessionID)
		}
		printStatistics(out, &st.Statistics)
		return nil
	})
	return cmd
}

func printStatistics(out io.Writer, st *models.Statistics) {
	seconds := func(v int64) string {
		return tui.FormatDuration(time.Duration(v) * time.Second)
	}
	optional := func(v *int64) string {
		if v == nil {
			return "-"
		}
		return seconds(*v)
	}
	stamp := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(timeLayout)
	}

	fmt.Fprintf(out, "Completed sessions: %d\n", st.TotalCompletedSessions)
	fmt.Fprintf(out, "Active sessions: %d\n", st.ActiveSessions)
	fmt.Fprintf(out, "Total time: %s\n", seconds(st.TotalDurationSeconds))
	fmt.Fprintf(out, "Average session: %s\n", seconds(st.AverageDurationSeconds))
	fmt.Fprintf(out, "Longest session: %s\n", optional(st.LongestSessionSeconds))
	fmt.Fprintf(out, "Shortest session: %s\n", optional(st.ShortestSessionSeconds))
	fmt.Fprintf(out, "First session: %s\n", stamp(st.FirstSessionAt))
	fmt.Fprintf(out, "Last session: %s\n", stamp(st.LastSessionAt))
	fmt.Fprintf(out, "Projects: %d\n", st.UniqueProjects)
}
