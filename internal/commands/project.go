package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tempo/internal/db"
	"github.com/balkashynov/tempo/internal/tui"
)

func newProjectCmd(a *app) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}
	projectCmd.AddCommand(
		newProjectAddCmd(a),
		newProjectListCmd(a),
		newProjectEditCmd(a),
		newProjectRemoveCmd(a),
	)
	return projectCmd
}

func newProjectAddCmd(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Long: `Create a project. Names are unique ignoring case.

Examples:
  tempo project add Website
  tempo project add "Client work" -d "billable hours"`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "project description")

	cmd.RunE = withStore(a, func(cmd *cobra.Command, args []string, store *db.Store) error {
		req := db.ProjectRequest{Name: args[0]}
		if cmd.Flags().Changed("description") {
			req.Description = &description
		}

		project, err := store.CreateProject(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ New project \"%s\" added - ID: %d\n", project.Name, project.ID)
		return nil
	})
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects, newest first",
		Args:    cobra.NoArgs,
		RunE: withStore(a, func(cmd *cobra.Command, _ []string, store *db.Store) error {
			projects, err := store.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet. Create one with: tempo project add <name>")
				return nil
			}

			t := newTable("ID", "NAME", "SESSIONS", "HOURS", "CREATED")
			for _, p := range projects {
				t.Row(
					strconv.FormatUint(uint64(p.ID), 10),
					p.Name,
					strconv.FormatInt(p.TotalSessions, 10),
					strconv.FormatInt(p.TotalHours, 10),
					p.CreatedAt.Format("Jan 02, 2006"),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		}),
	}
}

func newProjectEditCmd(a *app) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "edit <project-id>",
		Short: "Rename a project or change its description",
		Long: `Rename a project or change its description. Unset flags keep their
current value; an empty --description clears it.

Examples:
  tempo project edit 3 --name Docs
  tempo project edit 3 --description ""`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new project name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")

	cmd.RunE = withStore(a, func(cmd *cobra.Command, args []string, store *db.Store) error {
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}

		current, err := store.GetProject(cmd.Context(), id)
		if err != nil {
			return err
		}

		req := db.ProjectRequest{Name: current.Name, Description: current.Description}
		if cmd.Flags().Changed("name") {
			req.Name = name
		}
		if cmd.Flags().Changed("description") {
			req.Description = &description
		}

		project, err := store.UpdateProject(cmd.Context(), id, req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated project #%d: %s\n", project.ID, project.Name)
		return nil
	})
	return cmd
}

func newProjectRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a project and all of its sessions",
		Args:    cobra.ExactArgs(1),
		RunE: withStore(a, func(cmd *cobra.Command, args []string, store *db.Store) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			if err := store.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted project #%d\n", id)
			return nil
		}),
	}
}

func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(tui.ColorAccentBright)).
		Bold(true).
		Padding(0, 1)
	cell := lipgloss.NewStyle().
		Foreground(lipgloss.Color(tui.ColorPrimaryText)).
		Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorBorder))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}
