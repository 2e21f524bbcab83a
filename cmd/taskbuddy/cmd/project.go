package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/taskbuddy/taskbuddy-go/internal/client"
	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

// parseID converts a positional argument into a numeric id.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects you manage or belong to",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		projects, err := api.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			pterm.Info.Println("No projects.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tMANAGER\tTASKS\tMEMBERS")
		for _, p := range projects {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
				p.ID, p.Name, p.Status, p.ManagerName, p.TaskCount, p.MemberCount)
		}
		return w.Flush()
	},
}

var projectGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		p, err := api.GetProject(cmd.Context(), id)
		if err != nil {
			return err
		}
		pterm.DefaultSection.Println(p.Name)
		pterm.Info.Printf("Status:      %s\n", p.Status)
		pterm.Info.Printf("Manager:     %s\n", p.ManagerName)
		pterm.Info.Printf("Tasks:       %d\n", p.TaskCount)
		pterm.Info.Printf("Members:     %d\n", p.MemberCount)
		if p.Description != "" {
			pterm.Info.Printf("Description: %s\n", p.Description)
		}
		return nil
	},
}

var projectDescription string

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project (managers only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRole(cmd.Context(), domain.RoleManager); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		p, err := api.CreateProject(cmd.Context(), client.ProjectInput{
			Name:        args[0],
			Description: projectDescription,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Project %q created (#%d)\n", p.Name, p.ID)
		return nil
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "Rename a project (managers only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRole(cmd.Context(), domain.RoleManager); err != nil {
			return err
		}
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		p, err := api.UpdateProject(cmd.Context(), id, client.ProjectInput{
			Name:        args[1],
			Description: projectDescription,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Project #%d updated: %s\n", p.ID, p.Name)
		return nil
	},
}

var projectStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move a project to a new status (managers only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRole(cmd.Context(), domain.RoleManager); err != nil {
			return err
		}
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		status := domain.ProjectStatus(args[1])
		if !domain.ValidProjectStatus(status) {
			return fmt.Errorf("unknown project status %q", args[1])
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		if err := api.UpdateProjectStatus(cmd.Context(), id, status); err != nil {
			return err
		}
		pterm.Success.Printf("Project #%d is now %s\n", id, status)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "project description")
	projectUpdateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "project description")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectGetCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectStatusCmd)
}
