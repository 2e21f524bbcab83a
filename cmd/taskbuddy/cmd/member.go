package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage project membership",
}

var memberListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List the members of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		members, err := api.ListProjectMembers(cmd.Context(), projectID)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			pterm.Info.Println("No members.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USER ID\tNAME\tEMAIL\tROLE")
		for _, m := range members {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.UserID, m.UserName, m.UserEmail, m.Role)
		}
		return w.Flush()
	},
}

var memberProjectsCmd = &cobra.Command{
	Use:   "projects <user-id>",
	Short: "List a user's project memberships",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		userID, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		memberships, err := api.ListUserProjects(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(memberships) == 0 {
			pterm.Info.Println("No memberships.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROJECT ID\tPROJECT\tROLE")
		for _, m := range memberships {
			fmt.Fprintf(w, "%d\t%s\t%s\n", m.ProjectID, m.ProjectName, m.Role)
		}
		return w.Flush()
	},
}

var memberAddCmd = &cobra.Command{
	Use:   "add <project-id> <user-id>",
	Short: "Add a user to a project directly (managers only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRole(cmd.Context(), domain.RoleManager); err != nil {
			return err
		}
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		userID, err := parseID(args[1], "user")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		if err := api.AddProjectMember(cmd.Context(), projectID, userID); err != nil {
			return err
		}
		pterm.Success.Printf("User #%d added to project #%d\n", userID, projectID)
		return nil
	},
}

var memberRemoveCmd = &cobra.Command{
	Use:   "remove <project-id> <user-id>",
	Short: "Remove a user from a project (managers only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRole(cmd.Context(), domain.RoleManager); err != nil {
			return err
		}
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		userID, err := parseID(args[1], "user")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		if err := api.RemoveProjectMember(cmd.Context(), projectID, userID); err != nil {
			return err
		}
		pterm.Success.Printf("User #%d removed from project #%d\n", userID, projectID)
		return nil
	},
}

func init() {
	memberCmd.AddCommand(memberListCmd)
	memberCmd.AddCommand(memberProjectsCmd)
	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberRemoveCmd)
}
