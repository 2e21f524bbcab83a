package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Manage project invitations",
}

var inviteCreateCmd = &cobra.Command{
	Use:   "send <project-id> <user-id>",
	Short: "Invite a user to a project (managers only)",
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
		inv, err := api.CreateInvitation(cmd.Context(), projectID, userID)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Invitation #%d sent to user #%d\n", inv.ID, userID)
		return nil
	},
}

var invitePendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List your pending invitations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		invitations, err := api.ListPendingInvitations(cmd.Context(), 0)
		if err != nil {
			return err
		}
		if len(invitations) == 0 {
			pterm.Info.Println("No pending invitations.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROJECT\tSTATUS")
		for _, inv := range invitations {
			fmt.Fprintf(w, "%d\t%s\t%s\n", inv.ID, inv.ProjectName, inv.Status)
		}
		return w.Flush()
	},
}

var inviteAcceptCmd = &cobra.Command{
	Use:   "accept <id>",
	Short: "Accept an invitation and join the project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respondInvitation(cmd, args[0], domain.InvitationAccepted)
	},
}

var inviteRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject an invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respondInvitation(cmd, args[0], domain.InvitationRejected)
	},
}

func respondInvitation(cmd *cobra.Command, arg string, status domain.InvitationStatus) error {
	if _, err := requireAuth(cmd.Context()); err != nil {
		return err
	}
	id, err := parseID(arg, "invitation")
	if err != nil {
		return err
	}
	api, err := apiClient()
	if err != nil {
		return err
	}
	if err := api.RespondToInvitation(cmd.Context(), id, status); err != nil {
		return err
	}
	pterm.Success.Printf("Invitation #%d %s\n", id, status)
	return nil
}

func init() {
	inviteCmd.AddCommand(inviteCreateCmd)
	inviteCmd.AddCommand(invitePendingCmd)
	inviteCmd.AddCommand(inviteAcceptCmd)
	inviteCmd.AddCommand(inviteRejectCmd)
}
