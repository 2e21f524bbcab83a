package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Browse users and manage your account",
}

func printUsers(users []domain.User) error {
	if len(users) == 0 {
		pterm.Info.Println("No users.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
	}
	return w.Flush()
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		users, err := api.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		return printUsers(users)
	},
}

var userSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find users by username or email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		users, err := api.SearchUsers(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printUsers(users)
	},
}

var (
	updateUsername string
	updateEmail    string
)

var userUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile and refresh the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := requireAuth(cmd.Context())
		if err != nil {
			return err
		}
		if updateUsername == "" && updateEmail == "" {
			return fmt.Errorf("nothing to update; pass --username or --email")
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		user, err := api.UpdateUser(cmd.Context(), current.ID, updateUsername, updateEmail)
		if err != nil {
			return err
		}

		// Keep the persisted identity mirror in step with the backend.
		sess, err := sessionService(cmd.Context())
		if err != nil {
			return err
		}
		if err := sess.UpdateIdentity(domain.Session{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		}); err != nil {
			return err
		}
		pterm.Success.Printf("Profile updated: %s <%s>\n", user.Username, user.Email)
		return nil
	},
}

var userPasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Rotate your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		oldPassword, _ := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Current password")
		newPassword, _ := pterm.DefaultInteractiveTextInput.WithMask("*").Show("New password")

		if err := api.ChangePassword(cmd.Context(), oldPassword, newPassword); err != nil {
			return err
		}
		pterm.Success.Println("Password changed.")
		return nil
	},
}

func init() {
	userUpdateCmd.Flags().StringVar(&updateUsername, "username", "", "new username")
	userUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "new email")

	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userSearchCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userPasswordCmd)
}
