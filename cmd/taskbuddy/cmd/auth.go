package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with TaskBuddy",
}

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := sessionService(cmd.Context())
		if err != nil {
			return err
		}

		username := loginUsername
		password := loginPassword
		if username == "" {
			username, _ = pterm.DefaultInteractiveTextInput.Show("Username")
		}
		if password == "" {
			password, _ = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
		}

		session, err := sess.Login(cmd.Context(), username, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		pterm.Success.Printf("Signed in as %s (%s)\n", session.Username, session.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := sessionService(cmd.Context())
		if err != nil {
			return err
		}
		sess.Logout()
		pterm.Success.Println("Signed out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := sessionService(cmd.Context())
		if err != nil {
			return err
		}
		if !sess.Authenticated() {
			pterm.Info.Println("Not signed in.")
			return nil
		}
		current := sess.Current()
		pterm.DefaultSection.Println("Session")
		pterm.Info.Printf("User:  %s (#%d)\n", current.Username, current.ID)
		pterm.Info.Printf("Email: %s\n", current.Email)
		pterm.Info.Printf("Role:  %s\n", current.Role)
		return nil
	},
}

var (
	registerEmail string
	registerRole  string
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		role := domain.Role(registerRole)
		if !role.Valid() {
			return fmt.Errorf("role must be MANAGER or MEMBER, got %q", registerRole)
		}
		password, _ := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")

		user, err := api.Register(cmd.Context(), args[0], registerEmail, password, role)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Account %s created (#%d). Run `taskbuddy auth login` to sign in.\n",
			user.Username, user.ID)
		return nil
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		if err := api.ForgotPassword(cmd.Context(), args[0]); err != nil {
			return err
		}
		pterm.Success.Println("If the account exists, a reset code has been sent.")
		return nil
	},
}

var resetOTP string

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Exchange a reset code for a new password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		otp := resetOTP
		if otp == "" {
			otp, _ = pterm.DefaultInteractiveTextInput.Show("Reset code")
		}
		newPassword, _ := pterm.DefaultInteractiveTextInput.WithMask("*").Show("New password")

		if err := api.ResetPassword(cmd.Context(), args[0], otp, newPassword); err != nil {
			return err
		}
		pterm.Success.Println("Password updated. Sign in with the new password.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerRole, "role", string(domain.RoleMember), "account role: MANAGER or MEMBER")
	resetPasswordCmd.Flags().StringVar(&resetOTP, "otp", "", "reset code (prompted when omitted)")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(forgotPasswordCmd)
	authCmd.AddCommand(resetPasswordCmd)
}
