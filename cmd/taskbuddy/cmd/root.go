package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var apiURLFlag string

var rootCmd = &cobra.Command{
	Use:   "taskbuddy",
	Short: "TaskBuddy CLI - project and task management client",
	Long: `taskbuddy is the command-line interface for the TaskBuddy backend.
Use it to manage projects, tasks, invitations and comments, and to follow
notifications live over the realtime channel.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "",
		"TaskBuddy API base URL including the /api prefix (overrides TASKBUDDY_API_URL)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(inviteCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(notificationCmd)
}
