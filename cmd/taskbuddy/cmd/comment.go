package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment on projects and tasks",
}

var (
	commentProjectID int64
	commentTaskID    int64
)

func printComments(comments []domain.Comment) error {
	if len(comments) == 0 {
		pterm.Info.Println("No comments.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAUTHOR\tWHEN\tMESSAGE")
	for _, c := range comments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.AuthorName, c.CreatedAt, c.Message)
	}
	return w.Flush()
}

var commentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List comments on a project or a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		switch {
		case commentTaskID != 0:
			comments, err := api.ListTaskComments(cmd.Context(), commentTaskID)
			if err != nil {
				return err
			}
			return printComments(comments)
		case commentProjectID != 0:
			comments, err := api.ListProjectComments(cmd.Context(), commentProjectID)
			if err != nil {
				return err
			}
			return printComments(comments)
		default:
			return fmt.Errorf("one of --project or --task is required")
		}
	},
}

var commentAddCmd = &cobra.Command{
	Use:   "add <message>",
	Short: "Add a comment to a project or a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		var comment *domain.Comment
		switch {
		case commentTaskID != 0:
			comment, err = api.AddTaskComment(cmd.Context(), commentTaskID, args[0])
		case commentProjectID != 0:
			comment, err = api.AddProjectComment(cmd.Context(), commentProjectID, args[0])
		default:
			return fmt.Errorf("one of --project or --task is required")
		}
		if err != nil {
			return err
		}
		pterm.Success.Printf("Comment #%d added\n", comment.ID)
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <id> <message>",
	Short: "Rewrite one of your comments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		id, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		if _, err := api.UpdateComment(cmd.Context(), id, args[1]); err != nil {
			return err
		}
		pterm.Success.Printf("Comment #%d updated\n", id)
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		id, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		if err := api.DeleteComment(cmd.Context(), id); err != nil {
			return err
		}
		pterm.Success.Printf("Comment #%d deleted\n", id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{commentListCmd, commentAddCmd} {
		c.Flags().Int64VarP(&commentProjectID, "project", "P", 0, "project id")
		c.Flags().Int64VarP(&commentTaskID, "task", "T", 0, "task id")
	}

	commentCmd.AddCommand(commentListCmd)
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentDeleteCmd)
}
