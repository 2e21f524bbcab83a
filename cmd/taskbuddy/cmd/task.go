package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/taskbuddy/taskbuddy-go/internal/client"
	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskProjectID int64

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally scoped to one project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}

		var tasks []domain.Task
		if taskProjectID != 0 {
			tasks, err = api.ListProjectTasks(cmd.Context(), taskProjectID)
		} else {
			tasks, err = api.ListTasks(cmd.Context())
		}
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			pterm.Info.Println("No tasks.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tASSIGNEE\tPROJECT")
		for _, t := range tasks {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Title, t.Status, t.Priority, t.AssignedUserName, t.ProjectName)
		}
		return w.Flush()
	},
}

var taskGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		id, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		t, err := api.GetTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		pterm.DefaultSection.Println(t.Title)
		pterm.Info.Printf("Status:   %s\n", t.Status)
		pterm.Info.Printf("Priority: %s\n", t.Priority)
		pterm.Info.Printf("Project:  %s (#%d)\n", t.ProjectName, t.ProjectID)
		if t.AssignedUserName != "" {
			pterm.Info.Printf("Assignee: %s\n", t.AssignedUserName)
		}
		if t.DueDate != "" {
			pterm.Info.Printf("Due:      %s\n", t.DueDate)
		}
		if t.Description != "" {
			pterm.Info.Printf("Details:  %s\n", t.Description)
		}
		return nil
	},
}

var (
	taskDescription string
	taskPriority    string
	taskAssignee    int64
	taskDueDate     string
)

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task in a project (managers only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRole(cmd.Context(), domain.RoleManager); err != nil {
			return err
		}
		if taskProjectID == 0 {
			return fmt.Errorf("--project is required")
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		t, err := api.CreateTask(cmd.Context(), client.TaskInput{
			Title:          args[0],
			Description:    taskDescription,
			Priority:       domain.TaskPriority(taskPriority),
			ProjectID:      taskProjectID,
			AssignedUserID: taskAssignee,
			DueDate:        taskDueDate,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Task %q created (#%d)\n", t.Title, t.ID)
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move a task you are assigned to",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		id, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		status := domain.TaskStatus(args[1])
		if !domain.ValidTaskStatus(status) {
			return fmt.Errorf("unknown task status %q", args[1])
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		if err := api.UpdateTaskStatus(cmd.Context(), id, status); err != nil {
			return err
		}
		pterm.Success.Printf("Task #%d is now %s\n", id, status)
		return nil
	},
}

var taskReassignCmd = &cobra.Command{
	Use:   "reassign <id> <user-id>",
	Short: "Hand a task to another member; resets its status (managers only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRole(cmd.Context(), domain.RoleManager); err != nil {
			return err
		}
		id, err := parseID(args[0], "task")
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
		if err := api.ReassignTask(cmd.Context(), id, userID); err != nil {
			return err
		}
		pterm.Success.Printf("Task #%d reassigned to user #%d (status reset to PENDING)\n", id, userID)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task (managers only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireRole(cmd.Context(), domain.RoleManager); err != nil {
			return err
		}
		id, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		if err := api.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		pterm.Success.Printf("Task #%d deleted\n", id)
		return nil
	},
}

func init() {
	taskListCmd.Flags().Int64VarP(&taskProjectID, "project", "P", 0, "scope to one project id")
	taskCreateCmd.Flags().Int64VarP(&taskProjectID, "project", "P", 0, "project id (required)")
	taskCreateCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "task description")
	taskCreateCmd.Flags().StringVar(&taskPriority, "priority", "", "LOW, MEDIUM or HIGH")
	taskCreateCmd.Flags().Int64Var(&taskAssignee, "assignee", 0, "assigned user id")
	taskCreateCmd.Flags().StringVar(&taskDueDate, "due", "", "due date (YYYY-MM-DD)")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskGetCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskReassignCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}
