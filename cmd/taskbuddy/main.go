// Command taskbuddy is the TaskBuddy command-line client: projects, tasks,
// invitations, comments and live notifications from the terminal.
package main

import "github.com/taskbuddy/taskbuddy-go/cmd/taskbuddy/cmd"

func main() {
	cmd.Execute()
}
