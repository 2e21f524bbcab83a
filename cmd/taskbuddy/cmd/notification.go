package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/core/service"
	"github.com/taskbuddy/taskbuddy-go/internal/realtime"
	"github.com/taskbuddy/taskbuddy-go/pkg/logger"
)

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notif"},
	Short:   "Read and follow notifications",
}

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your unread notifications, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}

		inbox := service.NewInbox(api)
		unread, err := api.ListUnreadNotifications(cmd.Context(), 0)
		if err != nil {
			return err
		}
		inbox.ReplaceAll(unread)

		items := inbox.Snapshot()
		if len(items) == 0 {
			pterm.Info.Println("No unread notifications.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tWHEN\tMESSAGE")
		for _, n := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				n.ID, n.Type, n.CreatedAt.Format(time.RFC822), n.Message)
		}
		return w.Flush()
	},
}

var notificationReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		id, err := parseID(args[0], "notification")
		if err != nil {
			return err
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		inbox := service.NewInbox(api)
		if err := inbox.MarkRead(cmd.Context(), id); err != nil {
			return err
		}
		pterm.Success.Printf("Notification #%d marked read\n", id)
		return nil
	},
}

// printSink renders pushed notifications as they arrive.
type printSink struct{}

func (printSink) Prepend(n domain.Notification) {
	pterm.Info.Printf("[%s] %s\n", n.Type, n.Message)
}

var notificationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow notifications live until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		base, err := wsBase()
		if err != nil {
			return err
		}

		channel := realtime.NewChannel(base, shared.store, printSink{}, logger.Get())
		if err := channel.Open(cmd.Context()); err != nil {
			return err
		}
		defer channel.Close()
		pterm.Info.Println("Watching notifications. Press Ctrl-C to stop.")

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return nil
			case <-ticker.C:
				if channel.State() == realtime.StateClosed {
					return fmt.Errorf("notification channel closed by the server")
				}
			}
		}
	},
}

func init() {
	notificationCmd.AddCommand(notificationListCmd)
	notificationCmd.AddCommand(notificationReadCmd)
	notificationCmd.AddCommand(notificationWatchCmd)
}
