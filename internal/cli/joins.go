package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/model"
)

func init() {
	rootCmd.AddCommand(joinsCmd)
	joinsCmd.AddCommand(joinsApproveCmd)
	joinsCmd.AddCommand(joinsRejectCmd)
}

var joinsCmd = &cobra.Command{
	Use:   "joins <event-id>",
	Short: "List join requests for an event you host",
	Args:  cobra.ExactArgs(1),
	RunE:  runJoins,
}

func runJoins(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	joins, err := app.client.ListJoins(cmd.Context(), model.EventID(args[0]))
	if err != nil {
		return fmt.Errorf("failed to list join requests: %w", err)
	}

	if len(joins) == 0 {
		fmt.Println("No join requests.")
		return nil
	}

	fmt.Printf("%-12s %-20s %-12s %s\n", "ID", "GUEST", "STATUS", "REQUESTED")
	for _, jr := range joins {
		fmt.Printf("%-12s %-20s %-12s %s\n",
			jr.ID,
			truncate(jr.Guest, 20),
			jr.Status,
			jr.CreatedAt.Local().Format("Jan 2 15:04"),
		)
	}
	return nil
}

var joinsApproveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve a join request (the server may waitlist it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRespondJoin(cmd, args[0], true)
	},
}

var joinsRejectCmd = &cobra.Command{
	Use:   "reject <request-id>",
	Short: "Reject a join request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRespondJoin(cmd, args[0], false)
	},
}

func runRespondJoin(cmd *cobra.Command, requestID string, approve bool) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	jr, err := app.client.RespondJoin(cmd.Context(), requestID, approve)
	if err != nil {
		return fmt.Errorf("failed to respond to join request: %w", err)
	}

	switch jr.Status {
	case model.JoinWaitlisted:
		fmt.Printf("%s approved — event is full, guest waitlisted.\n", jr.Guest)
	default:
		fmt.Printf("%s is now %s.\n", jr.Guest, jr.Status)
	}
	return nil
}
