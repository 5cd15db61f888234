package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/confirm"
	"github.com/convive/convive/internal/history"
	"github.com/convive/convive/internal/model"
)

var transitionYes bool

func init() {
	for _, key := range model.ActionKeys {
		key := key
		c := &cobra.Command{
			Use:   fmt.Sprintf("%s <event-id>", key),
			Short: fmt.Sprintf("%s an event (asks for a confirming second tap)", key.Label()),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTransition(cmd, key, model.EventID(args[0]))
			},
		}
		c.Flags().BoolVarP(&transitionYes, "yes", "y", false, "Confirm immediately (both taps)")
		rootCmd.AddCommand(c)
	}
}

func runTransition(cmd *cobra.Command, key model.ActionKey, eventID model.EventID) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	log, err := history.Open(app.cfg.HistoryLog)
	if err != nil {
		return fmt.Errorf("failed to open history log: %w", err)
	}
	defer log.Close()

	effect := func(ctx context.Context, id model.EventID) error {
		receipt, err := app.client.PerformTransition(ctx, id, key)
		entry := history.Entry{
			EventID: string(id),
			Action:  string(key),
			Outcome: "success",
		}
		if err != nil {
			entry.Outcome = "failure"
			entry.Error = err.Error()
		} else {
			entry.ReceiptID = receipt.ID
		}
		if recErr := log.Record(entry); recErr != nil {
			fmt.Fprintf(os.Stderr, "warning: history not recorded: %v\n", recErr)
		}
		return err
	}

	gate := confirm.NewGate(eventID, app.cfg.ConfirmExpiry,
		map[model.ActionKey]confirm.Effect{key: effect},
		confirm.WithNotifier(app.nf),
	)

	// First tap arms the action.
	if _, err := gate.Tap(cmd.Context(), key); err != nil {
		return err
	}

	if !transitionYes {
		fmt.Printf("%s %s — tap again to confirm.\n", key.Label(), eventID)
		fmt.Printf("Press Enter within %s (anything else aborts): ", gate.Expiry())
		if !waitForEnter(gate.Expiry()) {
			fmt.Println("\nNot confirmed. Nothing was submitted.")
			return nil
		}
	}

	d, err := gate.Tap(cmd.Context(), key)
	if err != nil {
		// The notifier already reported the failure; keep the non-zero
		// exit without printing it twice.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return err
	}
	if d != confirm.DecisionExecute {
		// The window lapsed between the prompt and the tap; the second tap
		// only re-armed. Treat it as not confirmed rather than looping.
		fmt.Println("Confirmation window lapsed. Nothing was submitted.")
		return nil
	}
	return nil
}

// waitForEnter reads one line from stdin, giving up after the confirmation
// window. Returns true only for a bare Enter within the window.
func waitForEnter(window time.Duration) bool {
	lines := make(chan string, 1)
	go func() {
		r := bufio.NewReader(os.Stdin)
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		lines <- line
	}()

	select {
	case line := <-lines:
		return line == "\n" || line == "\r\n"
	case <-time.After(window):
		return false
	}
}
