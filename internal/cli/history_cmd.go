package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/history"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyVerifyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show executed transitions",
	Long:  "Lists the local transition history: every lifecycle transition this client submitted, with its outcome.",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	entries, err := history.List(cfg.HistoryLog)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No transitions recorded.")
		return nil
	}

	fmt.Printf("%-24s %-12s %-10s %-8s %s\n", "TIME", "EVENT", "ACTION", "OUTCOME", "DETAIL")
	for _, e := range entries {
		detail := e.ReceiptID
		if e.Error != "" {
			detail = truncate(e.Error, 40)
		}
		fmt.Printf("%-24s %-12s %-10s %-8s %s\n", e.At.Format(time.RFC3339), e.EventID, e.Action, e.Outcome, detail)
	}
	return nil
}

var historyVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the history hash chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		n, err := history.Verify(cfg.HistoryLog)
		if err != nil {
			return err
		}
		fmt.Printf("History chain intact: %d entries.\n", n)
		return nil
	},
}
