package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/model"
	"github.com/convive/convive/internal/views"
)

var claimCount int

func init() {
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(releaseCmd)
	claimCmd.Flags().IntVarP(&claimCount, "count", "n", 1, "Units to claim")
	releaseCmd.Flags().IntVarP(&claimCount, "count", "n", 1, "Units to release")
}

var claimCmd = &cobra.Command{
	Use:   "claim <event-id> <item-id>",
	Short: "Claim units of an item to bring",
	Long:  "Claims item units. The server clamps against the remaining quantity and rejects overclaims; the count shown beforehand is advisory.",
	Args:  cobra.ExactArgs(2),
	RunE:  runClaim,
}

func runClaim(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	item, err := app.client.ClaimItem(cmd.Context(), model.EventID(args[0]), args[1], claimCount)
	if err != nil {
		return fmt.Errorf("claim failed: %w", err)
	}
	fmt.Printf("Claimed. %s now has %d left.\n", item.Name, views.Remaining(*item))
	return nil
}

var releaseCmd = &cobra.Command{
	Use:   "release <event-id> <item-id>",
	Short: "Release previously claimed units",
	Args:  cobra.ExactArgs(2),
	RunE:  runRelease,
}

func runRelease(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	item, err := app.client.ReleaseItem(cmd.Context(), model.EventID(args[0]), args[1], claimCount)
	if err != nil {
		return fmt.Errorf("release failed: %w", err)
	}
	fmt.Printf("Released. %s now has %d left.\n", item.Name, views.Remaining(*item))
	return nil
}
