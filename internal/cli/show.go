package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/model"
	"github.com/convive/convive/internal/views"
)

var showRefresh bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRefresh, "refresh", false, "Bypass the read cache")
}

var showCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show one event with its items",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	id := model.EventID(args[0])
	var ev *model.Event
	if showRefresh {
		ev, err = app.client.RefreshEvent(cmd.Context(), id)
	} else {
		ev, err = app.client.GetEvent(cmd.Context(), id)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch event: %w", err)
	}

	fmt.Printf("%s  [%s]\n", ev.Title, ev.Status)
	fmt.Printf("  host:     %s\n", ev.Host)
	fmt.Printf("  starts:   %s\n", ev.StartsAt.Local().Format("Mon Jan 2 15:04"))
	if ev.Location != "" {
		fmt.Printf("  where:    %s\n", ev.Location)
	}
	fmt.Printf("  going:    %d/%d\n", ev.Attending, ev.Capacity)

	if len(ev.Items) > 0 {
		fmt.Println("  items:")
		for _, it := range ev.Items {
			fmt.Printf("    %-12s %-24s %d claimed, %d left\n",
				it.ID, truncate(it.Name, 24), it.Claimed, views.Remaining(it))
		}
	}
	return nil
}
