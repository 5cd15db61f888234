package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/model"
	"github.com/convive/convive/internal/repo"
	"github.com/convive/convive/internal/views"
)

var (
	eventsTab    string
	eventsStatus string
	eventsSearch string
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringVar(&eventsTab, "tab", "discover", "Tab to list: discover, attending, hosting")
	eventsCmd.Flags().StringVar(&eventsStatus, "status", "", "Filter by status (draft, published, canceled, completed, deleted)")
	eventsCmd.Flags().StringVarP(&eventsSearch, "search", "q", "", "Free-text search over title and location")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List events",
	Long:  "Lists events for a tab. The status filter and search narrow the server's result client-side, matching the app's list view.",
	RunE:  runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	state := views.NewListState().SelectTab(views.Tab(eventsTab))
	if eventsStatus != "" {
		state = state.SetStatus(model.EventStatus(eventsStatus))
	}
	state = state.SetSearch(eventsSearch)

	tab, status, search := state.Query()
	events, err := app.client.ListEvents(cmd.Context(), repo.Query{Tab: tab, Status: status, Search: search})
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	events = state.Apply(events)

	if len(events) == 0 {
		fmt.Println("No events.")
		return nil
	}

	fmt.Printf("%-12s %-30s %-10s %-8s %s\n", "ID", "TITLE", "STATUS", "GOING", "STARTS")
	for _, ev := range events {
		fmt.Printf("%-12s %-30s %-10s %3d/%-4d %s\n",
			ev.ID,
			truncate(ev.Title, 30),
			ev.Status,
			ev.Attending,
			ev.Capacity,
			ev.StartsAt.Local().Format("Jan 2 15:04"),
		)
	}
	return nil
}
