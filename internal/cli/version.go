package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/repo"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := map[string]string{
			"version": repo.Version,
			"name":    "convive",
		}
		out, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(out))
	},
}
