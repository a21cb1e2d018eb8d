package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear [topic]",
	Short: "Remove cached maps",
	Long: `Remove the cached map for a topic, or every cached map when no topic
is given.

Examples:
  sparkmap clear "how do tides work"
  sparkmap clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClear,
}

// ClearResponse is the JSON output of the clear command.
type ClearResponse struct {
	Status  string `json:"status"`
	Removed int    `json:"removed"`
}

func runClear(cmd *cobra.Command, args []string) error {
	store := openStore()
	if store == nil {
		exitWithError(ExitConfigError, "no cache path configured")
	}
	defer store.Close()

	removed := 0
	if len(args) == 1 {
		ok, err := store.Delete(args[0])
		if err != nil {
			exitWithError(ExitDataError, "clearing cache: %v", err)
		}
		if ok {
			removed = 1
		}
	} else {
		n, err := store.Clear()
		if err != nil {
			exitWithError(ExitDataError, "clearing cache: %v", err)
		}
		removed = n
	}

	if humanOutput {
		accentOK.Printf("removed %d cached map(s)\n", removed)
		return nil
	}
	return outputJSON(ClearResponse{Status: "cleared", Removed: removed})
}
