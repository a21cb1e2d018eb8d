package main

import (
	"github.com/spf13/cobra"

	"github.com/bubbledive/sparkmap/internal/tui"
)

var exploreFresh bool

func init() {
	exploreCmd.Flags().BoolVar(&exploreFresh, "fresh", false, "Bypass the cache and regenerate")
	rootCmd.AddCommand(exploreCmd)
}

var exploreCmd = &cobra.Command{
	Use:   "explore <topic>",
	Short: "Explore a SparkMap interactively in the terminal",
	Long: `Open the interactive explorer: the map runs its force layout live in
the terminal. Drag bubbles with the mouse, scroll to zoom, hover for
tooltips, and click a bubble to dive into a focused map about it.

Examples:
  sparkmap explore "how do tides work"
  sparkmap explore "jazz harmony" --fresh`,
	Args: cobra.ExactArgs(1),
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	requireAPIKey()

	sess, store := openSession()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(sess, args[0], exploreFresh, diveOptions()); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}
