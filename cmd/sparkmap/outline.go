package main

import (
	"github.com/spf13/cobra"

	"github.com/bubbledive/sparkmap/internal/outline"
)

func init() {
	rootCmd.AddCommand(outlineCmd)
}

var outlineCmd = &cobra.Command{
	Use:   "outline <topic>",
	Short: "Print a cached map as an indented text outline",
	Long: `Print the text outline of a cached map: one line per bubble, four
spaces of indent per level, tooltips inline.

Examples:
  sparkmap outline "how do tides work"
  sparkmap outline "jazz harmony" --human`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

// OutlineResponse is the JSON output of the outline command.
type OutlineResponse struct {
	Topic   string `json:"topic"`
	Outline string `json:"outline"`
}

func runOutline(cmd *cobra.Command, args []string) error {
	store := openStore()
	if store == nil {
		exitWithError(ExitConfigError, "no cache path configured")
	}
	defer store.Close()

	rec, err := store.Get(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading cache: %v", err)
	}
	if rec == nil {
		exitWithError(ExitError, "no cached map for %q; run: sparkmap map %q", args[0], args[0])
	}

	text := outline.Render(rec.Tree)
	if humanOutput {
		outputHuman("%s", text)
		return nil
	}
	return outputJSON(OutlineResponse{Topic: rec.Topic, Outline: text})
}
