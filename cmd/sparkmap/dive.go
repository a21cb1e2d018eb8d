package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bubbledive/sparkmap/internal/dive"
)

var diveContextJSON string

func init() {
	diveCmd.Flags().StringVar(&diveContextJSON, "context", "", "Dive context JSON (defaults to stdin)")
	rootCmd.AddCommand(diveCmd)
}

var diveCmd = &cobra.Command{
	Use:   "dive",
	Short: "Condense a dive context and generate the next map",
	Long: `Take a dive context (the clicked bubble plus its parent and root),
condense it into the next topic, and generate that map. The context is
read from --context or stdin as JSON with the fields clicked_label,
clicked_tooltip, parent_label, parent_tooltip, root_label, root_tooltip.

Examples:
  sparkmap dive --context '{"clicked_label":"Neap tides","root_label":"Tides"}'
  echo "$CONTEXT" | sparkmap dive`,
	Args: cobra.NoArgs,
	RunE: runDive,
}

func runDive(cmd *cobra.Command, args []string) error {
	raw := []byte(diveContextJSON)
	if len(raw) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitWithError(ExitError, "reading stdin: %v", err)
		}
		raw = data
	}

	var dctx dive.Context
	if err := json.Unmarshal(raw, &dctx); err != nil {
		exitWithError(ExitDataError, "parsing dive context: %v", err)
	}
	if dctx.ClickedLabel == "" {
		exitWithError(ExitDataError, "dive context needs a clicked_label")
	}

	requireAPIKey()

	sess, store := openSession()
	if store != nil {
		defer store.Close()
	}

	m, err := sess.Dive(context.Background(), dctx)
	if err != nil {
		exitWithError(exitCodeFor(err), "diving: %v", err)
	}
	return finishMap(m)
}
