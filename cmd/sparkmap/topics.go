package main

import (
	"github.com/spf13/cobra"

	"github.com/bubbledive/sparkmap/internal/session"
)

func init() {
	rootCmd.AddCommand(topicsCmd)
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List cached topics",
	Args:  cobra.NoArgs,
	RunE:  runTopics,
}

// TopicsResponse is the JSON output of the topics command.
type TopicsResponse struct {
	Topics []session.TopicInfo `json:"topics"`
	Count  int                 `json:"count"`
}

func runTopics(cmd *cobra.Command, args []string) error {
	store := openStore()
	if store == nil {
		exitWithError(ExitConfigError, "no cache path configured")
	}
	defer store.Close()

	topics, err := store.Topics()
	if err != nil {
		exitWithError(ExitDataError, "listing topics: %v", err)
	}

	if humanOutput {
		if len(topics) == 0 {
			outputHuman("no cached maps\n")
			return nil
		}
		for _, info := range topics {
			accentTopic.Printf("%s", info.Topic)
			accentMeta.Printf("  %d bubbles, %s\n", info.Nodes, info.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	}
	return outputJSON(TopicsResponse{Topics: topics, Count: len(topics)})
}
