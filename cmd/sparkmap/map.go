package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bubbledive/sparkmap/internal/export"
	"github.com/bubbledive/sparkmap/internal/graph"
	"github.com/bubbledive/sparkmap/internal/session"
)

var (
	mapFresh  bool
	mapStatic bool
	mapOut    string
	mapNoSave bool
)

func init() {
	mapCmd.Flags().BoolVar(&mapFresh, "fresh", false, "Bypass the cache and regenerate")
	mapCmd.Flags().BoolVar(&mapStatic, "static", false, "Export a static SVG diagram instead of the interactive one")
	mapCmd.Flags().StringVar(&mapOut, "out", ".", "Directory to write the HTML and text exports to")
	mapCmd.Flags().BoolVar(&mapNoSave, "no-files", false, "Skip writing export files")
	rootCmd.AddCommand(mapCmd)
}

var mapCmd = &cobra.Command{
	Use:   "map <topic>",
	Short: "Generate a SparkMap and export it",
	Long: `Generate a SparkMap for a topic and write the HTML diagram and text
outline next to it. Cached maps are reused unless --fresh is given.

Examples:
  sparkmap map "how do tides work"
  sparkmap map "jazz harmony" --fresh --static
  sparkmap map "jazz harmony" --out ~/maps`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

// MapResponse is the JSON output of the map command.
type MapResponse struct {
	Topic     string   `json:"topic"`
	Cached    bool     `json:"cached"`
	Elapsed   string   `json:"elapsed"`
	Nodes     int      `json:"nodes"`
	Edges     int      `json:"edges"`
	Citations int      `json:"citations"`
	Warnings  []string `json:"warnings,omitempty"`
	HTMLFile  string   `json:"html_file,omitempty"`
	TextFile  string   `json:"text_file,omitempty"`
}

func runMap(cmd *cobra.Command, args []string) error {
	topic := strings.TrimSpace(args[0])
	if topic == "" {
		exitWithError(ExitError, "topic cannot be empty")
	}
	if !mapFresh {
		// A cache hit needs no API key.
		if store := openStore(); store != nil {
			rec, err := store.Get(topic)
			store.Close()
			if err == nil && rec != nil {
				m := &session.Map{Topic: rec.Topic, Tree: rec.Tree, Citations: rec.Citations,
					Elapsed: rec.Duration, FromCache: true}
				return finishMap(m)
			}
		}
	}
	requireAPIKey()

	sess, store := openSession()
	if store != nil {
		defer store.Close()
	}

	m, err := sess.BuildMap(context.Background(), topic, mapFresh)
	if err != nil {
		exitWithError(exitCodeFor(err), "generating map: %v", err)
	}
	return finishMap(m)
}

func finishMap(m *session.Map) error {
	if m.Graph == nil {
		m.Graph = graph.Flatten(m.Tree)
	}

	resp := MapResponse{
		Topic:     m.Topic,
		Cached:    m.FromCache,
		Elapsed:   formatDuration(m.Elapsed),
		Nodes:     len(m.Graph.Nodes),
		Edges:     len(m.Graph.Edges),
		Citations: len(m.Citations),
		Warnings:  m.Graph.Warnings,
	}

	if !mapNoSave {
		htmlPath, textPath, err := writeExports(m)
		if err != nil {
			exitWithError(ExitError, "writing exports: %v", err)
		}
		resp.HTMLFile = htmlPath
		resp.TextFile = textPath
	}

	if humanOutput {
		accentTopic.Printf("BubbleDive SparkMap: %s\n", m.Topic)
		if m.FromCache {
			accentMeta.Printf("  loaded from cache (%s)\n", resp.Elapsed)
		} else {
			accentMeta.Printf("  generated in %s\n", resp.Elapsed)
		}
		outputHuman("  %d bubbles, %d links, %d references\n", resp.Nodes, resp.Edges, resp.Citations)
		for _, w := range m.Graph.Warnings {
			outputHuman("  warning: %s\n", w)
		}
		if resp.HTMLFile != "" {
			accentOK.Printf("  wrote %s\n", resp.HTMLFile)
			accentOK.Printf("  wrote %s\n", resp.TextFile)
		}
		return nil
	}
	return outputJSON(resp)
}

// writeExports renders the HTML document and text outline to the out dir.
func writeExports(m *session.Map) (htmlPath, textPath string, err error) {
	opts := export.DefaultOptions()
	if mapStatic {
		opts.Mode = export.ModeStatic
	}

	doc, err := export.HTML(m.Graph, m.Topic, m.Citations, opts)
	if err != nil {
		return "", "", err
	}

	htmlPath = filepath.Join(mapOut, export.HTMLFilename(m.Topic))
	if err := os.WriteFile(htmlPath, []byte(doc), 0o644); err != nil {
		return "", "", err
	}

	textPath = filepath.Join(mapOut, export.TextFilename(m.Topic))
	if err := os.WriteFile(textPath, []byte(export.Text(m.Tree)), 0o644); err != nil {
		return "", "", err
	}
	return htmlPath, textPath, nil
}
