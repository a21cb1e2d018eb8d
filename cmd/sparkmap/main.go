// Package main provides the sparkmap CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// A .env in the working directory may carry OPENAI_API_KEY.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sparkmap",
	Short: "Agent-first insight mindmap generator",
	Long: `sparkmap turns any topic into a BubbleDive SparkMap: a web-researched
mindmap of 5-7 perspective-shifting insights with sub-bubbles, rendered
as a force-directed bubble diagram.

Maps are cached in SQLite so repeat topics load instantly. Commands
output JSON by default for easy integration with AI agents and other
tools; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
