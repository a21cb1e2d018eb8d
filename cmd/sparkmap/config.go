package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bubbledive/sparkmap/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global configuration",
	Long: `Manage the global configuration stored in ~/.config/sparkmap/config.yml.

Keys:
  openai_api_key   OpenAI API key (OPENAI_API_KEY env wins)
  model            Model name (default gpt-4.1)
  base_url         API base URL
  cache_path       Cache database path
  max_tooltip_len  Tooltip character cap (default 120)
  parent_context   Dive parent policy for root children: keep or blank`,
}

// ConfigResponse is the JSON output of config get.
type ConfigResponse struct {
	Model         string `json:"model,omitempty"`
	BaseURL       string `json:"base_url,omitempty"`
	CachePath     string `json:"cache_path,omitempty"`
	MaxTooltipLen int    `json:"max_tooltip_len,omitempty"`
	ParentContext string `json:"parent_context,omitempty"`
	HasAPIKey     bool   `json:"has_api_key"`
}

// UpdateResponse is the JSON output of config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobalConfig()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		resp := ConfigResponse{
			Model:         cfg.Model,
			BaseURL:       cfg.BaseURL,
			CachePath:     config.GetCachePath(),
			MaxTooltipLen: cfg.MaxTooltipLen,
			ParentContext: config.GetParentContext(),
			HasAPIKey:     config.GetOpenAIAPIKey() != "",
		}
		if humanOutput {
			outputHuman("model:            %s\n", orDefault(resp.Model, "gpt-4.1"))
			outputHuman("cache_path:       %s\n", resp.CachePath)
			outputHuman("parent_context:   %s\n", resp.ParentContext)
			outputHuman("api key present:  %v\n", resp.HasAPIKey)
			return nil
		}
		return outputJSON(resp)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg, err := config.LoadGlobalConfig()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		updated := *cfg

		switch key {
		case "openai_api_key":
			updated.OpenAIAPIKey = value
		case "model":
			updated.Model = value
		case "base_url":
			updated.BaseURL = value
		case "cache_path":
			updated.CachePath = value
		case "max_tooltip_len":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				exitWithError(ExitError, "max_tooltip_len must be a positive integer")
			}
			updated.MaxTooltipLen = n
		case "parent_context":
			if err := config.ValidateParentContext(value); err != nil {
				exitWithError(ExitError, "%v", err)
			}
			updated.ParentContext = value
		default:
			exitWithError(ExitError, "unknown config key: %s", key)
		}

		if err := config.SaveGlobalConfig(&updated); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		if humanOutput {
			accentOK.Printf("set %s\n", key)
			return nil
		}
		return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if humanOutput {
			outputHuman("%s\n", config.GlobalConfigPath())
			return nil
		}
		return outputJSON(StatusResponse{Status: "ok", Path: config.GlobalConfigPath()})
	},
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
