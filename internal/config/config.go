// Package config handles global sparkmap configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parent context policies for dive contexts built from direct children of
// the root.
const (
	// ParentContextKeep repeats the root as the parent.
	ParentContextKeep = "keep"
	// ParentContextBlank leaves the parent fields empty so the root is not
	// fed to condensation twice.
	ParentContextBlank = "blank"
)

// GlobalConfig represents configuration stored in ~/.config/sparkmap/config.yml.
type GlobalConfig struct {
	OpenAIAPIKey  string `yaml:"openai_api_key,omitempty"`
	Model         string `yaml:"model,omitempty"`
	BaseURL       string `yaml:"base_url,omitempty"`
	CachePath     string `yaml:"cache_path,omitempty"`
	MaxTooltipLen int    `yaml:"max_tooltip_len,omitempty"`
	ParentContext string `yaml:"parent_context,omitempty"` // keep (default) or blank
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "sparkmap"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// CacheFile is the default cache database file name, stored next to
	// the config file.
	CacheFile = "cache.db"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/sparkmap/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if err := ValidateParentContext(cfg.ParentContext); err != nil {
		return nil, err
	}
	if cfg.CachePath != "" {
		cfg.CachePath = ExpandTilde(cfg.CachePath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// SaveGlobalConfig writes the config file, creating its directory if needed,
// and refreshes the cache.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := ValidateParentContext(cfg.ParentContext); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	globalConfigCache = cfg
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetOpenAIAPIKey returns the OpenAI API key. The OPENAI_API_KEY environment
// variable wins over the config file.
func GetOpenAIAPIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.OpenAIAPIKey
}

// GetModel returns the configured model, or empty for the client default.
func GetModel() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.Model
}

// GetBaseURL returns the configured API base URL, or empty for the default.
func GetBaseURL() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.BaseURL
}

// GetCachePath returns the cache database path, defaulting to a cache.db
// next to the config file.
func GetCachePath() string {
	cfg, _ := LoadGlobalConfig()
	if cfg.CachePath != "" {
		return cfg.CachePath
	}
	path := GlobalConfigPath()
	if path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(path), CacheFile)
}

// GetMaxTooltipLen returns the configured tooltip cap, or zero for the
// default.
func GetMaxTooltipLen() int {
	cfg, _ := LoadGlobalConfig()
	return cfg.MaxTooltipLen
}

// GetParentContext returns the parent context policy for root children.
func GetParentContext() string {
	cfg, _ := LoadGlobalConfig()
	if cfg.ParentContext == "" {
		return ParentContextKeep
	}
	return cfg.ParentContext
}

// ValidateParentContext checks a parent_context value.
func ValidateParentContext(policy string) error {
	switch policy {
	case "", ParentContextKeep, ParentContextBlank:
		return nil
	default:
		return fmt.Errorf("invalid parent_context %q: must be keep or blank", policy)
	}
}

// ExpandTilde expands a leading ~/ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
