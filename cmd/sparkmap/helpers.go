package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/bubbledive/sparkmap/internal/config"
	"github.com/bubbledive/sparkmap/internal/dive"
	"github.com/bubbledive/sparkmap/internal/insight"
	"github.com/bubbledive/sparkmap/internal/openai"
	"github.com/bubbledive/sparkmap/internal/session"
)

// newClient builds the API client from global config.
func newClient() *openai.Client {
	var opts []openai.ClientOption
	if key := config.GetOpenAIAPIKey(); key != "" {
		opts = append(opts, openai.WithAPIKey(key))
	}
	if model := config.GetModel(); model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if base := config.GetBaseURL(); base != "" {
		opts = append(opts, openai.WithBaseURL(base))
	}
	return openai.NewClient(opts...)
}

// requireAPIKey exits with a config error when no key is available.
func requireAPIKey() {
	if config.GetOpenAIAPIKey() != "" {
		return
	}
	exitWithError(ExitConfigError,
		"no OpenAI API key configured; set OPENAI_API_KEY or openai_api_key in %s",
		config.GlobalConfigPath())
}

// openStore opens the cache database, creating its directory if needed.
func openStore() *session.Store {
	path := config.GetCachePath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		exitWithError(ExitDataError, "creating cache directory: %v", err)
	}
	store, err := session.OpenStore(path)
	if err != nil {
		exitWithError(ExitDataError, "opening cache: %v", err)
	}
	return store
}

// openSession wires a generation session to the cache. Callers must close
// the returned store.
func openSession() (*session.Session, *session.Store) {
	store := openStore()
	sess := session.New(newClient(), store, session.Options{
		MaxTooltipLen: config.GetMaxTooltipLen(),
	})
	return sess, store
}

// diveOptions maps the configured parent_context policy onto dive options.
func diveOptions() dive.Options {
	return dive.Options{
		BlankRootParent: config.GetParentContext() == config.ParentContextBlank,
	}
}

// exitCodeFor classifies an error from map generation.
func exitCodeFor(err error) int {
	var malformed *insight.MalformedTreeError
	var apiErr *openai.APIError
	switch {
	case openai.IsAuthError(err), openai.IsRateLimited(err), errors.As(err, &apiErr):
		return ExitAPIError
	case errors.As(err, &malformed):
		return ExitDataError
	default:
		return ExitError
	}
}
