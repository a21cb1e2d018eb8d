package main

// Exit codes shared by all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing API key, invalid config)
	ExitDataError   = 3 // Data error (malformed generator output, cache corruption)
	ExitAPIError    = 4 // Upstream API failure (auth, rate limit, server error)
)
