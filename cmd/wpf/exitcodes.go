package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing API key, invalid backend)
	ExitDataError   = 3 // Data error (unreadable input, invalid query parameters)
	ExitNotFound    = 4 // Nothing matched (journal not found, no articles)
)
