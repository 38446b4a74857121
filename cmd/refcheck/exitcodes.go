package main

// Exit codes shared by all refcheck commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (library path, config file)
	ExitDataError   = 3 // Data error (malformed fragments, empty input)
	ExitNotFound    = 4 // Library record not found
)
