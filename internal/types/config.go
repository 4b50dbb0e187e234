package types

type RunMode string

const (
	// ModeLocal is the mode for running the management server locally
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the management server behind its HTTP API
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
