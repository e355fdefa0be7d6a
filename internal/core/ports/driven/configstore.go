package driven

import "time"

// ConfigStore provides access to persisted application configuration.
// Keys are dotted paths into the TOML document, e.g. "llm.model".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if missing or mistyped.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if missing or mistyped.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false if missing or mistyped.
	GetBool(key string) bool

	// GetDuration parses a duration string such as "60s".
	// Returns 0 if missing or unparsable.
	GetDuration(key string) time.Duration

	// Set stores a value in memory. Call Save to persist.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
