package driven

// ConfigStore holds user-facing settings such as provider choice, API
// keys and chunking parameters. Keys use dot notation ("ai.provider",
// "chat.max_results"). Typed getters return the zero value for missing
// keys or type mismatches, so callers layer their own defaults on top.
type ConfigStore interface {
	// Get retrieves a raw value and whether the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value.
	GetString(key string) string

	// GetInt retrieves an integer value.
	GetInt(key string) int

	// GetBool retrieves a boolean value.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Load re-reads configuration from the backing storage.
	Load() error

	// Path returns where the configuration is persisted.
	Path() string
}
