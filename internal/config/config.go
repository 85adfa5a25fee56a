package config

// Listener actions.
const (
	ActionLog   = "log"
	ActionCount = "count"
	ActionFail  = "fail"
	ActionLua   = "lua"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the complete herald configuration.
type Config struct {
	Logging   LoggingConfig    `yaml:"logging" toml:"logging"`
	Metrics   MetricsConfig    `yaml:"metrics" toml:"metrics"`
	Fake      bool             `yaml:"fake" toml:"fake"`
	Listeners []ListenerConfig `yaml:"listeners" toml:"listeners"`
	Events    []EventConfig    `yaml:"events" toml:"events"`
	Expect    []ExpectConfig   `yaml:"expect" toml:"expect"`
	Watch     WatchConfig      `yaml:"watch" toml:"watch"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`

	// Format is console or json.
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Addr      string `yaml:"addr" toml:"addr"`
	Namespace string `yaml:"namespace" toml:"namespace"`
}

// ListenerConfig declares one listener.
type ListenerConfig struct {
	// Name identifies the listener in logs and errors.
	Name string `yaml:"name" toml:"name"`

	// Event is the exact name or wildcard pattern to listen on.
	Event string `yaml:"event" toml:"event"`

	// Priority orders listeners; higher runs first.
	Priority int `yaml:"priority" toml:"priority"`

	// Action is one of log, count, fail, lua.
	Action string `yaml:"action" toml:"action"`

	// Fields are payload paths included by the log action.
	Fields []string `yaml:"fields" toml:"fields"`

	// Message is the error message of the fail action.
	Message string `yaml:"message" toml:"message"`

	// Script is inline Lua source for the lua action.
	Script string `yaml:"script" toml:"script"`

	// ScriptFile is a Lua file for the lua action, relative to the
	// configuration file.
	ScriptFile string `yaml:"script_file" toml:"script_file"`
}

// EventConfig declares an occurrence dispatched at startup.
type EventConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Payload string `yaml:"payload" toml:"payload"`
}

// ExpectConfig declares an assertion checked after the scripted events
// when running in fake mode.
type ExpectConfig struct {
	// Event is the expected occurrence name.
	Event string `yaml:"event" toml:"event"`

	// Field and Equals optionally require a payload value.
	Field  string `yaml:"field" toml:"field"`
	Equals string `yaml:"equals" toml:"equals"`

	// Times, when positive, requires an exact number of matches.
	Times int `yaml:"times" toml:"times"`

	// Absent requires that no matching occurrence was dispatched.
	Absent bool `yaml:"absent" toml:"absent"`
}

// WatchConfig configures the file-system source.
type WatchConfig struct {
	Paths        []string `yaml:"paths" toml:"paths"`
	Prefix       string   `yaml:"prefix" toml:"prefix"`
	IgnoreHidden bool     `yaml:"ignore_hidden" toml:"ignore_hidden"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Metrics: MetricsConfig{
			Addr:      ":9090",
			Namespace: "herald",
		},
		Watch: WatchConfig{
			Prefix: "fs",
		},
	}
}
