// Package am loads bindgen configuration.
//
// Values are merged from defaults, a bindgen.toml file (an explicit
// --config path, or the first one found walking up from the working
// directory), BINDGEN_* environment variables and command-line flags, in
// increasing precedence.
package am

import "time"

// Config represents the bindgen configuration
type Config struct {
	LibName        string       `mapstructure:"lib_name"`         // Native library name, replaces the root module
	CustomCode     string       `mapstructure:"custom_code"`      // Raw C placed at the top of <lib_name>.h
	CustomCodeFile string       `mapstructure:"custom_code_file"` // File appended to custom_code
	Input          string       `mapstructure:"input"`            // Declaration stream (YAML)
	Output         OutputConfig `mapstructure:"output"`
	Log            LogConfig    `mapstructure:"log"`
	Watch          WatchConfig  `mapstructure:"watch"`

	// ConfigFile is the file the configuration was read from, empty when
	// only defaults, environment and flags apply.
	ConfigFile string `mapstructure:"-"`
}

// OutputConfig configures where headers are written
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig configures the global logger
type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Verbosity int  `mapstructure:"verbosity"` // same scale as the -v count
}

// WatchConfig configures `generate --watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}
