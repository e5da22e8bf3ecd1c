package am

import (
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the project configuration file searched for
	ConfigFileName = "bindgen.toml"

	// EnvPrefix prefixes environment overrides (BINDGEN_LIB_NAME, BINDGEN_OUTPUT_DIR, ...)
	EnvPrefix = "BINDGEN"

	DefaultLibName    = "backend"
	DefaultInput      = "bindgen.yaml"
	DefaultOutputDir  = "include"
	DefaultDebounceMS = 300

	// DefaultFilePermissions for the config file and its backups
	DefaultFilePermissions = 0644
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("lib_name", DefaultLibName)
	v.SetDefault("custom_code", "")
	v.SetDefault("custom_code_file", "")
	v.SetDefault("input", DefaultInput)

	v.SetDefault("output.dir", DefaultOutputDir)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0) // warnings only

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS) // editors write in bursts
}
