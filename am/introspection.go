package am

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceFile        ConfigSource = "file"        // bindgen.toml
	SourceEnvironment ConfigSource = "environment" // BINDGEN_* env vars
	SourceFlag        ConfigSource = "flag"        // command-line flag
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"` // File path, env var or flag name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	ConfigFile string        `json:"config_file"` // Path to active config file
	Settings   []SettingInfo `json:"settings"`    // All settings with sources
}

// Introspect reports every effective setting of v and the source that won.
// flags is the flag set v was bound to and may be nil.
func Introspect(v *viper.Viper, flags *pflag.FlagSet) *ConfigIntrospection {
	introspection := &ConfigIntrospection{
		ConfigFile: v.ConfigFileUsed(),
		Settings:   make([]SettingInfo, 0),
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	for _, key := range keys {
		info := SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     SourceDefault,
			SourcePath: "built-in default",
		}

		if v.InConfig(key) {
			info.Source = SourceFile
			info.SourcePath = v.ConfigFileUsed()
		}

		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(envKey); ok {
			info.Source = SourceEnvironment
			info.SourcePath = envKey
		}

		if flags != nil {
			if name, ok := FlagBindings[key]; ok {
				if f := flags.Lookup(name); f != nil && f.Changed {
					info.Source = SourceFlag
					info.SourcePath = "--" + name
				}
			}
		}

		introspection.Settings = append(introspection.Settings, info)
	}

	return introspection
}
