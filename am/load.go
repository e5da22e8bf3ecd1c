package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/bindgen/errors"
)

// FlagBindings maps configuration keys to the command-line flags that
// override them. Flags absent from a command's flag set are ignored.
var FlagBindings = map[string]string{
	"lib_name":         "lib-name",
	"custom_code_file": "custom-code-file",
	"input":            "input",
	"output.dir":       "output",
	"log.json":         "json-log",
	"log.verbosity":    "verbose",
}

// Load reads the configuration. configPath may be empty to search for
// bindgen.toml; flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v, err := NewViper(configPath, flags)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// NewViper builds a Viper instance with every configuration source wired.
func NewViper(configPath string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configPath == "" {
		configPath = findProjectConfig()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}

	if flags != nil {
		for key, name := range FlagBindings {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "failed to bind flag --%s", f.Name)
			}
		}
	}

	return v, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	config.ConfigFile = v.ConfigFileUsed()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// findProjectConfig searches for bindgen.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindProjectConfig(dir)
}

// FindProjectConfig walks up from dir looking for bindgen.toml.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			return ""
		}
		dir = parent
	}
}

// ResolveCustomCode returns custom_code followed by the contents of
// custom_code_file, if one is set.
func (c *Config) ResolveCustomCode() (string, error) {
	code := c.CustomCode
	if c.CustomCodeFile == "" {
		return code, nil
	}

	data, err := os.ReadFile(c.CustomCodeFile)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read custom code file %s", c.CustomCodeFile)
	}
	return code + string(data), nil
}

// WatchPaths returns the files whose changes should trigger regeneration.
func (c *Config) WatchPaths() []string {
	var paths []string
	for _, p := range []string{c.Input, c.ConfigFile, c.CustomCodeFile} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
