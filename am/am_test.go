package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without any config file
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "backend", cfg.LibName)
	assert.Equal(t, "bindgen.yaml", cfg.Input)
	assert.Equal(t, "include", cfg.Output.Dir)
	assert.Empty(t, cfg.CustomCode)
	assert.Empty(t, cfg.CustomCodeFile)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce())
	assert.Empty(t, cfg.ConfigFile)
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
lib_name = "safe_app"
custom_code = "typedef struct App App;"

[output]
dir = "gen/include"

[watch]
debounce_ms = 50
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "safe_app", cfg.LibName)
	assert.Equal(t, "typedef struct App App;", cfg.CustomCode)
	assert.Equal(t, "gen/include", cfg.Output.Dir)
	assert.Equal(t, 50, cfg.Watch.DebounceMS)
	assert.Equal(t, "bindgen.yaml", cfg.Input, "unset keys keep their default")
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Error(t, err)
}

func TestLoad_WalksUpToProjectConfig(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `lib_name = "walked"`)
	nested := filepath.Join(root, "src", "ffi")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, path, FindProjectConfig(nested))

	chdir(t, nested)
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "walked", cfg.LibName)
}

func TestFindProjectConfig_None(t *testing.T) {
	assert.Empty(t, FindProjectConfig(t.TempDir()))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
lib_name = "from_file"
input = "file.yaml"

[output]
dir = "file_out"
`)
	t.Setenv("BINDGEN_LIB_NAME", "from_env")
	t.Setenv("BINDGEN_OUTPUT_DIR", "env_out")

	flags := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	flags.String("lib-name", "", "")
	flags.StringP("output", "o", "", "")
	flags.StringP("input", "i", "", "")
	flags.CountP("verbose", "v", "")
	require.NoError(t, flags.Parse([]string{"--lib-name", "from_flag", "-vv"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from_flag", cfg.LibName, "flags beat env")
	assert.Equal(t, "env_out", cfg.Output.Dir, "env beats file")
	assert.Equal(t, "file.yaml", cfg.Input, "unchanged flags do not override the file")
	assert.Equal(t, 2, cfg.Log.Verbosity)
}

func TestResolveCustomCode(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.h")
	require.NoError(t, os.WriteFile(file, []byte("typedef void* UserData;\n"), 0644))

	cfg := &Config{CustomCode: "typedef struct App App;\n", CustomCodeFile: file}
	code, err := cfg.ResolveCustomCode()
	require.NoError(t, err)
	assert.Equal(t, "typedef struct App App;\ntypedef void* UserData;\n", code)

	cfg = &Config{CustomCode: "inline"}
	code, err = cfg.ResolveCustomCode()
	require.NoError(t, err)
	assert.Equal(t, "inline", code)

	cfg = &Config{CustomCodeFile: filepath.Join(t.TempDir(), "missing.h")}
	_, err = cfg.ResolveCustomCode()
	assert.Error(t, err)
}

func TestWatchPaths(t *testing.T) {
	cfg := &Config{Input: "bindgen.yaml", ConfigFile: "/p/bindgen.toml"}
	assert.Equal(t, []string{"bindgen.yaml", "/p/bindgen.toml"}, cfg.WatchPaths())

	cfg.CustomCodeFile = "custom.h"
	assert.Equal(t, []string{"bindgen.yaml", "/p/bindgen.toml", "custom.h"}, cfg.WatchPaths())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{LibName: "backend", Input: "in.yaml", Output: OutputConfig{Dir: "include"}}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"zero debounce is valid", func(c *Config) { c.Watch.DebounceMS = 0 }, false},
		{"empty lib name", func(c *Config) { c.LibName = " " }, true},
		{"lib name with separator", func(c *Config) { c.LibName = "a/b" }, true},
		{"empty input", func(c *Config) { c.Input = "" }, true},
		{"empty output", func(c *Config) { c.Output.Dir = "" }, true},
		{"negative verbosity", func(c *Config) { c.Log.Verbosity = -1 }, true},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMS = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_InvalidFileValue(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `lib_name = ""`)
	_, err := Load(path, nil)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
