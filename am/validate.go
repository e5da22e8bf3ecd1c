package am

import (
	"strings"

	"github.com/teranos/bindgen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// lib_name names the aggregate header and a directory, so it must be a
	// single path segment
	if strings.TrimSpace(c.LibName) == "" {
		return errors.New("lib_name cannot be empty")
	}
	if strings.ContainsAny(c.LibName, `/\`) {
		return errors.Newf("lib_name must not contain path separators, got %q", c.LibName)
	}

	if c.Input == "" {
		return errors.New("input cannot be empty")
	}
	if c.Output.Dir == "" {
		return errors.New("output.dir cannot be empty")
	}

	// Verbosity: 0 = warnings only, negative = invalid
	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	// Debounce: 0 = regenerate on every event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
