package bindgen

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/internal/util"
)

// CheckResult holds the result of comparing fresh outputs with a directory
type CheckResult struct {
	UpToDate    bool
	Differences []string // produced files whose on-disk text differs
	Missing     []string // produced files absent on disk
	Stale       []string // .h files on disk the run no longer produces
}

// CompareOutputs compares outputs with the files under dir.
// All returned paths are relative to dir and sorted.
func CompareOutputs(outputs Outputs, dir string) (*CheckResult, error) {
	result := &CheckResult{}

	for _, rel := range util.SortedKeys(outputs) {
		existing, err := os.ReadFile(filepath.Join(dir, rel))
		if os.IsNotExist(err) {
			result.Missing = append(result.Missing, rel)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", rel)
		}
		if !bytes.Equal(existing, []byte(outputs[rel])) {
			result.Differences = append(result.Differences, rel)
		}
	}

	stale, err := staleHeaders(outputs, dir)
	if err != nil {
		return nil, err
	}
	result.Stale = stale

	result.UpToDate = len(result.Differences) == 0 && len(result.Missing) == 0 && len(result.Stale) == 0
	return result, nil
}

// staleHeaders lists headers under dir that are not part of outputs.
func staleHeaders(outputs Outputs, dir string) ([]string, error) {
	var stale []string

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return stale, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if filepath.Ext(path) != ".h" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if _, ok := outputs[rel]; !ok {
			stale = append(stale, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", dir)
	}

	sort.Strings(stale)
	return stale, nil
}

// Err returns ErrOutOfDate with the offending files as details, or nil.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	err := errors.WithHint(errors.ErrOutOfDate, "run 'bindgen generate' to regenerate headers")
	for _, f := range r.Differences {
		err = errors.WithDetailf(err, "differs: %s", f)
	}
	for _, f := range r.Missing {
		err = errors.WithDetailf(err, "missing: %s", f)
	}
	for _, f := range r.Stale {
		err = errors.WithDetailf(err, "stale: %s", f)
	}
	return err
}
