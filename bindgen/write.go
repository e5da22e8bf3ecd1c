package bindgen

import (
	"os"
	"path/filepath"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/internal/util"
)

// WriteOutputs writes every output under dir, creating directories as
// needed, and returns the written paths in sorted order.
func WriteOutputs(outputs Outputs, dir string) ([]string, error) {
	written := make([]string, 0, len(outputs))
	for _, rel := range util.SortedKeys(outputs) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return written, errors.Wrapf(err, "failed to create directory for %s", rel)
		}
		if err := os.WriteFile(path, []byte(outputs[rel]), 0644); err != nil {
			return written, errors.Wrapf(err, "failed to write %s", rel)
		}
		written = append(written, path)
	}
	return written, nil
}
