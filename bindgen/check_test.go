package bindgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
)

func TestWriteOutputs_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	outputs := Outputs{
		"backend.h":                    "root\n",
		"backend/backend.h":            "lib\n",
		filepath.Join("net", "conn.h"): "conn\n",
	}

	written, err := WriteOutputs(outputs, dir)
	require.NoError(t, err)
	assert.Len(t, written, 3)

	content, err := os.ReadFile(filepath.Join(dir, "net", "conn.h"))
	require.NoError(t, err)
	assert.Equal(t, "conn\n", string(content))
}

func TestCompareOutputs_UpToDate(t *testing.T) {
	dir := t.TempDir()
	outputs := Outputs{"backend.h": "root\n", filepath.Join("backend", "backend.h"): "lib\n"}
	_, err := WriteOutputs(outputs, dir)
	require.NoError(t, err)

	// Non-header files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0644))

	result, err := CompareOutputs(outputs, dir)
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.Empty(t, result.Differences)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.Stale)
	assert.NoError(t, result.Err())
}

func TestCompareOutputs_Drift(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteOutputs(Outputs{
		"backend.h":                    "root\n",
		filepath.Join("old", "gone.h"): "gone\n",
		filepath.Join("net", "conn.h"): "conn v1\n",
	}, dir)
	require.NoError(t, err)

	fresh := Outputs{
		"backend.h":                    "root\n",
		filepath.Join("net", "conn.h"): "conn v2\n",
		filepath.Join("net", "new.h"):  "new\n",
	}

	result, err := CompareOutputs(fresh, dir)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{filepath.Join("net", "conn.h")}, result.Differences)
	assert.Equal(t, []string{filepath.Join("net", "new.h")}, result.Missing)
	assert.Equal(t, []string{filepath.Join("old", "gone.h")}, result.Stale)

	checkErr := result.Err()
	require.Error(t, checkErr)
	assert.True(t, errors.IsOutOfDateError(checkErr))
	assert.Contains(t, errors.FlattenHints(checkErr), "bindgen generate")
	details := errors.GetAllDetails(checkErr)
	assert.Contains(t, details, "stale: "+filepath.Join("old", "gone.h"))
}

func TestCompareOutputs_MissingDirectory(t *testing.T) {
	result, err := CompareOutputs(Outputs{"backend.h": "x"}, filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{"backend.h"}, result.Missing)
	assert.Empty(t, result.Stale)
}
