package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TempDirWithFiles creates a temporary directory (cleaned up when the test
// finishes) containing an empty file for each name provided. The directory
// and the absolute path of each file are returned.
func TempDirWithFiles(t *testing.T, files []string) (string, []string) {
	dirPath := t.TempDir()
	filePaths := make([]string, 0, len(files))
	for _, filename := range files {
		filePaths = append(filePaths, WriteFile(t, dirPath, filename, nil))
	}

	assert.Len(t, filePaths, len(files), "Expected file paths recorded to match length of requested files")
	return dirPath, filePaths
}

// WriteFile writes content to dir/name, creating any parent directories, and
// returns the resulting path. Failure aborts the calling test.
func WriteFile(t *testing.T, dir string, name string, content []byte) string {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		t.Fatalf("failed to create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}

	return path
}

// ListDir returns the names of every entry in the directory.
func ListDir(t *testing.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	assert.Nil(t, err, "failed to read directory %s", dir)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}
