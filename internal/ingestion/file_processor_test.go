package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileProcessor_ScanForFiles(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "scan_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tempDir)

	assert.NoError(t, os.WriteFile(filepath.Join(tempDir, "b.parquet"), []byte("b"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.parquet"), []byte("a"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644))

	nested := filepath.Join(tempDir, "2024")
	assert.NoError(t, os.Mkdir(nested, 0755))
	assert.NoError(t, os.WriteFile(filepath.Join(nested, "c.parquet"), []byte("c"), 0644))

	fileProcessor := NewFileProcessor()

	t.Run("finds only parquet files, sorted by name", func(t *testing.T) {
		fileInfos, err := fileProcessor.ScanForFiles(tempDir)

		assert.NoError(t, err)
		assert.Len(t, fileInfos, 3)
		assert.Equal(t, "a.parquet", fileInfos[0].Name)
		assert.Equal(t, "b.parquet", fileInfos[1].Name)
		assert.Equal(t, "c.parquet", fileInfos[2].Name)
		assert.Equal(t, filepath.Join(nested, "c.parquet"), fileInfos[2].Path)
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		_, err := fileProcessor.ScanForFiles(filepath.Join(tempDir, "missing"))

		assert.Error(t, err)
	})
}
