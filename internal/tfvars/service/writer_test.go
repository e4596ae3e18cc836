package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDocumentWriter_Write(t *testing.T) {
	writer := NewFileDocumentWriter()

	t.Run("CreatesNewFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "terraform.tfvars")

		err := writer.Write(path, []string{"# header", `a = "b"`})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# header\na = \"b\"\n", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("ReplacesExistingFileKeepingMode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "terraform.tfvars")
		require.NoError(t, os.WriteFile(path, []byte("old content\nmore\n"), 0600))
		require.NoError(t, os.Chmod(path, 0600))

		err := writer.Write(path, []string{"new"})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new\n", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temporary files are left behind")
	})

	t.Run("Error_MissingDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "terraform.tfvars")

		err := writer.Write(path, []string{"x"})
		assert.Error(t, err)
	})
}
