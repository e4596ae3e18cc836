package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultFileMode is used when the target does not exist yet.
const defaultFileMode os.FileMode = 0644

type fileDocumentWriter struct{}

// NewFileDocumentWriter creates a DocumentWriter backed by the local filesystem.
func NewFileDocumentWriter() DocumentWriter {
	return &fileDocumentWriter{}
}

// Write replaces path with lines, one per line, through a temporary file in the same
// directory and a rename, so readers see either the old or the new document. An existing
// file keeps its permissions.
func (w *fileDocumentWriter) Write(path string, lines []string) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if _, err := tmp.WriteString(b.String()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
