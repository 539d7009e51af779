package record

import (
	"os"
	"path/filepath"
	"sync"
)

// FileWriter appends text blocks to one file under a single mutex, the
// "one mutex per file path" discipline spec §5 calls sufficient for
// per-queue logs, the ledger, and the payments log.
type FileWriter struct {
	path string
	mu   sync.Mutex
}

// NewFileWriter returns a writer for path. The containing directory is
// created lazily on first append.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Append writes text verbatim to the end of the file, creating it (and its
// parent directory) if necessary.
func (w *FileWriter) Append(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(text)
	return err
}

// AppendLine appends text with a trailing newline.
func (w *FileWriter) AppendLine(text string) error {
	return w.Append(text + "\n")
}
