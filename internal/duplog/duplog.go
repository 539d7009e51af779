// Package duplog implements the processed-invoice log (spec §4.7): an
// append-only text file of `PROCESSED: <json>` lines that the duplicate
// detector reads and triage is the sole writer of. Grounded on the Python
// source's _ensure_processed_invoices_log / _load_processed_invoices /
// _log_processed_invoice, and on the concurrency discipline of spec §5: one
// mutex guards the write path, reads are lock-free and tolerate a torn
// final line.
package duplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

const fileName = "processed_invoices.log"
const linePrefix = "PROCESSED: "

// Log is the processed-invoice log under one system_logs directory.
type Log struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

// New returns a Log backed by <systemLogsDir>/processed_invoices.log.
func New(systemLogsDir string, log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{path: filepath.Join(systemLogsDir, fileName), log: log}
}

// ReadAll returns every well-formed record in the log, in file order.
// Malformed JSON lines — including a torn final line left by a concurrent
// writer — are silently skipped, per spec §4.7 and §5.
func (l *Log) ReadAll() []domain.ProcessedInvoiceRecord {
	f, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var records []domain.ProcessedInvoiceRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < len(linePrefix) || line[:len(linePrefix)] != linePrefix {
			continue
		}
		var rec domain.ProcessedInvoiceRecord
		if err := json.Unmarshal([]byte(line[len(linePrefix):]), &rec); err != nil {
			l.log.Debug("skipping malformed processed-invoice line", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Append writes one record as a single atomic line. Per spec §5 this is an
// unconditional read-then-write under a single mutex — not a
// compare-and-swap — which is the documented, accepted race.
func (l *Log) Append(rec domain.ProcessedInvoiceRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = f.Write(append([]byte(linePrefix), append(payload, '\n')...))
	return err
}
