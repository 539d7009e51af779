// Package docstore provides read-only, case-insensitive access to the
// invoice/PO/contract JSON documents under a repo's json_files/ directory
// (spec §4.2). Every read returns nil on any parse or I/O error — the store
// itself never fails the caller; it only logs the reason for diagnostics.
// Grounded on the Python source's po_contract_resolver_tool.py
// (find_base_json_dirs, find_subdir_case_insensitive, read_json_file).
package docstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

const jsonFilesDirName = "json_files"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store resolves documents under one repo root.
type Store struct {
	repoRoot string
	log      *zap.Logger
}

// New returns a Store rooted at repoRoot. log may be nil, in which case a
// no-op logger is used.
func New(repoRoot string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{repoRoot: repoRoot, log: log}
}

// resolveSubdir finds, under json_files/, a directory whose name matches
// want case-insensitively. Returns "" if json_files/ or the subdirectory is
// absent.
func (s *Store) resolveSubdir(want string) string {
	base := filepath.Join(s.repoRoot, jsonFilesDirName)
	entries, err := os.ReadDir(base)
	if err != nil {
		s.log.Debug("json_files directory not readable", zap.String("base", base), zap.Error(err))
		return ""
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), want) {
			return filepath.Join(base, e.Name())
		}
	}
	return ""
}

// InvoicesDir resolves the invoices/ subdirectory.
func (s *Store) InvoicesDir() string { return s.resolveSubdir("invoices") }

// POsDir resolves the POs/ subdirectory.
func (s *Store) POsDir() string { return s.resolveSubdir("POs") }

// ContractsDir resolves the contracts/ subdirectory.
func (s *Store) ContractsDir() string { return s.resolveSubdir("contracts") }

func readJSONBOMTolerant(path string) ([]byte, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return bytes.TrimPrefix(raw, utf8BOM), true
}

// ListInvoiceFiles returns invoice filenames (not full paths) under
// InvoicesDir, sorted lexicographically. Returns nil if the directory is
// absent or unreadable.
func (s *Store) ListInvoiceFiles() []string {
	dir := s.InvoicesDir()
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Debug("invoices directory not readable", zap.Error(err))
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// FindInvoicePath resolves a filename argument to a path: an absolute path is
// returned verbatim if it exists, a relative one that exists from the working
// directory is returned made absolute; otherwise it is looked up inside
// InvoicesDir, first by exact name and then case-insensitively.
func (s *Store) FindInvoicePath(filename string) (string, bool) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, true
		}
		return "", false
	}
	if _, err := os.Stat(filename); err == nil {
		abs, err := filepath.Abs(filename)
		if err == nil {
			return abs, true
		}
	}
	dir := s.InvoicesDir()
	if dir == "" {
		return "", false
	}
	candidate := filepath.Join(dir, filename)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true
	}
	// case-insensitive filename match within the directory
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), filename) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// ReadInvoice reads and parses the invoice document at path. Returns nil on
// any I/O or parse error.
func (s *Store) ReadInvoice(path string) *domain.Invoice {
	raw, ok := readJSONBOMTolerant(path)
	if !ok {
		return nil
	}
	var inv domain.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		s.log.Debug("invoice json parse error", zap.String("path", path), zap.Error(err))
		return nil
	}
	inv.SourceFile = path
	return &inv
}

// ReadAllPOItems reads every PO document under POsDir. Documents that fail
// to parse are silently skipped.
func (s *Store) ReadAllPOItems() []domain.POItem {
	dir := s.POsDir()
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var items []domain.POItem
	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, ok := readJSONBOMTolerant(path)
		if !ok {
			continue
		}
		var po domain.POItem
		if err := json.Unmarshal(raw, &po); err != nil {
			s.log.Debug("po json parse error", zap.String("path", path), zap.Error(err))
			continue
		}
		po.SourceFile = path
		items = append(items, po)
	}
	return items
}

// ReadAllContracts reads every contract document under ContractsDir,
// skipping documents that fail to parse.
func (s *Store) ReadAllContracts() []domain.Contract {
	dir := s.ContractsDir()
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var contracts []domain.Contract
	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, ok := readJSONBOMTolerant(path)
		if !ok {
			continue
		}
		var c domain.Contract
		if err := json.Unmarshal(raw, &c); err != nil {
			s.log.Debug("contract json parse error", zap.String("path", path), zap.Error(err))
			continue
		}
		c.SourceFile = path
		contracts = append(contracts, c)
	}
	return contracts
}
