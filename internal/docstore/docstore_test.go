package docstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCaseInsensitiveDirResolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "json_files", "Invoices", "inv-1.json"), `{"invoice_id":"INV-1"}`)

	s := New(root, nil)
	dir := s.InvoicesDir()
	require.NotEmpty(t, dir)
	require.Equal(t, filepath.Join(root, "json_files", "Invoices"), dir)
}

func TestListInvoiceFilesDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "json_files", "invoices", "b.json"), `{}`)
	writeFile(t, filepath.Join(root, "json_files", "invoices", "a.json"), `{}`)

	s := New(root, nil)
	names := s.ListInvoiceFiles()
	require.Equal(t, []string{"a.json", "b.json"}, names)
}

func TestReadInvoiceBOMTolerant(t *testing.T) {
	root := t.TempDir()
	bom := "\xef\xbb\xbf"
	writeFile(t, filepath.Join(root, "json_files", "invoices", "inv.json"), bom+`{"invoice_id":"INV-1"}`)

	s := New(root, nil)
	inv := s.ReadInvoice(filepath.Join(root, "json_files", "invoices", "inv.json"))
	require.NotNil(t, inv)
	require.Equal(t, "INV-1", inv.InvoiceID)
}

func TestReadInvoiceMalformedReturnsNil(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "json_files", "invoices", "bad.json"), `{not valid json`)

	s := New(root, nil)
	inv := s.ReadInvoice(filepath.Join(root, "json_files", "invoices", "bad.json"))
	require.Nil(t, inv)
}

func TestFindInvoicePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "json_files", "invoices", "inv-1.json"), `{}`)

	s := New(root, nil)
	path, ok := s.FindInvoicePath("inv-1.json")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "json_files", "invoices", "inv-1.json"), path)

	_, ok = s.FindInvoicePath("does-not-exist.json")
	require.False(t, ok)
}

func TestReadAllPOItemsSkipsMalformed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "json_files", "POs", "good.json"), `{"po_number":"PO-1"}`)
	writeFile(t, filepath.Join(root, "json_files", "POs", "bad.json"), `not json`)

	s := New(root, nil)
	items := s.ReadAllPOItems()
	require.Len(t, items, 1)
	require.Equal(t, "PO-1", items[0].PONumber)
}
