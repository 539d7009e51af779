package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestWatcherProcessesNewInvoiceFile drops a new invoice file into the
// invoices directory after Start and waits for it to be picked up and
// routed, exercising the directory-watcher path instead of the one-shot
// Run sweep.
func TestWatcherProcessesNewInvoiceFile(t *testing.T) {
	root := t.TempDir()
	seedContractAndPO(t, root, "CT-7", "PO-7", "1000.00")

	invoicesDir := filepath.Join(root, "json_files", "invoices")
	require.NoError(t, os.MkdirAll(invoicesDir, 0o755))

	p := newTestPipeline(t, root)
	w := NewWatcher(p, invoicesDir, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	writeInvoice(t, root, "inv-7-watched.json", "INV-7", "PO-7", "900.00", "100.00", "1000.00")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(p.processed.ReadAll()) > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	records := p.processed.ReadAll()
	require.Len(t, records, 1)
	require.Equal(t, "INV-7", records[0].InvoiceID)
}
