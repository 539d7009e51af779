package triage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/duplog"
	"github.com/crestline-ap/invoice-exceptions/internal/validate"
)

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func happyPathTriple() domain.ResolvedTriple {
	inv := &domain.Invoice{
		InvoiceID:           "INV-1",
		PurchaseOrderNumber: "PO-1",
		SupplierInfo:        domain.SupplierInfo{Name: "Acme Manufacturing", VendorID: "V-100"},
		BillToInfo:          domain.BillToInfo{Name: "Crestline AP"},
		IssueDate:           "2024-06-01",
		DueDate:             "2024-07-01",
		PaymentTerms:        "Net 30",
		Summary: domain.Summary{
			Subtotal:      mustDec("900.00"),
			TaxAmount:     mustDec("100.00"),
			BillingAmount: mustDec("1000.00"),
		},
	}
	po := &domain.POItem{
		PONumber:      "PO-1",
		ContractID:    "CT-1",
		EffectiveDate: "2024-01-01",
		TotalValue:    mustDec("1000.00"),
	}
	contract := &domain.Contract{
		ContractID: "CT-1",
		Parties: domain.Parties{
			Supplier: domain.Party{Name: "Acme Manufacturing", VendorID: "V-100"},
			Client:   domain.Party{Name: "Crestline AP"},
		},
		ContractMetadata: domain.ContractMetadata{EffectiveDate: "2024-01-01", EndDate: "2024-12-31"},
	}
	return domain.ResolvedTriple{
		Invoice:  inv,
		POItem:   po,
		Contract: contract,
		Matching: domain.MatchingDetails{
			POMatch:       domain.MatchResult{Confidence: 1.0, MatchType: "exact"},
			SupplierMatch: domain.MatchResult{Confidence: 1.0, MatchType: "vendor_id_exact"},
		},
	}
}

func TestDecideHappyPathApproved(t *testing.T) {
	triple := happyPathTriple()
	result, dup := validate.Run(triple, nil)

	queue, priority, approval, disposition, reason := decide(result, dup, DefaultConfig)

	assert.Equal(t, domain.Queue(""), queue)
	assert.Equal(t, domain.PriorityNone, priority)
	assert.False(t, approval)
	assert.Equal(t, domain.DispositionApproved, disposition)
	assert.Empty(t, reason)
}

func TestDecideOverbillingRoutesBillingDiscrepancies(t *testing.T) {
	triple := happyPathTriple()
	triple.Invoice.Summary.BillingAmount = mustDec("1500.00")
	result, dup := validate.Run(triple, nil)

	queue, _, _, disposition, _ := decide(result, dup, DefaultConfig)

	assert.Equal(t, domain.QueueBillingDiscrepancies, queue)
	assert.Equal(t, domain.DispositionRejected, disposition)
}

func TestDecideHighValuePassAllRoutesApproval(t *testing.T) {
	triple := happyPathTriple()
	triple.Invoice.Summary.Subtotal = mustDec("13500.00")
	triple.Invoice.Summary.TaxAmount = mustDec("1500.00")
	triple.Invoice.Summary.BillingAmount = mustDec("15000.00")
	triple.POItem.TotalValue = mustDec("15000.00")
	result, dup := validate.Run(triple, nil)
	require.True(t, result.AllPass())

	queue, priority, approval, disposition, _ := decide(result, dup, DefaultConfig)

	assert.Equal(t, domain.QueueHighValueApproval, queue)
	assert.Equal(t, domain.PriorityHigh, priority)
	assert.True(t, approval)
	assert.Equal(t, domain.DispositionPendingApproval, disposition)
}

func TestDecideLowConfidenceRejected(t *testing.T) {
	triple := happyPathTriple()
	triple.Matching.POMatch.Confidence = 0.75
	triple.Matching.SupplierMatch.Confidence = 0.6
	result, dup := validate.Run(triple, nil)

	queue, _, _, disposition, _ := decide(result, dup, DefaultConfig)

	assert.Equal(t, domain.QueueLowConfidence, queue)
	assert.Equal(t, domain.DispositionRejected, disposition)
}

func TestDecideSupplierWhitespaceMismatch(t *testing.T) {
	triple := happyPathTriple()
	triple.Invoice.SupplierInfo.Name = "Acme  Manufacturing"
	result, dup := validate.Run(triple, nil)

	queue, priority, approval, disposition, _ := decide(result, dup, DefaultConfig)

	assert.Equal(t, domain.QueueSupplierMismatch, queue)
	assert.Equal(t, domain.PriorityMedium, priority)
	assert.False(t, approval)
	assert.Equal(t, domain.DispositionRejected, disposition)
}

func TestDecideMissingDependencyRejected(t *testing.T) {
	triple := domain.ResolvedTriple{Invoice: happyPathTriple().Invoice}
	result, dup := validate.Run(triple, nil)

	queue, priority, approval, disposition, _ := decide(result, dup, DefaultConfig)

	assert.Equal(t, domain.QueueMissingData, queue)
	assert.Equal(t, domain.PriorityHigh, priority)
	assert.True(t, approval)
	assert.Equal(t, domain.DispositionRejected, disposition)
}

func TestDecideDuplicateTakesPriorityOverEverythingElse(t *testing.T) {
	triple := happyPathTriple()
	triple.Invoice.Summary.BillingAmount = mustDec("1500.00") // would otherwise fail billing
	result, _ := validate.Run(triple, nil)
	dup := domain.DuplicateCheckResult{MaxScore: 0.95, IsDuplicate: true}

	queue, priority, approval, disposition, _ := decide(result, dup, DefaultConfig)

	assert.Equal(t, domain.QueueDuplicateInvoices, queue)
	assert.Equal(t, domain.PriorityHigh, priority)
	assert.True(t, approval)
	assert.Equal(t, domain.DispositionRejected, disposition)
}

// --- router integration tests -------------------------------------------

func TestRouterApprovedWritesPaymentsAndProcessedLog(t *testing.T) {
	dir := t.TempDir()
	logsDir := filepath.Join(dir, "system_logs")
	plog := duplog.New(logsDir, nil)
	r := New(logsDir, plog, nil, DefaultConfig, nil)

	triple := happyPathTriple()
	triple.Invoice.LineItems = []domain.LineItem{
		{ItemID: "L1", Description: "widgets", Quantity: 1, UnitPrice: mustDec("1000.00"), LineTotal: mustDec("1000.00")},
	}
	triple.POItem.Description = "widgets"
	result, dup := validate.Run(triple, nil)
	require.True(t, result.AllPass())

	outcome, err := r.Route(context.Background(), result, dup)
	require.NoError(t, err)
	assert.Equal(t, domain.DispositionApproved, outcome.Disposition)
	assert.Nil(t, outcome.Exception)

	paymentsBytes, err := os.ReadFile(filepath.Join(logsDir, "payments.log"))
	require.NoError(t, err)
	assert.Contains(t, string(paymentsBytes), "INV-1")
	assert.Contains(t, string(paymentsBytes), "payment_item:")

	records := plog.ReadAll()
	require.Len(t, records, 1)
	assert.Equal(t, "INV-1", records[0].InvoiceID)
	assert.Equal(t, "APPROVED", records[0].ProcessingResult)
}

func TestRouterRejectedWritesQueueAndLedgerAndDuplicateFeedsNextCall(t *testing.T) {
	dir := t.TempDir()
	logsDir := filepath.Join(dir, "system_logs")
	plog := duplog.New(logsDir, nil)
	r := New(logsDir, plog, nil, DefaultConfig, nil)

	triple := happyPathTriple()
	result, dup := validate.Run(triple, nil)

	outcome, err := r.Route(context.Background(), result, dup)
	require.NoError(t, err)
	require.Equal(t, domain.DispositionApproved, outcome.Disposition)

	// Second submission of the same invoice is a duplicate.
	priorRecords := plog.ReadAll()
	require.Len(t, priorRecords, 1)

	triple2 := happyPathTriple()
	result2, dup2 := validate.Run(triple2, priorRecords)
	require.True(t, dup2.MaxScore >= 0.8)
	require.True(t, dup2.IsDuplicate)

	outcome2, err := r.Route(context.Background(), result2, dup2)
	require.NoError(t, err)
	assert.Equal(t, domain.DispositionRejected, outcome2.Disposition)
	assert.Equal(t, domain.QueueDuplicateInvoices, outcome2.Queue)
	require.NotNil(t, outcome2.Exception)
	assert.Regexp(t, `^EXC-[0-9A-F]{12}$`, outcome2.Exception.ExceptionID)

	queueBytes, err := os.ReadFile(filepath.Join(logsDir, "queue_duplicate_invoices.log"))
	require.NoError(t, err)
	assert.Contains(t, string(queueBytes), "=== EXCEPTION_START ===")
	assert.Contains(t, string(queueBytes), "QUEUE: duplicate_invoices")

	ledgerBytes, err := os.ReadFile(filepath.Join(logsDir, "exceptions_ledger.log"))
	require.NoError(t, err)
	assert.Contains(t, string(ledgerBytes), "[EXCEPTION]")
	assert.Contains(t, string(ledgerBytes), "queue=duplicate_invoices")
}

type recordingNotifier struct {
	calls []domain.ExceptionRecord
}

func (n *recordingNotifier) Notify(_ context.Context, e domain.ExceptionRecord) error {
	n.calls = append(n.calls, e)
	return nil
}

func TestRouterNotifiesOnlyOnHighPriority(t *testing.T) {
	dir := t.TempDir()
	logsDir := filepath.Join(dir, "system_logs")
	plog := duplog.New(logsDir, nil)
	notifier := &recordingNotifier{}
	r := New(logsDir, plog, notifier, DefaultConfig, nil)

	triple := happyPathTriple()
	triple.Invoice.SupplierInfo.Name = "Acme  Manufacturing" // supplier mismatch -> medium priority
	result, dup := validate.Run(triple, nil)

	_, err := r.Route(context.Background(), result, dup)
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)

	triple2 := happyPathTriple()
	triple2.Invoice.InvoiceID = "INV-2"
	triple2.Invoice.Summary.BillingAmount = mustDec("1500.00") // billing fail -> high priority
	result2, dup2 := validate.Run(triple2, nil)

	_, err = r.Route(context.Background(), result2, dup2)
	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, domain.QueueBillingDiscrepancies, notifier.calls[0].Queue)
}
