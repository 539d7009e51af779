package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

func TestBuildWritesOneSheetPerQueuePlusPayments(t *testing.T) {
	amt := decimal.RequireFromString("1500.00")
	exceptions := []domain.ExceptionRecord{
		{
			ExceptionID:   "EXC-AAAAAAAAAAAA",
			Timestamp:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Queue:         domain.QueueBillingDiscrepancies,
			Priority:      domain.PriorityHigh,
			InvoiceID:     "INV-2",
			PONumber:      "PO-1",
			Amount:        &amt,
			Supplier:      "Acme Manufacturing",
			RoutingReason: "invoice billing arithmetic or PO ceiling was violated",
		},
	}
	payments := []domain.PaymentItem{
		{InvoiceID: "INV-1", PONumber: "PO-1", ItemID: "L1", Description: "widgets", Amount: decimal.RequireFromString("900.00")},
	}

	out := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, New(nil).Build(exceptions, payments, out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Contains(t, sheets, string(domain.QueueBillingDiscrepancies))
	require.Contains(t, sheets, "payments")

	val, err := f.GetCellValue(string(domain.QueueBillingDiscrepancies), "A2")
	require.NoError(t, err)
	require.Equal(t, "EXC-AAAAAAAAAAAA", val)

	val, err = f.GetCellValue("payments", "A2")
	require.NoError(t, err)
	require.Equal(t, "INV-1", val)
}

func TestBuildWithNoDataStillWritesWorkbook(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, New(nil).Build(nil, nil, out))

	_, err := excelize.OpenFile(out)
	require.NoError(t, err)
}
