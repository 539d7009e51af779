package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/money"
)

func sampleException() domain.ExceptionRecord {
	amt := money.FromFloat(1234.5)
	return domain.ExceptionRecord{
		ExceptionID:             "EXC-ABCDEF012345",
		Timestamp:               time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Queue:                   domain.QueueBillingDiscrepancies,
		Priority:                domain.PriorityHigh,
		InvoiceID:               "INV-1",
		PONumber:                "PO-1",
		Amount:                  &amt,
		Supplier:                "Acme Manufacturing",
		RoutingReason:           "billing_amount exceeds po total_value",
		ManagerApprovalRequired: true,
		ValidationDetails: []domain.Field{
			{Name: "invoice_value", Value: "1234.50"},
			{Name: "po_value", Value: "1000.00"},
		},
		Context:          []string{"resolved PO-1 with confidence 1.00"},
		SuggestedActions: []string{"confirm billed amount with supplier", "check for a PO amendment"},
		Metadata:         []domain.Field{{Name: "overall_confidence", Value: "1.00"}},
	}
}

func TestFormatExceptionContainsRequiredFields(t *testing.T) {
	text := FormatException(sampleException())
	assert.Contains(t, text, exceptionStart)
	assert.Contains(t, text, exceptionEnd)
	assert.Contains(t, text, "EXCEPTION_ID: EXC-ABCDEF012345")
	assert.Contains(t, text, "QUEUE: billing_discrepancies")
	assert.Contains(t, text, "AMOUNT: $1,234.50")
	assert.Contains(t, text, "MANAGER_APPROVAL_REQUIRED: YES")
}

func TestExceptionRoundTrip(t *testing.T) {
	original := sampleException()
	text := FormatException(original)

	parsed, err := ParseException(text)
	require.NoError(t, err)

	assert.Equal(t, original.ExceptionID, parsed.ExceptionID)
	assert.Equal(t, original.Queue, parsed.Queue)
	assert.Equal(t, original.Priority, parsed.Priority)
	assert.True(t, original.Timestamp.Equal(parsed.Timestamp))
	assert.Equal(t, original.InvoiceID, parsed.InvoiceID)
	assert.Equal(t, original.PONumber, parsed.PONumber)
	require.NotNil(t, parsed.Amount)
	assert.True(t, original.Amount.Equal(*parsed.Amount))
	assert.Equal(t, original.Supplier, parsed.Supplier)
	assert.Equal(t, original.ManagerApprovalRequired, parsed.ManagerApprovalRequired)
	assert.Equal(t, original.ValidationDetails, parsed.ValidationDetails)
	assert.Equal(t, original.Context, parsed.Context)
	assert.Equal(t, original.SuggestedActions, parsed.SuggestedActions)
	assert.Equal(t, original.Metadata, parsed.Metadata)
}

func TestFormatAmountNA(t *testing.T) {
	assert.Equal(t, "N/A", formatAmount(nil))
}

func TestFormatLedgerLine(t *testing.T) {
	e := sampleException()
	line := FormatLedgerLine(e)
	assert.Contains(t, line, "id=EXC-ABCDEF012345")
	assert.Contains(t, line, "queue=billing_discrepancies")
	assert.Contains(t, line, "status=OPEN")
}

func TestFormatPaymentsEntry(t *testing.T) {
	items := []domain.PaymentItem{
		{InvoiceID: "INV-1", PONumber: "PO-1", ItemID: "L1", Description: "widget", Amount: money.FromFloat(100)},
	}
	text := FormatPaymentsEntry("INV-1", items, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, text, "Invoice INV-1 approved. Routing to Payment System.")
	assert.Contains(t, text, "payment_item: invoice_id=INV-1, po_number=PO-1, item_id=L1, description=widget, amount=100.00")
}

func TestSplitExceptionBlocksRoundTripsThroughParseException(t *testing.T) {
	a := sampleException()
	b := sampleException()
	b.ExceptionID = "EXC-000000000002"
	raw := FormatException(a) + FormatException(b)

	blocks := SplitExceptionBlocks(raw)
	require.Len(t, blocks, 2)

	first, err := ParseException(blocks[0])
	require.NoError(t, err)
	assert.Equal(t, a.ExceptionID, first.ExceptionID)

	second, err := ParseException(blocks[1])
	require.NoError(t, err)
	assert.Equal(t, b.ExceptionID, second.ExceptionID)
}

func TestSplitExceptionBlocksEmptyLog(t *testing.T) {
	assert.Nil(t, SplitExceptionBlocks(""))
}

func TestParsePaymentsLogRoundTrip(t *testing.T) {
	items := []domain.PaymentItem{
		{InvoiceID: "INV-1", PONumber: "PO-1", ItemID: "L1", Description: "widget", Amount: money.FromFloat(100)},
		{InvoiceID: "INV-1", PONumber: "PO-1", ItemID: "L2", Description: "gizmo", Amount: money.FromFloat(50.5)},
	}
	text := FormatPaymentsEntry("INV-1", items, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	text += FormatPaymentsEntry("INV-2", []domain.PaymentItem{
		{InvoiceID: "INV-2", PONumber: "PO-2", ItemID: "L1", Description: "thing", Amount: money.FromFloat(9.99)},
	}, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))

	parsed := ParsePaymentsLog(text)
	require.Len(t, parsed, 3)
	assert.Equal(t, "INV-1", parsed[0].InvoiceID)
	assert.Equal(t, "L2", parsed[1].ItemID)
	assert.True(t, items[1].Amount.Equal(parsed[1].Amount))
	assert.Equal(t, "INV-2", parsed[2].InvoiceID)
}
