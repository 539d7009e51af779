package record

import (
	"fmt"
	"time"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

// FormatLedgerLine renders the one-line exceptions-ledger summary for e,
// per spec §6.2.
func FormatLedgerLine(e domain.ExceptionRecord) string {
	return fmt.Sprintf(
		"[EXCEPTION] [%s] id=%s status=OPEN type=VALIDATION_FAILED invoice_id=%s queue=%s",
		e.Timestamp.UTC().Format(rfc3339UTC), e.ExceptionID, e.InvoiceID, e.Queue,
	)
}

// FormatPaymentsEntry renders the payments.log block for one APPROVED
// invoice: one [INFO] header line plus one payment_item line per line item,
// per spec §6.3.
func FormatPaymentsEntry(invoiceID string, items []domain.PaymentItem, ts time.Time) string {
	var b []byte
	b = append(b, fmt.Sprintf("[INFO] [%s] Invoice %s approved. Routing to Payment System.\n",
		ts.UTC().Format(rfc3339UTC), invoiceID)...)
	for _, item := range items {
		b = append(b, fmt.Sprintf(
			"    payment_item: invoice_id=%s, po_number=%s, item_id=%s, description=%s, amount=%s\n",
			item.InvoiceID, item.PONumber, item.ItemID, item.Description, item.Amount.StringFixed(2),
		)...)
	}
	return string(b)
}
