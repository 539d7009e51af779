package record

import (
	"strings"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

// ParsePaymentsLog parses payments.log's payment_item lines back into
// domain.PaymentItem values, for the report exporter. The [INFO] header
// lines FormatPaymentsEntry writes are ignored; order is preserved.
func ParsePaymentsLog(raw string) []domain.PaymentItem {
	var items []domain.PaymentItem
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(trimmed, "payment_item:")
		if !ok {
			continue
		}
		item := domain.PaymentItem{}
		for _, part := range strings.Split(rest, ",") {
			key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			switch key {
			case "invoice_id":
				item.InvoiceID = value
			case "po_number":
				item.PONumber = value
			case "item_id":
				item.ItemID = value
			case "description":
				item.Description = value
			case "amount":
				if amt, ok := parseAmount(value); ok {
					item.Amount = amt
				}
			}
		}
		items = append(items, item)
	}
	return items
}
