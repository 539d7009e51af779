package triage

import (
	"fmt"
	"time"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

var suggestedActionsByQueue = map[domain.Queue][]string{
	domain.QueueDuplicateInvoices:    {"confirm this invoice was not already paid", "compare against the matched prior invoice before rejecting"},
	domain.QueueMissingData:          {"verify the invoice references a valid, existing PO number", "check the PO's contract_id against the contracts directory"},
	domain.QueueLowConfidence:        {"manually confirm the PO and supplier match", "consider adding an explicit alias mapping if this supplier name recurs"},
	domain.QueuePriceDiscrepancies:   {"reconcile invoice line items against the PO line items", "contact the supplier if a line item was never ordered"},
	domain.QueueSupplierMismatch:     {"confirm the supplier legal name with the contract owner", "check for a trailing/duplicated whitespace typo"},
	domain.QueueBillingDiscrepancies: {"verify subtotal, tax, and billing_amount arithmetic with the supplier", "check for a PO amendment if the PO total_value is stale"},
	domain.QueueDateDiscrepancies:    {"confirm the invoice issue_date with the supplier", "check whether payment_terms changed since the contract was signed"},
	domain.QueueHighValueApproval:    {"route to the manager-approval queue for sign-off", "double check the PO total_value for a high-value invoice"},
}

func buildExceptionRecord(
	id string,
	queue domain.Queue,
	priority domain.Priority,
	approvalRequired bool,
	reason string,
	result domain.ValidationResult,
	dup domain.DuplicateCheckResult,
	now time.Time,
) domain.ExceptionRecord {
	triple := result.Triple

	rec := domain.ExceptionRecord{
		ExceptionID:             id,
		Timestamp:               now,
		Queue:                   queue,
		Priority:                priority,
		ManagerApprovalRequired: approvalRequired,
		RoutingReason:           reason,
		SuggestedActions:        suggestedActionsByQueue[queue],
	}

	if triple.Invoice != nil {
		rec.InvoiceID = triple.Invoice.InvoiceID
		rec.Supplier = triple.Invoice.SupplierInfo.Name
		amt := triple.Invoice.Summary.BillingAmount
		rec.Amount = &amt
		if rec.PONumber == "" {
			rec.PONumber = triple.Invoice.PurchaseOrderNumber
		}
	}
	if triple.POItem != nil {
		rec.PONumber = triple.POItem.PONumber
	}

	for _, outcome := range result.Outcomes {
		for _, e := range outcome.Exceptions {
			if e.Severity != domain.SeverityFail {
				continue
			}
			rec.ValidationDetails = append(rec.ValidationDetails, domain.Field{Name: "kind", Value: string(e.Kind)})
			rec.ValidationDetails = append(rec.ValidationDetails, domain.Field{Name: "message", Value: e.Message})
			rec.ValidationDetails = append(rec.ValidationDetails, e.Fields...)
		}
	}

	if dup.Best != nil {
		rec.ValidationDetails = append(rec.ValidationDetails,
			domain.Field{Name: "duplicate_confidence", Value: fmt.Sprintf("%.2f", dup.MaxScore)},
			domain.Field{Name: "duplicate_reasons", Value: fmt.Sprint(dup.Best.Reasons)},
		)
	}

	rec.Context = buildContext(triple)
	rec.Metadata = buildMetadata(triple, dup)

	return rec
}

func buildContext(triple domain.ResolvedTriple) []string {
	var ctx []string
	ctx = append(ctx, fmt.Sprintf("po_match: %s (confidence %.2f, type %s)",
		valueOr(triple.Matching.POMatch.MatchedValue, "<not found>"), triple.Matching.POMatch.Confidence, valueOr(triple.Matching.POMatch.MatchType, "none")))
	ctx = append(ctx, fmt.Sprintf("supplier_match: %s (confidence %.2f, type %s)",
		valueOr(triple.Matching.SupplierMatch.MatchedValue, "<not found>"), triple.Matching.SupplierMatch.Confidence, valueOr(triple.Matching.SupplierMatch.MatchType, "none")))
	return ctx
}

func buildMetadata(triple domain.ResolvedTriple, dup domain.DuplicateCheckResult) []domain.Field {
	return []domain.Field{
		{Name: "overall_confidence", Value: fmt.Sprintf("%.2f", triple.Matching.OverallConfidence())},
		{Name: "po_match_confidence", Value: fmt.Sprintf("%.2f", triple.Matching.POMatch.Confidence)},
		{Name: "supplier_match_confidence", Value: fmt.Sprintf("%.2f", triple.Matching.SupplierMatch.Confidence)},
		{Name: "duplicate_score", Value: fmt.Sprintf("%.2f", dup.MaxScore)},
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func buildPaymentItems(triple domain.ResolvedTriple) []domain.PaymentItem {
	inv := triple.Invoice
	if len(inv.LineItems) == 0 {
		return []domain.PaymentItem{{
			InvoiceID:   inv.InvoiceID,
			PONumber:    inv.PurchaseOrderNumber,
			ItemID:      "",
			Description: "",
			Amount:      inv.Summary.BillingAmount,
		}}
	}
	items := make([]domain.PaymentItem, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		items = append(items, domain.PaymentItem{
			InvoiceID:   inv.InvoiceID,
			PONumber:    inv.PurchaseOrderNumber,
			ItemID:      li.ItemID,
			Description: li.Description,
			Amount:      li.LineTotal,
		})
	}
	return items
}

func buildProcessedRecord(triple domain.ResolvedTriple, processingResult string, now time.Time) domain.ProcessedInvoiceRecord {
	inv := triple.Invoice
	rec := domain.ProcessedInvoiceRecord{
		Timestamp:        now,
		ProcessingResult: processingResult,
	}
	if inv == nil {
		return rec
	}
	rec.InvoiceID = inv.InvoiceID
	rec.SupplierName = inv.SupplierInfo.Name
	rec.VendorID = inv.SupplierInfo.VendorID
	rec.InvoiceNumber = inv.InvoiceID
	rec.BillingAmount = inv.Summary.BillingAmount
	rec.PONumber = inv.PurchaseOrderNumber
	rec.LineItemsCount = len(inv.LineItems)
	rec.IssueDate = inv.IssueDate
	return rec
}

func processingResultLabel(disposition domain.Disposition, queue domain.Queue) string {
	switch disposition {
	case domain.DispositionApproved:
		return "APPROVED"
	case domain.DispositionPendingApproval:
		return "PENDING_MANAGER_APPROVAL"
	default:
		return "REJECTED_" + queueLabel(queue)
	}
}

func queueLabel(queue domain.Queue) string {
	label := make([]byte, 0, len(queue))
	for _, r := range string(queue) {
		if r == '-' {
			r = '_'
		}
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		label = append(label, byte(r))
	}
	return string(label)
}
