package domain

import (
	"time"

	"github.com/crestline-ap/invoice-exceptions/internal/money"
)

// ProcessedInvoiceRecord is one line of system_logs/processed_invoices.log
// (§3, §6.4): the durable fingerprint the duplicate detector consults and
// triage appends to exactly once per invoice that reaches a terminal
// disposition.
type ProcessedInvoiceRecord struct {
	Timestamp       time.Time    `json:"timestamp"`
	InvoiceID       string       `json:"invoice_id"`
	SupplierName    string       `json:"supplier_name"`
	VendorID        string       `json:"vendor_id"`
	InvoiceNumber   string       `json:"invoice_number"`
	BillingAmount   money.Amount `json:"billing_amount"`
	PONumber        string       `json:"po_number"`
	ProcessingResult string      `json:"processing_result"`
	LineItemsCount  int          `json:"line_items_count"`
	IssueDate       string       `json:"issue_date"`
}

// DuplicateMatch is one scored comparison against a prior processed-invoice
// record (§4.5.5).
type DuplicateMatch struct {
	Record     ProcessedInvoiceRecord
	Score      float64
	Reasons    []string
}

// DuplicateCheckResult is the duplicate detector's finding for one invoice.
type DuplicateCheckResult struct {
	MaxScore    float64
	Best        *DuplicateMatch
	IsDuplicate bool // max_score > 0.8
	Possible    bool // 0.5 < max_score <= 0.8
}

// Queue is one of the named exception buckets from §4.8/§6.5.
type Queue string

const (
	QueueDuplicateInvoices  Queue = "duplicate_invoices"
	QueueMissingData        Queue = "missing_data"
	QueueLowConfidence      Queue = "low_confidence_matches"
	QueuePriceDiscrepancies Queue = "price_discrepancies"
	QueueSupplierMismatch   Queue = "supplier_mismatch"
	QueueBillingDiscrepancies Queue = "billing_discrepancies"
	QueueDateDiscrepancies  Queue = "date_discrepancies"
	QueueHighValueApproval  Queue = "high_value_approval"
)

// ExceptionRecord is the canonical, delimited record triage writes for any
// REJECTED or PENDING_APPROVAL disposition (§6.2).
type ExceptionRecord struct {
	ExceptionID              string
	Timestamp                time.Time
	Queue                    Queue
	Priority                 Priority
	InvoiceID                string
	PONumber                 string // "N/A" if absent
	Amount                   *money.Amount
	Supplier                 string
	RoutingReason            string
	ManagerApprovalRequired  bool
	ValidationDetails        []Field
	Context                  []string
	SuggestedActions         []string
	Metadata                 []Field
}

// TriageOutcome is what triage decided for one invoice, before it is
// rendered into an ExceptionRecord, ledger line, or payments-log entry.
type TriageOutcome struct {
	Disposition             Disposition
	Queue                   Queue // zero value when Disposition == APPROVED
	Priority                Priority
	ManagerApprovalRequired bool
	RoutingReason           string
	Exception               *ExceptionRecord // nil on APPROVED
}

// PaymentItem is one line item recorded in system_logs/payments.log (§6.3)
// on an APPROVED disposition.
type PaymentItem struct {
	InvoiceID   string
	PONumber    string
	ItemID      string
	Description string
	Amount      money.Amount
}
