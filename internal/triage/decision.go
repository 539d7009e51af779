// Package triage implements the router (spec §4.8): a single-entry,
// priority-ordered decision table over a completed ValidationResult and
// DuplicateCheckResult, plus the side effects of writing the canonical
// exception record, the ledger line, the payments-log entry, and the
// processed-invoice record. Grounded on the Python source's
// triage_resolution_tool.py (_determine_routing_queue, triage_and_route).
package triage

import (
	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/money"
)

// Config holds the monetary and confidence thresholds spec §4.8 names.
type Config struct {
	HighValueThreshold          float64 // billing_amount above this requires approval
	LowConfidenceThreshold      float64 // overall_confidence below this is an automatic REJECTED
	ApprovalConfidenceThreshold float64 // overall_confidence below this (but above LowConfidenceThreshold) still requires approval
}

// DefaultConfig matches the literal constants in spec §4.8.
var DefaultConfig = Config{
	HighValueThreshold:          10000,
	LowConfidenceThreshold:      0.7,
	ApprovalConfidenceThreshold: 0.9,
}

// decide applies the fixed priority order from spec §4.8. It is a pure
// function: no I/O, no id generation, so it can be unit tested against
// every boundary scenario in spec §8 without a filesystem.
func decide(result domain.ValidationResult, dup domain.DuplicateCheckResult, cfg Config) (domain.Queue, domain.Priority, bool, domain.Disposition, string) {
	switch {
	case dup.IsDuplicate:
		return domain.QueueDuplicateInvoices, domain.PriorityHigh, true, domain.DispositionRejected,
			"duplicate detector matched a previously processed invoice above the FAIL threshold"

	case result.Failed(domain.ValidatorDependency):
		return domain.QueueMissingData, domain.PriorityHigh, true, domain.DispositionRejected,
			"one or more of invoice, purchase order, or contract could not be resolved"

	case result.Triple.Matching.OverallConfidence() < cfg.LowConfidenceThreshold:
		return domain.QueueLowConfidence, domain.PriorityHigh, true, domain.DispositionRejected,
			"overall match confidence fell below the automatic-acceptance threshold"

	case result.Failed(domain.ValidatorLineItems):
		return domain.QueuePriceDiscrepancies, domain.PriorityHigh, true, domain.DispositionRejected,
			"invoice line items did not reconcile against the purchase order"

	case result.Failed(domain.ValidatorSupplier):
		return domain.QueueSupplierMismatch, domain.PriorityMedium, false, domain.DispositionRejected,
			"supplier or bill-to identity did not exactly match the contract"

	case result.Failed(domain.ValidatorBilling):
		return domain.QueueBillingDiscrepancies, domain.PriorityHigh, true, domain.DispositionRejected,
			"invoice billing arithmetic or PO ceiling was violated"

	case result.Failed(domain.ValidatorDates):
		return domain.QueueDateDiscrepancies, domain.PriorityMedium, false, domain.DispositionRejected,
			"invoice dates fell outside the contract or payment-terms window"

	case result.Triple.Invoice.Summary.BillingAmount.GreaterThan(money.FromFloat(cfg.HighValueThreshold)) ||
		result.Triple.Matching.OverallConfidence() < cfg.ApprovalConfidenceThreshold:
		return domain.QueueHighValueApproval, domain.PriorityHigh, true, domain.DispositionPendingApproval,
			"invoice passed all validators but exceeds the automatic-approval value or confidence threshold"

	default:
		return "", domain.PriorityNone, false, domain.DispositionApproved, ""
	}
}
