package validate

import (
	"fmt"
	"strings"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/money"
	"github.com/crestline-ap/invoice-exceptions/internal/normalize"
)

const (
	duplicateFailThreshold     = 0.8
	duplicatePossibleThreshold = 0.5
)

var centTolerance = money.FromFloat(0.01)

// scoreAgainst computes the weighted duplicate-fingerprint score of inv
// against one prior processed-invoice record (spec §4.5.5): supplier name
// 0.3, vendor_id 0.2, invoice id/number 0.4, billing amount within a cent
// 0.1, PO number 0.1 — summed without capping per record, then capped at
// 1.0 by the caller. Preserves the source's uncapped-per-indicator summing,
// a decided Open Question (see repo design notes).
func scoreAgainst(inv *domain.Invoice, rec domain.ProcessedInvoiceRecord) (float64, []string) {
	score := 0.0
	var reasons []string

	if inv.SupplierInfo.Name != "" && strings.EqualFold(inv.SupplierInfo.Name, rec.SupplierName) {
		score += 0.3
		reasons = append(reasons, "Same supplier name")
	}
	if inv.SupplierInfo.VendorID != "" && inv.SupplierInfo.VendorID == rec.VendorID {
		score += 0.2
		reasons = append(reasons, "Same vendor ID")
	}
	if inv.InvoiceID != "" && (inv.InvoiceID == rec.InvoiceID || inv.InvoiceID == rec.InvoiceNumber) {
		score += 0.4
		reasons = append(reasons, "Same invoice number")
	}
	if money.WithinCents(inv.Summary.BillingAmount, rec.BillingAmount, centTolerance) {
		score += 0.1
		reasons = append(reasons, "Same billing amount")
	}
	if inv.PurchaseOrderNumber != "" && normalize.Token(inv.PurchaseOrderNumber) == normalize.Token(rec.PONumber) {
		score += 0.1
		reasons = append(reasons, "Same PO number")
	}

	return score, reasons
}

// DuplicateCheck scores inv against every prior processed-invoice record
// and applies the two-threshold policy from spec §4.5.5.
func DuplicateCheck(inv *domain.Invoice, priorRecords []domain.ProcessedInvoiceRecord) (domain.ValidatorOutcome, domain.DuplicateCheckResult) {
	var best *domain.DuplicateMatch
	maxScore := 0.0

	for _, rec := range priorRecords {
		score, reasons := scoreAgainst(inv, rec)
		if score > 1.0 {
			score = 1.0
		}
		if score > maxScore {
			maxScore = score
			best = &domain.DuplicateMatch{Record: rec, Score: score, Reasons: reasons}
		}
	}

	result := domain.DuplicateCheckResult{
		MaxScore:    maxScore,
		Best:        best,
		IsDuplicate: maxScore > duplicateFailThreshold,
		Possible:    maxScore > duplicatePossibleThreshold && maxScore <= duplicateFailThreshold,
	}

	switch {
	case result.IsDuplicate:
		return domain.ValidatorOutcome{
			Name:   domain.ValidatorDuplicate,
			Passed: false,
			Exceptions: []domain.StructuredException{
				{
					Kind:     domain.KindIsDuplicate,
					Severity: domain.SeverityFail,
					Message:  fmt.Sprintf("invoice matches a previously processed invoice with confidence %.2f (%s)", maxScore, strings.Join(best.Reasons, ", ")),
				}.
					WithField("confidence", fmt.Sprintf("%.2f", maxScore)).
					WithField("matched_invoice_id", best.Record.InvoiceID).
					WithField("reasons", strings.Join(best.Reasons, "; ")),
			},
		}, result
	case result.Possible:
		return domain.ValidatorOutcome{
			Name:   domain.ValidatorDuplicate,
			Passed: true,
			Exceptions: []domain.StructuredException{
				{
					Kind:     domain.KindPotentialDuplicate,
					Severity: domain.SeverityInfo,
					Message:  fmt.Sprintf("invoice resembles a previously processed invoice with confidence %.2f (%s)", maxScore, strings.Join(best.Reasons, ", ")),
				}.
					WithField("confidence", fmt.Sprintf("%.2f", maxScore)).
					WithField("matched_invoice_id", best.Record.InvoiceID).
					WithField("reasons", strings.Join(best.Reasons, "; ")),
			},
		}, result
	default:
		return domain.ValidatorOutcome{Name: domain.ValidatorDuplicate, Passed: true}, result
	}
}
