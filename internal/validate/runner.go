package validate

import "github.com/crestline-ap/invoice-exceptions/internal/domain"

// Run orchestrates the dependency gate and the five validators in the
// fixed order spec §4.6 requires. A dependency-check failure short-circuits
// everything else; otherwise every validator runs regardless of earlier
// outcomes, because triage needs the complete result set to pick a queue.
func Run(triple domain.ResolvedTriple, priorRecords []domain.ProcessedInvoiceRecord) (domain.ValidationResult, domain.DuplicateCheckResult) {
	dep := DependencyCheck(triple)
	if !dep.Passed {
		return domain.ValidationResult{
			Triple:         triple,
			Outcomes:       []domain.ValidatorOutcome{dep},
			ShortCircuited: true,
		}, domain.DuplicateCheckResult{}
	}

	duplicateOutcome, duplicateResult := DuplicateCheck(triple.Invoice, priorRecords)

	return domain.ValidationResult{
		Triple: triple,
		Outcomes: []domain.ValidatorOutcome{
			dep,
			SupplierMatch(triple),
			BillingArithmetic(triple),
			DateValidation(triple),
			LineItemReconciliation(triple),
			duplicateOutcome,
		},
	}, duplicateResult
}
