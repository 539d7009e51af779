// Package validate implements the five validators and the short-circuiting
// runner described in spec §4.5–§4.6. Each validator is a pure function of
// a read-only ResolvedTriple (or invoice alone); none mutate shared state
// and none return a Go error — validator failures are data, per the error
// taxonomy in spec §7.
package validate

import "github.com/crestline-ap/invoice-exceptions/internal/domain"

// DependencyCheck verifies that every leg of the triple resolved. On any
// miss it returns a single FAIL outcome naming exactly which legs are
// missing and runs no other checks — later validators must never see a
// partially-resolved triple.
func DependencyCheck(triple domain.ResolvedTriple) domain.ValidatorOutcome {
	if triple.Complete() {
		return domain.ValidatorOutcome{Name: domain.ValidatorDependency, Passed: true}
	}

	var exceptions []domain.StructuredException
	if triple.Invoice == nil {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindDependencyMissingInvoice,
			Severity: domain.SeverityFail,
			Message:  "invoice document could not be found or parsed",
		})
	}
	if triple.POItem == nil {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindDependencyMissingPOItem,
			Severity: domain.SeverityFail,
			Message:  "no purchase order matched the invoice's purchase_order_number",
		})
	}
	if triple.Contract == nil {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindDependencyMissingContract,
			Severity: domain.SeverityFail,
			Message:  "no contract matched the purchase order's contract_id",
		})
	}
	return domain.ValidatorOutcome{
		Name:       domain.ValidatorDependency,
		Passed:     false,
		Exceptions: exceptions,
	}
}
