package validate

import (
	"fmt"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

const net30 = "Net 30"
const net30Days = 30

// DateValidation checks the three date invariants in spec §4.5.3. A parse
// error on any date field short-circuits the remaining checks with a single
// exception — by design, a malformed date makes every other date check
// meaningless.
func DateValidation(triple domain.ResolvedTriple) domain.ValidatorOutcome {
	inv, po, contract := triple.Invoice, triple.POItem, triple.Contract

	issueDate, err := domain.ParseDate(inv.IssueDate)
	if err != nil {
		return parseErrorOutcome(domain.KindInvoiceDateParseError, "issue_date", inv.IssueDate)
	}
	dueDate, err := domain.ParseDate(inv.DueDate)
	if err != nil {
		return parseErrorOutcome(domain.KindInvoiceDateParseError, "due_date", inv.DueDate)
	}
	effectiveDate, err := domain.ParseDate(contract.ContractMetadata.EffectiveDate)
	if err != nil {
		return parseErrorOutcome(domain.KindContractDateParseError, "contract_metadata.effective_date", contract.ContractMetadata.EffectiveDate)
	}
	endDate, err := domain.ParseDate(contract.ContractMetadata.EndDate)
	if err != nil {
		return parseErrorOutcome(domain.KindContractDateParseError, "contract_metadata.end_date", contract.ContractMetadata.EndDate)
	}

	var exceptions []domain.StructuredException

	if issueDate.Before(effectiveDate) || issueDate.After(endDate) {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindIssueDateOutsideWindow,
			Severity: domain.SeverityFail,
			Message:  fmt.Sprintf("issue_date %s falls outside contract window [%s, %s]", inv.IssueDate, contract.ContractMetadata.EffectiveDate, contract.ContractMetadata.EndDate),
		}.
			WithField("invoice_value", inv.IssueDate).
			WithField("expected_value", fmt.Sprintf("[%s, %s]", contract.ContractMetadata.EffectiveDate, contract.ContractMetadata.EndDate)))
	}

	if inv.PaymentTerms == net30 {
		wantDue := issueDate.AddDate(0, 0, net30Days)
		if !wantDue.Equal(dueDate) {
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindDueDateMismatch,
				Severity: domain.SeverityFail,
				Message:  fmt.Sprintf("due_date %s does not equal issue_date + 30 days (%s)", inv.DueDate, wantDue.Format(domain.DateLayout)),
			}.
				WithField("expected_value", wantDue.Format(domain.DateLayout)).
				WithField("invoice_value", inv.DueDate))
		}
	}

	if po.EffectiveDate != "" {
		poEffective, err := domain.ParseDate(po.EffectiveDate)
		if err != nil {
			return parseErrorOutcome(domain.KindContractDateParseError, "po_item.effective_date", po.EffectiveDate)
		}
		if issueDate.Before(poEffective) {
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindIssueDateBeforePO,
				Severity: domain.SeverityFail,
				Message:  fmt.Sprintf("issue_date %s precedes PO effective_date %s", inv.IssueDate, po.EffectiveDate),
			}.
				WithField("invoice_value", inv.IssueDate).
				WithField("expected_value", po.EffectiveDate))
		}
	}

	return domain.ValidatorOutcome{
		Name:       domain.ValidatorDates,
		Passed:     len(exceptions) == 0,
		Exceptions: exceptions,
	}
}

func parseErrorOutcome(kind domain.ExceptionKind, field, value string) domain.ValidatorOutcome {
	return domain.ValidatorOutcome{
		Name:   domain.ValidatorDates,
		Passed: false,
		Exceptions: []domain.StructuredException{
			{
				Kind:     kind,
				Severity: domain.SeverityFail,
				Message:  fmt.Sprintf("%s %q could not be parsed as %s", field, value, domain.DateLayout),
			}.WithField("field", field).WithField("invoice_value", value),
		},
	}
}
