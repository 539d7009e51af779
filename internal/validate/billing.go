package validate

import (
	"fmt"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/money"
)

// BillingArithmetic checks the two invariants in spec §4.5.2: the invoice's
// own arithmetic (subtotal + tax == billing, to two decimals) and that it
// does not exceed the governing PO's committed total_value.
func BillingArithmetic(triple domain.ResolvedTriple) domain.ValidatorOutcome {
	inv, po := triple.Invoice, triple.POItem
	var exceptions []domain.StructuredException

	expected := money.Round2(inv.Summary.Subtotal.Add(inv.Summary.TaxAmount))
	actual := money.Round2(inv.Summary.BillingAmount)
	if !expected.Equal(actual) {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindBillingAmountMismatch,
			Severity: domain.SeverityFail,
			Message:  fmt.Sprintf("subtotal + tax_amount (%s) does not equal billing_amount (%s)", expected, actual),
		}.
			WithField("expected_value", expected.String()).
			WithField("invoice_value", actual.String()))
	}

	if inv.Summary.BillingAmount.GreaterThan(po.TotalValue) {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindInvoiceExceedsPO,
			Severity: domain.SeverityFail,
			Message:  fmt.Sprintf("billing_amount (%s) exceeds PO total_value (%s)", inv.Summary.BillingAmount, po.TotalValue),
		}.
			WithField("invoice_value", inv.Summary.BillingAmount.String()).
			WithField("po_value", po.TotalValue.String()))
	}

	return domain.ValidatorOutcome{
		Name:       domain.ValidatorBilling,
		Passed:     len(exceptions) == 0,
		Exceptions: exceptions,
	}
}
