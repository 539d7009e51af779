package validate

import (
	"fmt"
	"strings"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

const (
	exactMatchMethod    = "exact_match"
	exactMatchThreshold = "100% exact match required"
)

// SupplierMatch compares the invoice's supplier and bill-to names against
// the contract's party records with exact string equality — the fuzzy pass
// already happened during resolution (spec §4.5.1). No fuzziness here: a
// single trailing space is a FAIL.
func SupplierMatch(triple domain.ResolvedTriple) domain.ValidatorOutcome {
	inv, contract := triple.Invoice, triple.Contract
	var exceptions []domain.StructuredException

	if inv.SupplierInfo.Name != contract.Parties.Supplier.Name {
		exceptions = append(exceptions, mismatchException(
			domain.KindSupplierNameMismatch,
			contract.Parties.Supplier.Name, inv.SupplierInfo.Name,
		))
	}
	if inv.SupplierInfo.VendorID != contract.Parties.Supplier.VendorID {
		exceptions = append(exceptions, mismatchException(
			domain.KindSupplierVendorIDMismatch,
			contract.Parties.Supplier.VendorID, inv.SupplierInfo.VendorID,
		))
	}
	if inv.BillToInfo.Name != contract.Parties.Client.Name {
		exceptions = append(exceptions, mismatchException(
			domain.KindBillToNameMismatch,
			contract.Parties.Client.Name, inv.BillToInfo.Name,
		))
	}

	return domain.ValidatorOutcome{
		Name:       domain.ValidatorSupplier,
		Passed:     len(exceptions) == 0,
		Exceptions: exceptions,
	}
}

func mismatchException(kind domain.ExceptionKind, expected, actual string) domain.StructuredException {
	return domain.StructuredException{
		Kind:     kind,
		Severity: domain.SeverityFail,
		Message:  fmt.Sprintf("expected %q, got %q", expected, actual),
	}.
		WithField("expected_value", expected).
		WithField("invoice_value", actual).
		WithField("diff_description", diffDescription(expected, actual)).
		WithField("comparison_method", exactMatchMethod).
		WithField("threshold", exactMatchThreshold)
}

// diffDescription walks expected and actual rune by rune, reporting each
// position where they diverge. Spaces are called out explicitly with
// [SPACE] so whitespace-only mismatches (spec §8 scenario 6) are legible in
// a log line instead of looking identical.
func diffDescription(expected, actual string) string {
	re, ra := []rune(expected), []rune(actual)
	maxLen := len(re)
	if len(ra) > maxLen {
		maxLen = len(ra)
	}

	var parts []string
	for i := 0; i < maxLen; i++ {
		var ce, ca rune
		hasE, hasA := i < len(re), i < len(ra)
		if hasE {
			ce = re[i]
		}
		if hasA {
			ca = ra[i]
		}
		if hasE && hasA && ce == ca {
			continue
		}
		parts = append(parts, fmt.Sprintf("position %d: expected=%s actual=%s", i, describeRune(hasE, ce), describeRune(hasA, ca)))
	}
	if len(parts) == 0 {
		return "no character differences"
	}
	if len(re) != len(ra) {
		parts = append(parts, fmt.Sprintf("length mismatch: expected %d chars, actual %d chars", len(re), len(ra)))
	}
	return strings.Join(parts, "; ")
}

func describeRune(present bool, r rune) string {
	if !present {
		return "<end of string>"
	}
	if r == ' ' {
		return "' ' [SPACE]"
	}
	return fmt.Sprintf("%q", string(r))
}
