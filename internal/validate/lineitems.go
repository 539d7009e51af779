package validate

import (
	"fmt"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/money"
)

const (
	minInvoiceOnlyDescriptionOverlap = 0.3
	minBothSidesDescriptionOverlap   = 0.8
)

// LineItemReconciliation implements the four scenarios of spec §4.5.4,
// dispatching purely on which side(s) carry line items.
func LineItemReconciliation(triple domain.ResolvedTriple) domain.ValidatorOutcome {
	inv, po := triple.Invoice, triple.POItem

	switch {
	case len(inv.LineItems) == 0 && len(po.LineItems) == 0:
		return domain.ValidatorOutcome{Name: domain.ValidatorLineItems, Passed: true}
	case len(inv.LineItems) > 0 && len(po.LineItems) == 0:
		return invoiceOnly(inv, po)
	case len(inv.LineItems) == 0 && len(po.LineItems) > 0:
		return poOnly(inv, po)
	default:
		return bothSides(inv, po)
	}
}

func invoiceOnly(inv *domain.Invoice, po *domain.POItem) domain.ValidatorOutcome {
	var exceptions []domain.StructuredException

	lineSum := money.Sum(lineTotals(inv.LineItems))
	if !money.Equal2(lineSum, inv.Summary.BillingAmount) {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindLineItemTotalMismatch,
			Severity: domain.SeverityFail,
			Message:  fmt.Sprintf("sum of invoice line totals (%s) does not equal billing_amount (%s)", money.Round2(lineSum), inv.Summary.BillingAmount),
		}.
			WithField("invoice_value", money.Round2(lineSum).String()).
			WithField("expected_value", inv.Summary.BillingAmount.String()))
	}
	if inv.Summary.BillingAmount.GreaterThan(po.TotalValue) {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindInvoiceTotalExceedsPOLines,
			Severity: domain.SeverityFail,
			Message:  fmt.Sprintf("billing_amount (%s) exceeds PO total_value (%s)", inv.Summary.BillingAmount, po.TotalValue),
		})
	}
	for _, item := range inv.LineItems {
		overlap := jaccardSimilarity(item.Description, po.Description)
		if overlap < minInvoiceOnlyDescriptionOverlap {
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindLineItemUnmatched,
				Severity: domain.SeverityFail,
				Message:  fmt.Sprintf("invoice line %q does not resemble PO description %q (overlap %.2f)", item.Description, po.Description, overlap),
			}.
				WithField("item_id", item.ItemID).
				WithField("invoice_value", item.Description).
				WithField("expected_value", po.Description))
		}
	}

	return domain.ValidatorOutcome{
		Name:       domain.ValidatorLineItems,
		Passed:     !anyFail(exceptions),
		Exceptions: exceptions,
	}
}

func poOnly(inv *domain.Invoice, po *domain.POItem) domain.ValidatorOutcome {
	var exceptions []domain.StructuredException

	poSum := money.Sum(lineTotals(po.LineItems))
	if !money.Equal2(inv.Summary.BillingAmount, poSum) {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindLineItemTotalMismatch,
			Severity: domain.SeverityFail,
			Message:  fmt.Sprintf("billing_amount (%s) does not equal sum of PO line totals (%s)", inv.Summary.BillingAmount, money.Round2(poSum)),
		}.
			WithField("invoice_value", inv.Summary.BillingAmount.String()).
			WithField("expected_value", money.Round2(poSum).String()))
	}
	if inv.Summary.BillingAmount.GreaterThan(po.TotalValue) {
		exceptions = append(exceptions, domain.StructuredException{
			Kind:     domain.KindInvoiceTotalExceedsPOLines,
			Severity: domain.SeverityFail,
			Message:  fmt.Sprintf("billing_amount (%s) exceeds PO total_value (%s)", inv.Summary.BillingAmount, po.TotalValue),
		})
	}

	return domain.ValidatorOutcome{
		Name:       domain.ValidatorLineItems,
		Passed:     !anyFail(exceptions),
		Exceptions: exceptions,
	}
}

func bothSides(inv *domain.Invoice, po *domain.POItem) domain.ValidatorOutcome {
	var exceptions []domain.StructuredException

	matchedPO := make(map[int]bool, len(po.LineItems))
	byID := make(map[string]int, len(po.LineItems))
	for i, p := range po.LineItems {
		if p.ItemID != "" {
			byID[p.ItemID] = i
		}
	}

	for _, invLine := range inv.LineItems {
		poIdx := -1
		if invLine.ItemID != "" {
			if i, ok := byID[invLine.ItemID]; ok && !matchedPO[i] {
				poIdx = i
			}
		}
		if poIdx == -1 {
			best, bestScore := -1, 0.0
			for i, p := range po.LineItems {
				if matchedPO[i] {
					continue
				}
				score := jaccardSimilarity(invLine.Description, p.Description)
				if score > bestScore {
					bestScore = score
					best = i
				}
			}
			if best != -1 && bestScore >= minBothSidesDescriptionOverlap {
				poIdx = best
			}
		}

		if poIdx == -1 {
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindLineItemUnmatched,
				Severity: domain.SeverityFail,
				Message:  fmt.Sprintf("invoice line item %q (%q) did not match any PO line item", invLine.ItemID, invLine.Description),
			}.WithField("item_id", invLine.ItemID))
			continue
		}
		matchedPO[poIdx] = true
		poLine := po.LineItems[poIdx]

		if !money.Equal2(invLine.UnitPrice, poLine.UnitPrice) {
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindLineItemUnitPriceMismatch,
				Severity: domain.SeverityFail,
				Message:  fmt.Sprintf("line %s: unit_price %s does not match PO unit_price %s", invLine.ItemID, invLine.UnitPrice, poLine.UnitPrice),
			}.
				WithField("item_id", invLine.ItemID).
				WithField("invoice_value", invLine.UnitPrice.String()).
				WithField("po_value", poLine.UnitPrice.String()))
		}

		switch {
		case invLine.Quantity > poLine.Quantity:
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindLineItemQuantityMismatch,
				Severity: domain.SeverityFail,
				Message:  fmt.Sprintf("line %s: invoice quantity %d exceeds PO quantity %d", invLine.ItemID, invLine.Quantity, poLine.Quantity),
			}.
				WithField("item_id", invLine.ItemID).
				WithField("invoice_value", fmt.Sprintf("%d", invLine.Quantity)).
				WithField("po_value", fmt.Sprintf("%d", poLine.Quantity)))
		case invLine.Quantity < poLine.Quantity:
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindLineItemQuantityMismatch,
				Severity: domain.SeverityInfo,
				Message:  fmt.Sprintf("line %s: invoice quantity %d is less than PO quantity %d", invLine.ItemID, invLine.Quantity, poLine.Quantity),
			}.
				WithField("item_id", invLine.ItemID).
				WithField("invoice_value", fmt.Sprintf("%d", invLine.Quantity)).
				WithField("po_value", fmt.Sprintf("%d", poLine.Quantity)))
		}

		expectedTotal := money.Round2(invLine.UnitPrice.Mul(money.FromFloat(float64(invLine.Quantity))))
		if !money.Equal2(invLine.LineTotal, expectedTotal) {
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindLineItemTotalMismatch,
				Severity: domain.SeverityFail,
				Message:  fmt.Sprintf("line %s: line_total %s does not equal unit_price * quantity (%s)", invLine.ItemID, invLine.LineTotal, expectedTotal),
			}.
				WithField("item_id", invLine.ItemID).
				WithField("invoice_value", invLine.LineTotal.String()).
				WithField("expected_value", expectedTotal.String()))
		}
	}

	for i, p := range po.LineItems {
		if !matchedPO[i] {
			exceptions = append(exceptions, domain.StructuredException{
				Kind:     domain.KindUninvoicedItems,
				Severity: domain.SeverityInfo,
				Message:  fmt.Sprintf("PO line item %q (%q) was never invoiced", p.ItemID, p.Description),
			}.WithField("item_id", p.ItemID))
		}
	}

	return domain.ValidatorOutcome{
		Name:       domain.ValidatorLineItems,
		Passed:     !anyFail(exceptions),
		Exceptions: exceptions,
	}
}

func lineTotals(items []domain.LineItem) []money.Amount {
	totals := make([]money.Amount, len(items))
	for i, it := range items {
		totals[i] = it.LineTotal
	}
	return totals
}

func anyFail(exceptions []domain.StructuredException) bool {
	for _, e := range exceptions {
		if e.Severity == domain.SeverityFail {
			return true
		}
	}
	return false
}
