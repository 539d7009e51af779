package record

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crestline-ap/invoice-exceptions/internal/money"
)

// formatAmount renders amt as "$n,nnn.nn" with thousands separators, or
// "N/A" when amt is nil — exactly the AMOUNT field grammar in spec §6.2.
func formatAmount(amt *money.Amount) string {
	if amt == nil {
		return "N/A"
	}
	rounded := money.Round2(*amt)
	neg := rounded.IsNegative()
	if neg {
		rounded = rounded.Neg()
	}

	whole := rounded.Truncate(0).String()
	frac := rounded.Sub(rounded.Truncate(0)).Shift(2).Round(0).String()
	frac = strings.TrimPrefix(frac, "-")
	if len(frac) < 2 {
		frac = strings.Repeat("0", 2-len(frac)) + frac
	}

	grouped := groupThousands(whole)
	sign := ""
	if neg {
		sign = "-"
	}
	return "$" + sign + grouped + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, ",")
}

// parseAmount parses a value previously produced by formatAmount, or "N/A".
func parseAmount(s string) (money.Amount, bool) {
	s = strings.TrimSpace(s)
	if s == "N/A" || s == "" {
		return money.Zero, false
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return money.Zero, false
	}
	return d, true
}
