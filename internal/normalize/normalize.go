// Package normalize canonicalizes identifiers before equality comparison:
// upper-case, strip everything that isn't a letter or digit. Grounded on
// the Python source's normalize_token (po_contract_resolver_tool.py).
package normalize

import "strings"

// Token upper-cases s and strips non-alphanumeric characters. Idempotent:
// Token(Token(x)) == Token(x). The empty string passes through unchanged.
func Token(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ForFuzzy upper-cases s, trims outer whitespace, collapses runs of interior
// whitespace to a single space, and collapses runs of "-"/"_" to a single
// dash. "/" is left untouched — PO-123 and PO/123 must stay distinguishable
// to the fuzzy matcher. Matches normalize_for_fuzzy's two separate regexes
// (whitespace run -> " ", [-_]+ run -> "-") rather than folding every
// separator into one class.
func ForFuzzy(s string) string {
	upper := strings.ToUpper(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(upper))
	lastWasSpace := false
	lastWasDash := false
	for _, r := range upper {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasSpace = true
			lastWasDash = false
		case r == '-' || r == '_':
			if !lastWasDash {
				b.WriteByte('-')
			}
			lastWasDash = true
			lastWasSpace = false
		default:
			b.WriteRune(r)
			lastWasSpace = false
			lastWasDash = false
		}
	}
	return b.String()
}
