// Package fuzzy implements the two string-matching operations the resolver
// needs: best-PO-match and best-supplier-match (spec §4.3). The similarity
// function is a Levenshtein-distance ratio rather than the Python source's
// LCS ratio — a substitution the design notes explicitly permit provided
// identity maps to 1.0, the score is monotonic in edit distance, and it is
// bounded in [0, 1]; all three hold here.
package fuzzy

import (
	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/normalize"
)

// DefaultMinPOConfidence is the resolver's default PO-match threshold.
const DefaultMinPOConfidence = 0.7

// DefaultMinSupplierConfidence is the resolver's default supplier-match
// threshold.
const DefaultMinSupplierConfidence = 0.8

// Similarity returns a score in [0, 1] for how alike a and b are once both
// are run through normalize.ForFuzzy. Identical normalized strings (including
// two empty strings) score exactly 1.0.
func Similarity(a, b string) float64 {
	na, nb := normalize.ForFuzzy(a), normalize.ForFuzzy(b)
	if na == nb {
		return 1.0
	}
	ra, rb := []rune(na), []rune(nb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein(ra, rb)
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		score = 0
	}
	return score
}

// BestPOMatch scores invoicePO against each candidate PO number and returns
// the index of the best-scoring candidate in candidates, or -1 if none meets
// minConfidence. Ties are broken by first occurrence.
func BestPOMatch(invoicePO string, candidates []string, minConfidence float64) (int, domain.MatchResult) {
	best := -1
	bestScore := -1.0
	for i, c := range candidates {
		score := Similarity(invoicePO, c)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best == -1 {
		return -1, domain.MatchResult{MatchType: "none"}
	}
	matchType := "fuzzy"
	if bestScore >= 1.0 {
		matchType = "exact"
	}
	if bestScore < minConfidence {
		return -1, domain.MatchResult{
			MatchedValue: candidates[best],
			Confidence:   bestScore,
			MatchType:    "none",
		}
	}
	return best, domain.MatchResult{
		MatchedValue: candidates[best],
		Confidence:   bestScore,
		MatchType:    matchType,
	}
}

// SupplierCandidate is one contract-side supplier record the resolver
// matches an invoice supplier against.
type SupplierCandidate struct {
	Name     string
	VendorID string
}

// BestSupplierMatch scores invoiceName/invoiceVendorID against each
// candidate using the combined 0.7×name + 0.3×vendor-id-exact score
// (floored at 0.9 whenever the vendor ID matches exactly), and returns the
// index of the best candidate, or -1 if none meets minConfidence.
func BestSupplierMatch(invoiceName, invoiceVendorID string, candidates []SupplierCandidate, minConfidence float64) (int, domain.MatchResult) {
	best := -1
	bestScore := -1.0
	bestNameSim := 0.0
	bestVendorExact := false
	for i, c := range candidates {
		nameSim := Similarity(invoiceName, c.Name)
		vendorExact := invoiceVendorID != "" && c.VendorID != "" && invoiceVendorID == c.VendorID
		vendorExactScore := 0.0
		if vendorExact {
			vendorExactScore = 1.0
		}
		combined := 0.7*nameSim + 0.3*vendorExactScore
		if vendorExact && combined < 0.9 {
			combined = 0.9
		}
		if combined > bestScore {
			bestScore = combined
			best = i
			bestNameSim = nameSim
			bestVendorExact = vendorExact
		}
	}
	if best == -1 {
		return -1, domain.MatchResult{MatchType: "none"}
	}

	matchType := classifySupplierMatch(bestVendorExact, bestNameSim, bestScore)
	if bestScore < minConfidence {
		return -1, domain.MatchResult{
			MatchedValue: candidates[best].Name,
			Confidence:   bestScore,
			MatchType:    "none",
		}
	}
	return best, domain.MatchResult{
		MatchedValue: candidates[best].Name,
		Confidence:   bestScore,
		MatchType:    matchType,
	}
}

// classifySupplierMatch labels the winning candidate per §4.3: an exact
// vendor ID takes priority, then a near-exact name, then any fuzzy pass.
func classifySupplierMatch(vendorExact bool, nameSim, combined float64) string {
	switch {
	case vendorExact:
		return "vendor_id_exact"
	case nameSim > 0.9:
		return "name_exact"
	case combined > 0.7:
		return "fuzzy_match"
	default:
		return "none"
	}
}
