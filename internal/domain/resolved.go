package domain

// MatchResult is the outcome of fuzzy-matching one candidate field (PO
// number or supplier name) against the best available reference value.
type MatchResult struct {
	MatchedValue string  `json:"matched_value"`
	Confidence   float64 `json:"confidence"`
	MatchType    string  `json:"match_type"` // PO: "exact", "fuzzy", "none"; supplier: "vendor_id_exact", "name_exact", "fuzzy_match", "none"
}

// MatchingDetails records how a ResolvedTriple's po_item and contract were
// chosen, for display and for the overall_confidence calculation.
type MatchingDetails struct {
	POMatch       MatchResult `json:"po_match"`
	SupplierMatch MatchResult `json:"supplier_match"`
}

// OverallConfidence computes 0.6*po + 0.4*supplier, per spec.
func (m MatchingDetails) OverallConfidence() float64 {
	return 0.6*m.POMatch.Confidence + 0.4*m.SupplierMatch.Confidence
}

// ResolvedTriple is the result of resolving one invoice filename to its
// matching PO item and contract. POItem and Contract are nil when no
// sufficiently confident match was found — callers must check before
// dereferencing; the dependency_check validator does exactly that.
type ResolvedTriple struct {
	Invoice  *Invoice
	POItem   *POItem
	Contract *Contract
	Matching MatchingDetails
}

// Complete reports whether every leg of the triple resolved.
func (r ResolvedTriple) Complete() bool {
	return r.Invoice != nil && r.POItem != nil && r.Contract != nil
}
