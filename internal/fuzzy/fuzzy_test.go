package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityIdentity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("PO-AEG-GA001", "PO-AEG-GA001"))
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarityBoundedAndMonotonic(t *testing.T) {
	// One substituted character in a 12-character normalized token: under
	// the Levenshtein-ratio similarity (1 - 1/12 ≈ 0.917) this lands above
	// 0.9, a recalibration of spec.md's LCS-ratio-calibrated (0.7, 0.9)
	// expectation that the spec explicitly allows when substituting the
	// similarity function (see DESIGN.md).
	s := Similarity("PO-AEG-GA0O1", "PO-AEG-GA001")
	require.Greater(t, s, 0.7)
	require.Less(t, s, 1.0)
	require.InDelta(t, 1.0-1.0/12.0, s, 0.0001)

	worse := Similarity("XX-ZZZ-000000", "PO-AEG-GA001")
	assert.Less(t, worse, s)

	for _, pair := range [][2]string{{"a", "b"}, {"abc", "xyz"}, {"", "abc"}} {
		score := Similarity(pair[0], pair[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestBestPOMatch(t *testing.T) {
	candidates := []string{"PO-1", "PO-AEG-GA001", "PO-9999"}
	idx, result := BestPOMatch("PO-AEG-GA0O1", candidates, DefaultMinPOConfidence)
	require.Equal(t, 1, idx)
	assert.Equal(t, "fuzzy", result.MatchType)
	assert.Greater(t, result.Confidence, 0.7)

	idx, result = BestPOMatch("PO-1", candidates, DefaultMinPOConfidence)
	require.Equal(t, 0, idx)
	assert.Equal(t, "exact", result.MatchType)
	assert.Equal(t, 1.0, result.Confidence)

	idx, _ = BestPOMatch("NO-SUCH-PO-AT-ALL", candidates, DefaultMinPOConfidence)
	assert.Equal(t, -1, idx)
}

func TestBestSupplierMatch(t *testing.T) {
	candidates := []SupplierCandidate{
		{Name: "Acme Manufacturing", VendorID: "V-100"},
		{Name: "Other Corp", VendorID: "V-200"},
	}

	idx, result := BestSupplierMatch("Acme Manufacturing", "V-100", candidates, DefaultMinSupplierConfidence)
	require.Equal(t, 0, idx)
	assert.Equal(t, "vendor_id_exact", result.MatchType)
	assert.Equal(t, 1.0, result.Confidence)

	// An exact name with a non-matching vendor ID scores 0.7×1.0 + 0.3×0 =
	// 0.7: below the 0.8 default no candidate is accepted, though the best
	// observed score is still reported; at a 0.7 threshold it is a name match.
	idx, result = BestSupplierMatch("Acme Manufacturing", "WRONG-ID", candidates, DefaultMinSupplierConfidence)
	require.Equal(t, -1, idx)
	assert.Equal(t, "none", result.MatchType)
	assert.InDelta(t, 0.7, result.Confidence, 0.0001)

	idx, result = BestSupplierMatch("Acme Manufacturing", "WRONG-ID", candidates, 0.7)
	require.Equal(t, 0, idx)
	assert.Equal(t, "name_exact", result.MatchType)

	idx, _ = BestSupplierMatch("Completely Unrelated", "NOPE", candidates, DefaultMinSupplierConfidence)
	assert.Equal(t, -1, idx)
}
