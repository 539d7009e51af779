package triage

import (
	"strings"

	"github.com/google/uuid"
)

// newExceptionID returns a fresh EXC-<12 uppercase hex chars> id, per spec
// §8's `^EXC-[0-9A-F]{12}$` test. Backed by a random UUID rather than
// hand-rolled hex generation.
func newExceptionID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "EXC-" + raw[:12]
}
