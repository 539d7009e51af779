// Package record implements the canonical exception-record serializer
// (spec §6.2), the exceptions-ledger line format (§6.2), and the
// payments-log format (§6.3). It is the one place in the repo that knows
// the exact on-disk text shape; everything upstream works with
// domain.ExceptionRecord values.
package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

const (
	exceptionStart = "=== EXCEPTION_START ==="
	exceptionEnd   = "=== EXCEPTION_END ==="
	rfc3339UTC     = time.RFC3339
)

// FormatException renders e as the delimited text block from spec §6.2.
func FormatException(e domain.ExceptionRecord) string {
	var b strings.Builder
	fmt.Fprintln(&b, exceptionStart)
	fmt.Fprintf(&b, "EXCEPTION_ID: %s\n", e.ExceptionID)
	fmt.Fprintln(&b, "EXCEPTION_TYPE: VALIDATION_FAILED")
	fmt.Fprintln(&b, "STATUS: OPEN")
	fmt.Fprintf(&b, "QUEUE: %s\n", e.Queue)
	fmt.Fprintf(&b, "PRIORITY: %s\n", e.Priority)
	fmt.Fprintf(&b, "TIMESTAMP: %s\n", e.Timestamp.UTC().Format(rfc3339UTC))
	fmt.Fprintf(&b, "INVOICE_ID: %s\n", e.InvoiceID)
	fmt.Fprintf(&b, "PO_NUMBER: %s\n", orNA(e.PONumber))
	fmt.Fprintf(&b, "AMOUNT: %s\n", formatAmount(e.Amount))
	fmt.Fprintf(&b, "SUPPLIER: %s\n", e.Supplier)
	fmt.Fprintf(&b, "ROUTING_REASON: %s\n", oneLine(e.RoutingReason))
	fmt.Fprintf(&b, "MANAGER_APPROVAL_REQUIRED: %s\n", yesNo(e.ManagerApprovalRequired))

	fmt.Fprintln(&b, "VALIDATION_DETAILS:")
	for _, f := range e.ValidationDetails {
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Value)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "CONTEXT:")
	for _, line := range e.Context {
		fmt.Fprintln(&b, line)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "SUGGESTED_ACTIONS:")
	for _, action := range e.SuggestedActions {
		fmt.Fprintf(&b, "- %s\n", action)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "METADATA:")
	for _, f := range e.Metadata {
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Value)
	}
	fmt.Fprintln(&b, exceptionEnd)

	return b.String()
}

// section names the header blocks a parser walks through in order.
type section int

const (
	sectionHeader section = iota
	sectionValidationDetails
	sectionContext
	sectionSuggestedActions
	sectionMetadata
)

// ParseException parses a block written by FormatException back into a
// domain.ExceptionRecord. Parsing is tolerant of extra whitespace and
// unknown header keys, per spec §6.2.
func ParseException(block string) (domain.ExceptionRecord, error) {
	var rec domain.ExceptionRecord
	lines := strings.Split(block, "\n")

	sec := sectionHeader
	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		switch trimmed {
		case exceptionStart, exceptionEnd:
			continue
		case "VALIDATION_DETAILS:":
			sec = sectionValidationDetails
			continue
		case "CONTEXT:":
			sec = sectionContext
			continue
		case "SUGGESTED_ACTIONS:":
			sec = sectionSuggestedActions
			continue
		case "METADATA:":
			sec = sectionMetadata
			continue
		}

		if trimmed == "" {
			continue
		}

		switch sec {
		case sectionHeader:
			parseHeaderLine(&rec, trimmed)
		case sectionValidationDetails:
			rec.ValidationDetails = append(rec.ValidationDetails, parseField(trimmed))
		case sectionContext:
			rec.Context = append(rec.Context, trimmed)
		case sectionSuggestedActions:
			rec.SuggestedActions = append(rec.SuggestedActions, strings.TrimPrefix(trimmed, "- "))
		case sectionMetadata:
			rec.Metadata = append(rec.Metadata, parseField(trimmed))
		}
	}

	return rec, nil
}

// SplitExceptionBlocks splits a queue log's raw contents on
// EXCEPTION_START/EXCEPTION_END boundaries, returning one string per block
// suitable for ParseException. A log with no start marker returns nil.
func SplitExceptionBlocks(raw string) []string {
	var blocks []string
	rest := raw
	for {
		idx := strings.Index(rest, exceptionStart)
		if idx == -1 {
			break
		}
		rest = rest[idx:]
		next := strings.Index(rest[len(exceptionStart):], exceptionStart)
		if next == -1 {
			blocks = append(blocks, rest)
			break
		}
		blocks = append(blocks, rest[:len(exceptionStart)+next])
		rest = rest[len(exceptionStart)+next:]
	}
	return blocks
}

func parseHeaderLine(rec *domain.ExceptionRecord, line string) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "EXCEPTION_ID":
		rec.ExceptionID = value
	case "QUEUE":
		rec.Queue = domain.Queue(value)
	case "PRIORITY":
		rec.Priority = domain.Priority(value)
	case "TIMESTAMP":
		if ts, err := time.Parse(rfc3339UTC, value); err == nil {
			rec.Timestamp = ts
		}
	case "INVOICE_ID":
		rec.InvoiceID = value
	case "PO_NUMBER":
		rec.PONumber = value
	case "AMOUNT":
		if amt, ok := parseAmount(value); ok {
			rec.Amount = &amt
		}
	case "SUPPLIER":
		rec.Supplier = value
	case "ROUTING_REASON":
		rec.RoutingReason = value
	case "MANAGER_APPROVAL_REQUIRED":
		rec.ManagerApprovalRequired = value == "YES"
	}
}

func parseField(line string) domain.Field {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return domain.Field{Name: line}
	}
	return domain.Field{Name: strings.TrimSpace(key), Value: strings.TrimSpace(value)}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
