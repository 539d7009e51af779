package domain

// Severity distinguishes a hard validation failure from an informational
// observation that does not by itself fail the invoice.
type Severity string

const (
	SeverityFail Severity = "FAIL"
	SeverityInfo Severity = "INFO"
)

// ExceptionKind tags the family of a StructuredException. One constant per
// variant the validators produce — the Go analogue of the Python source's
// per-function exception-type strings.
type ExceptionKind string

const (
	KindDependencyMissingInvoice  ExceptionKind = "missing_invoice"
	KindDependencyMissingPOItem   ExceptionKind = "missing_po_item"
	KindDependencyMissingContract ExceptionKind = "missing_contract"

	KindSupplierNameMismatch     ExceptionKind = "supplier_name_mismatch"
	KindSupplierVendorIDMismatch ExceptionKind = "supplier_vendor_id_mismatch"
	KindBillToNameMismatch       ExceptionKind = "bill_to_name_mismatch"

	KindBillingAmountMismatch ExceptionKind = "billing_amount_mismatch"
	KindInvoiceExceedsPO      ExceptionKind = "invoice_exceeds_po"

	KindInvoiceDateParseError  ExceptionKind = "invoice_date_parse_error"
	KindContractDateParseError ExceptionKind = "contract_date_parse_error"
	KindIssueDateOutsideWindow ExceptionKind = "issue_date_outside_contract_window"
	KindDueDateMismatch        ExceptionKind = "due_date_mismatch"
	KindIssueDateBeforePO      ExceptionKind = "issue_date_before_po_effective_date"

	KindLineItemUnitPriceMismatch ExceptionKind = "line_item_unit_price_mismatch"
	KindLineItemQuantityMismatch  ExceptionKind = "line_item_quantity_mismatch"
	KindLineItemTotalMismatch     ExceptionKind = "line_item_total_mismatch"
	KindLineItemUnmatched         ExceptionKind = "line_item_unmatched"
	KindUninvoicedItems           ExceptionKind = "uninvoiced_items"
	KindInvoiceTotalExceedsPOLines ExceptionKind = "invoice_total_exceeds_po_lines"

	KindPotentialDuplicate ExceptionKind = "potential_duplicate"
	KindIsDuplicate        ExceptionKind = "is_duplicate"
)

// Field is one name/value pair in a StructuredException's diagnostic detail,
// kept as an ordered slice (rather than a map) so that serialization to the
// delimited exception-record format in system_logs/ is deterministic.
type Field struct {
	Name  string
	Value string
}

// StructuredException is one validator finding. Kind discriminates the
// variant; Fields carries the variant's diagnostic payload in fixed order.
type StructuredException struct {
	Kind     ExceptionKind
	Severity Severity
	Message  string
	Fields   []Field
}

// Get returns the value of the named field, or "" if absent.
func (e StructuredException) Get(name string) string {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// WithField appends a field and returns the receiver, for constructor chains.
func (e StructuredException) WithField(name, value string) StructuredException {
	e.Fields = append(e.Fields, Field{Name: name, Value: value})
	return e
}
