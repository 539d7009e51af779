// Package domain holds the typed records the pipeline operates on: invoices,
// purchase orders, contracts, and the records produced while resolving and
// validating them. These replace the nested-dictionary shape of the Python
// source with concrete structs — a missing subtree is represented by a nil
// pointer (see ResolvedTriple), never a sentinel string, except at the
// external text-log boundary where "<not found>" is written literally.
package domain

import (
	"time"

	"github.com/crestline-ap/invoice-exceptions/internal/money"
)

// LineItem is the shared shape for invoice and purchase-order line items.
type LineItem struct {
	ItemID      string       `json:"item_id"`
	Description string       `json:"description"`
	Quantity    int64        `json:"quantity"`
	UnitPrice   money.Amount `json:"unit_price"`
	LineTotal   money.Amount `json:"line_total"`
}

// SupplierInfo identifies the party billing the invoice.
type SupplierInfo struct {
	Name     string `json:"name"`
	VendorID string `json:"vendor_id"`
}

// BillToInfo identifies the party being billed.
type BillToInfo struct {
	Name string `json:"name"`
}

// Summary holds the invoice's top-level monetary totals.
type Summary struct {
	Subtotal      money.Amount `json:"subtotal"`
	TaxAmount     money.Amount `json:"tax_amount"`
	BillingAmount money.Amount `json:"billing_amount"`
}

// Invoice is an incoming invoice document, as read from json_files/invoices.
type Invoice struct {
	InvoiceID          string       `json:"invoice_id"`
	PurchaseOrderNumber string      `json:"purchase_order_number"`
	SupplierInfo       SupplierInfo `json:"supplier_info"`
	BillToInfo         BillToInfo   `json:"bill_to_info"`
	IssueDate          string       `json:"issue_date"`
	DueDate            string       `json:"due_date"`
	PaymentTerms       string       `json:"payment_terms"`
	Currency           string       `json:"currency"`
	Summary            Summary      `json:"summary"`
	LineItems          []LineItem   `json:"line_items"`

	// SourceFile is the absolute path the document was loaded from. Not
	// part of the external JSON schema; populated by the document store.
	SourceFile string `json:"-"`
}

// POItem is a single purchase-order line from json_files/POs.
type POItem struct {
	PONumber      string       `json:"po_number"`
	ContractID    string       `json:"contract_id"`
	EffectiveDate string       `json:"effective_date"`
	TotalValue    money.Amount `json:"total_value"`
	Description   string       `json:"description"`
	LineItems     []LineItem   `json:"line_items"`

	SourceFile string `json:"-"`
}

// Party is a named, tax-identified entity referenced by a contract.
type Party struct {
	Name     string `json:"name"`
	VendorID string `json:"vendor_id,omitempty"`
}

// Parties holds the two sides of a contract.
type Parties struct {
	Supplier Party `json:"supplier"`
	Client   Party `json:"client"`
}

// ContractMetadata holds a contract's validity window.
type ContractMetadata struct {
	EffectiveDate string `json:"effective_date"`
	EndDate       string `json:"end_date"`
}

// Contract is a master agreement from json_files/contracts.
type Contract struct {
	ContractID       string           `json:"contract_id"`
	Parties          Parties          `json:"parties"`
	ContractMetadata ContractMetadata `json:"contract_metadata"`
	PaymentTerms     string           `json:"payment_terms"`
	Currency         string           `json:"currency"`
	Sections         []string         `json:"sections"`

	SourceFile string `json:"-"`
}

// DateLayout is the wire format for all date fields (issue_date, due_date,
// effective_date, end_date).
const DateLayout = "2006-01-02"

// ParseDate parses a date field in the canonical YYYY-MM-DD layout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
