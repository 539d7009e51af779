// Package resolve implements the resolver (spec §4.4): given an invoice
// filename, it produces a ResolvedTriple of {invoice, po_item, contract}
// plus a matching-confidence report, by chaining the document store, token
// normalizer, and fuzzy matcher exactly in the order the Python source's
// fuzzy_resolve_invoice_to_po_and_contract does.
package resolve

import (
	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/docstore"
	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/fuzzy"
	"github.com/crestline-ap/invoice-exceptions/internal/normalize"
)

// Resolver resolves invoice filenames against one document store.
type Resolver struct {
	store              *docstore.Store
	log                *zap.Logger
	minPOConfidence    float64
	minSupplierConfidence float64
}

// New builds a Resolver. minPOConfidence/minSupplierConfidence of zero fall
// back to the spec's defaults (0.7 / 0.8).
func New(store *docstore.Store, log *zap.Logger, minPOConfidence, minSupplierConfidence float64) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	if minPOConfidence <= 0 {
		minPOConfidence = fuzzy.DefaultMinPOConfidence
	}
	if minSupplierConfidence <= 0 {
		minSupplierConfidence = fuzzy.DefaultMinSupplierConfidence
	}
	return &Resolver{
		store:                 store,
		log:                   log,
		minPOConfidence:       minPOConfidence,
		minSupplierConfidence: minSupplierConfidence,
	}
}

// Resolve locates the invoice named by filename and matches it to its
// governing PO item and contract. Any stage that fails to find its target
// leaves the corresponding field nil and short-circuits later stages; the
// matching details collected up to that point are still returned for
// diagnostics.
func (r *Resolver) Resolve(filename string) domain.ResolvedTriple {
	triple := domain.ResolvedTriple{}

	path, ok := r.store.FindInvoicePath(filename)
	if !ok {
		r.log.Debug("invoice not found", zap.String("filename", filename))
		return triple
	}
	inv := r.store.ReadInvoice(path)
	if inv == nil {
		r.log.Debug("invoice failed to parse", zap.String("path", path))
		return triple
	}
	triple.Invoice = inv

	poItems := r.store.ReadAllPOItems()
	poNumbers := make([]string, len(poItems))
	for i, po := range poItems {
		poNumbers[i] = po.PONumber
	}
	poIdx, poMatch := fuzzy.BestPOMatch(inv.PurchaseOrderNumber, poNumbers, r.minPOConfidence)
	triple.Matching.POMatch = poMatch
	if poIdx == -1 {
		return triple
	}
	poItem := poItems[poIdx]
	triple.POItem = &poItem

	contracts := r.store.ReadAllContracts()
	wantContractID := normalize.Token(poItem.ContractID)
	var contract *domain.Contract
	for i := range contracts {
		if normalize.Token(contracts[i].ContractID) == wantContractID {
			contract = &contracts[i]
			break
		}
	}
	if contract == nil {
		return triple
	}
	triple.Contract = contract

	supplierCandidates := []fuzzy.SupplierCandidate{{
		Name:     contract.Parties.Supplier.Name,
		VendorID: contract.Parties.Supplier.VendorID,
	}}
	_, supplierMatch := fuzzy.BestSupplierMatch(
		inv.SupplierInfo.Name, inv.SupplierInfo.VendorID,
		supplierCandidates, r.minSupplierConfidence,
	)
	triple.Matching.SupplierMatch = supplierMatch

	return triple
}
