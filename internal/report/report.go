// Package report renders the exception queue logs and payments log to a
// spreadsheet workbook: one sheet per exception queue plus a payments
// sheet, for the accounts-payable team to triage outside the raw text
// logs. Grounded on the teacher's internal/voucher/excel_filler.go
// (cell-by-cell fill with a warn-on-error setCell helper), adapted from
// filling a fixed template to building a workbook from scratch, since this
// domain has no template to fill.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

var queueOrder = []domain.Queue{
	domain.QueueDuplicateInvoices,
	domain.QueueMissingData,
	domain.QueueLowConfidence,
	domain.QueuePriceDiscrepancies,
	domain.QueueSupplierMismatch,
	domain.QueueBillingDiscrepancies,
	domain.QueueDateDiscrepancies,
	domain.QueueHighValueApproval,
}

var exceptionColumns = []string{
	"EXCEPTION_ID", "TIMESTAMP", "PRIORITY", "INVOICE_ID", "PO_NUMBER",
	"AMOUNT", "SUPPLIER", "ROUTING_REASON", "MANAGER_APPROVAL_REQUIRED",
}

var paymentColumns = []string{"INVOICE_ID", "PO_NUMBER", "ITEM_ID", "DESCRIPTION", "AMOUNT"}

// Writer builds the exceptions/payments workbook.
type Writer struct {
	log *zap.Logger
}

// New returns a Writer. log may be nil.
func New(log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{log: log}
}

// Build renders exceptions (grouped into per-queue sheets, in queueOrder)
// and payments into a new workbook and saves it to outputPath.
func (w *Writer) Build(exceptions []domain.ExceptionRecord, payments []domain.PaymentItem, outputPath string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.log.Warn("failed to close workbook", zap.Error(err))
		}
	}()

	byQueue := make(map[domain.Queue][]domain.ExceptionRecord)
	for _, e := range exceptions {
		byQueue[e.Queue] = append(byQueue[e.Queue], e)
	}

	firstSheet := f.GetSheetName(0)
	wroteFirst := false

	for _, queue := range queueOrder {
		rows := byQueue[queue]
		if len(rows) == 0 {
			continue
		}
		sheetName := string(queue)
		if !wroteFirst {
			if err := f.SetSheetName(firstSheet, sheetName); err != nil {
				return fmt.Errorf("naming first sheet: %w", err)
			}
			wroteFirst = true
		} else if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheetName, err)
		}
		w.writeExceptionSheet(f, sheetName, rows)
	}

	if len(payments) > 0 {
		sheetName := "payments"
		if !wroteFirst {
			if err := f.SetSheetName(firstSheet, sheetName); err != nil {
				return fmt.Errorf("naming first sheet: %w", err)
			}
			wroteFirst = true
		} else if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheetName, err)
		}
		w.writePaymentsSheet(f, sheetName, payments)
	}

	if !wroteFirst {
		w.writeExceptionSheet(f, firstSheet, nil)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func (w *Writer) writeExceptionSheet(f *excelize.File, sheet string, rows []domain.ExceptionRecord) {
	for col, header := range exceptionColumns {
		w.setCell(f, sheet, col+1, 1, header)
	}
	for i, e := range rows {
		rowNum := i + 2
		w.setCell(f, sheet, 1, rowNum, e.ExceptionID)
		w.setCell(f, sheet, 2, rowNum, e.Timestamp.UTC().Format("2006-01-02T15:04:05Z"))
		w.setCell(f, sheet, 3, rowNum, string(e.Priority))
		w.setCell(f, sheet, 4, rowNum, e.InvoiceID)
		w.setCell(f, sheet, 5, rowNum, e.PONumber)
		if e.Amount != nil {
			w.setCell(f, sheet, 6, rowNum, e.Amount.StringFixed(2))
		}
		w.setCell(f, sheet, 7, rowNum, e.Supplier)
		w.setCell(f, sheet, 8, rowNum, e.RoutingReason)
		w.setCell(f, sheet, 9, rowNum, fmt.Sprintf("%t", e.ManagerApprovalRequired))
	}
}

func (w *Writer) writePaymentsSheet(f *excelize.File, sheet string, items []domain.PaymentItem) {
	for col, header := range paymentColumns {
		w.setCell(f, sheet, col+1, 1, header)
	}
	for i, item := range items {
		rowNum := i + 2
		w.setCell(f, sheet, 1, rowNum, item.InvoiceID)
		w.setCell(f, sheet, 2, rowNum, item.PONumber)
		w.setCell(f, sheet, 3, rowNum, item.ItemID)
		w.setCell(f, sheet, 4, rowNum, item.Description)
		w.setCell(f, sheet, 5, rowNum, item.Amount.StringFixed(2))
	}
}

// setCell mirrors the teacher's warn-and-continue cell-write discipline: a
// malformed cell reference should never abort the whole report.
func (w *Writer) setCell(f *excelize.File, sheet string, col, row int, value string) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.log.Warn("failed to compute cell reference", zap.Int("col", col), zap.Int("row", row), zap.Error(err))
		return
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		w.log.Warn("failed to set cell value", zap.String("sheet", sheet), zap.String("cell", cell), zap.Error(err))
	}
}
