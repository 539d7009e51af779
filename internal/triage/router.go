package triage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/duplog"
	"github.com/crestline-ap/invoice-exceptions/internal/record"
)

const (
	ledgerFileName   = "exceptions_ledger.log"
	paymentsFileName = "payments.log"
)

// Notifier is implemented by internal/notify/lark: triage calls it once per
// high-priority exception. A nil Notifier silently disables notification.
type Notifier interface {
	Notify(ctx context.Context, e domain.ExceptionRecord) error
}

// Router is the triage/router component (spec §4.8): it decides a
// disposition for a completed ValidationResult and performs the resulting
// writes to the queue log, the ledger, the payments log, and the
// processed-invoice log.
type Router struct {
	systemLogsDir string
	processed     *duplog.Log
	notifier      Notifier
	cfg           Config
	log           *zap.Logger

	mu      sync.Mutex
	writers map[string]*record.FileWriter
}

// New builds a Router rooted at systemLogsDir. notifier may be nil.
func New(systemLogsDir string, processed *duplog.Log, notifier Notifier, cfg Config, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		systemLogsDir: systemLogsDir,
		processed:     processed,
		notifier:      notifier,
		cfg:           cfg,
		log:           log,
		writers:       make(map[string]*record.FileWriter),
	}
}

func (r *Router) writer(path string) *record.FileWriter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.writers[path]; ok {
		return w
	}
	w := record.NewFileWriter(path)
	r.writers[path] = w
	return w
}

func (r *Router) queuePath(queue domain.Queue) string {
	return filepath.Join(r.systemLogsDir, fmt.Sprintf("queue_%s.log", queue))
}

// Route decides a disposition for result/dup and performs the associated
// writes. It returns the decision as a domain.TriageOutcome; the only
// errors it returns are I/O write failures (spec §7's io_error kind).
func (r *Router) Route(ctx context.Context, result domain.ValidationResult, dup domain.DuplicateCheckResult) (domain.TriageOutcome, error) {
	queue, priority, approvalRequired, disposition, reason := decide(result, dup, r.cfg)
	now := time.Now().UTC()

	if disposition == domain.DispositionApproved {
		items := buildPaymentItems(result.Triple)
		text := record.FormatPaymentsEntry(result.Triple.Invoice.InvoiceID, items, now)
		if err := r.writer(filepath.Join(r.systemLogsDir, paymentsFileName)).Append(text); err != nil {
			return domain.TriageOutcome{}, fmt.Errorf("writing payments log: %w", err)
		}

		procRec := buildProcessedRecord(result.Triple, processingResultLabel(disposition, ""), now)
		if err := r.processed.Append(procRec); err != nil {
			return domain.TriageOutcome{}, fmt.Errorf("writing processed-invoice log: %w", err)
		}

		return domain.TriageOutcome{Disposition: domain.DispositionApproved}, nil
	}

	excID := newExceptionID()
	excRecord := buildExceptionRecord(excID, queue, priority, approvalRequired, reason, result, dup, now)

	if err := r.writer(r.queuePath(queue)).Append(record.FormatException(excRecord)); err != nil {
		return domain.TriageOutcome{}, fmt.Errorf("writing queue log: %w", err)
	}
	ledgerLine := record.FormatLedgerLine(excRecord)
	if err := r.writer(filepath.Join(r.systemLogsDir, ledgerFileName)).AppendLine(ledgerLine); err != nil {
		return domain.TriageOutcome{}, fmt.Errorf("writing exceptions ledger: %w", err)
	}

	procRec := buildProcessedRecord(result.Triple, processingResultLabel(disposition, queue), now)
	if err := r.processed.Append(procRec); err != nil {
		return domain.TriageOutcome{}, fmt.Errorf("writing processed-invoice log: %w", err)
	}

	if priority == domain.PriorityHigh && r.notifier != nil {
		if err := r.notifier.Notify(ctx, excRecord); err != nil {
			r.log.Warn("high-priority notification failed", zap.Error(err), zap.String("exception_id", excID))
		}
	}

	return domain.TriageOutcome{
		Disposition:             disposition,
		Queue:                   queue,
		Priority:                priority,
		ManagerApprovalRequired: approvalRequired,
		RoutingReason:           reason,
		Exception:               &excRecord,
	}, nil
}
