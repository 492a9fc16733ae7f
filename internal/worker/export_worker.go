// Package worker consumes record events and exports transactions to the
// configured spreadsheet.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/export"
	"finanzas/internal/log"
	"finanzas/internal/store"
)

// ExportWorker appends created transactions to the export sheet. Events
// carry only identifiers; the full record is fetched from the store.
// Failed appends are queued and retried on the flush interval, so a
// flaky Sheets API does not lose rows.
type ExportWorker struct {
	store    store.TransactionStore
	appender export.TransactionAppender
	logger   *log.Logger

	mu      sync.Mutex
	retries []string // transaction ids awaiting retry
	maxSize int
}

func NewExportWorker(st store.TransactionStore, appender export.TransactionAppender, batchSize int, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		store:    st,
		appender: appender,
		logger:   logger.WithComponent(log.ComponentWorker),
		maxSize:  batchSize,
	}
}

// HandleEvent processes one record event. Only transaction creations are
// exported; deletions and other record kinds are acknowledged untouched.
// A failed append is queued for retry and the event is still acknowledged:
// returning an error would requeue the message on the broker and the
// transaction would be appended once per path.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.RecordEvent) error {
	if event.Kind != "transaction" || event.Action != amqp.ActionCreated {
		return nil
	}

	if err := w.exportTransaction(ctx, event.ID); err != nil {
		w.logger.WarnContext(ctx, "Export failed, queued for retry",
			log.FieldError, err,
			log.FieldRecordID, event.ID)
		w.enqueueRetry(event.ID)
	}
	return nil
}

// FlushRetries re-attempts queued exports, up to the batch size.
func (w *ExportWorker) FlushRetries(ctx context.Context) {
	w.mu.Lock()
	n := len(w.retries)
	if n > w.maxSize {
		n = w.maxSize
	}
	batch := make([]string, n)
	copy(batch, w.retries[:n])
	w.retries = w.retries[n:]
	w.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	w.logger.InfoContext(ctx, "Retrying failed exports", "count", len(batch))
	for _, id := range batch {
		if err := w.exportTransaction(ctx, id); err != nil {
			w.logger.ErrorContext(ctx, "Retry export failed",
				log.FieldError, err,
				log.FieldRecordID, id)
			w.enqueueRetry(id)
		}
	}
}

// RunRetryLoop flushes the retry queue on every tick until the context
// is cancelled.
func (w *ExportWorker) RunRetryLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.FlushRetries(ctx)
		}
	}
}

// PendingRetries returns the number of queued retry exports.
func (w *ExportWorker) PendingRetries() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.retries)
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id string) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	w.logger.InfoContext(ctx, "Exported transaction",
		log.FieldRecordID, id,
		log.FieldOwnerID, tx.Owner,
		log.FieldSheetsRef, ref)
	return nil
}

func (w *ExportWorker) enqueueRetry(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, queued := range w.retries {
		if queued == id {
			return
		}
	}
	w.retries = append(w.retries, id)
}
