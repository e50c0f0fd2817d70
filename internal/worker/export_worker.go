// Package worker moves ledger transactions into the external Google
// Sheet. It reacts to AMQP events and periodically sweeps rows the
// event stream missed.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"affitti/internal/amqp"
	"affitti/internal/core"
	"affitti/internal/sheets"
)

// ExportStore is the storage surface the worker needs. Satisfied by
// *storage.SQLiteRepository.
type ExportStore interface {
	Get(ctx context.Context, id int64) (core.Transaction, error)
	GetPendingExports(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64, msg string) error
}

type ExportWorker struct {
	store     ExportStore
	sheet     sheets.LedgerAppender
	batchSize int
}

func NewExportWorker(store ExportStore, sheet sheets.LedgerAppender, batchSize int) *ExportWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &ExportWorker{
		store:     store,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleEvent processes one AMQP event. Deleted events are
// acknowledged without touching the sheet: exported rows stay as
// history and pending rows become unreachable through ListAll anyway.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	if event.Action == amqp.ActionDeleted {
		slog.InfoContext(ctx, "Skipping export for deleted transaction", "id", event.ID)
		return nil
	}

	id, err := strconv.ParseInt(event.ID, 10, 64)
	if err != nil {
		// Malformed id: nothing to retry, drop the message.
		slog.ErrorContext(ctx, "Event with non-numeric id", "id", event.ID)
		return nil
	}

	tx, err := w.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", id, err)
	}

	return w.export(ctx, id, tx)
}

// ProcessPendingExports exports one batch of rows still marked pending.
// Returns the number of rows processed.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) (int, error) {
	pending, err := w.store.GetPendingExports(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending exports: %w", err)
	}

	processed := 0
	for _, tx := range pending {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		id, err := strconv.ParseInt(tx.ID, 10, 64)
		if err != nil {
			continue
		}
		if err := w.export(ctx, id, tx); err != nil {
			slog.ErrorContext(ctx, "Pending export failed", "id", tx.ID, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

// StartupCheck drains the pending backlog once at boot.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	total := 0
	for {
		n, err := w.ProcessPendingExports(ctx)
		if err != nil {
			return err
		}
		total += n
		if n < w.batchSize {
			break
		}
	}
	if total > 0 {
		slog.InfoContext(ctx, "Startup export backlog drained", "count", total)
	}
	return nil
}

func (w *ExportWorker) export(ctx context.Context, id int64, tx core.Transaction) error {
	rowRef, err := w.sheet.Append(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, id, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkExported(ctx, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction", "id", id, "row", rowRef)
	return nil
}
