// Package worker mirrors the local ledger to the spreadsheet in the
// background.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nossosgastos/internal/amqp"
	"nossosgastos/internal/sheets"
	"nossosgastos/internal/storage"
)

// MirrorWorker applies ledger events to the spreadsheet mirror. Events
// carry identifiers only; rows come from local storage.
type MirrorWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.LedgerWriter
	deleter   sheets.LedgerDeleter
	batchSize int
}

func NewMirrorWorker(storage *storage.SQLiteRepository, writer sheets.LedgerWriter, deleter sheets.LedgerDeleter, batchSize int) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &MirrorWorker{
		storage:   storage,
		writer:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleEvent processes one ledger event. Returning an error requeues the
// delivery.
func (w *MirrorWorker) HandleEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	switch event.Kind {
	case amqp.KindTransactionCreated:
		return w.mirrorTransaction(ctx, event.ID)
	case amqp.KindGroupCreated:
		return w.mirrorGroup(ctx, event.GroupID)
	case amqp.KindTransactionDeleted:
		return w.deleter.Delete(ctx, event.ID)
	case amqp.KindGroupDeleted:
		return w.deleter.DeleteGroup(ctx, event.GroupID)
	default:
		// Unknown kinds are dropped, not requeued.
		slog.WarnContext(ctx, "Ignoring unknown ledger event", "kind", event.Kind)
		return nil
	}
}

func (w *MirrorWorker) mirrorTransaction(ctx context.Context, id string) error {
	tx, err := w.storage.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the event was consumed.
		slog.WarnContext(ctx, "Transaction gone before mirroring", "transaction_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction %s: %w", id, err)
	}

	if _, err := w.writer.Append(ctx, tx); err != nil {
		return fmt.Errorf("mirror transaction %s: %w", id, err)
	}
	return w.storage.MarkSynced(ctx, id)
}

func (w *MirrorWorker) mirrorGroup(ctx context.Context, groupID string) error {
	rows, err := w.storage.ListGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("load group %s: %w", groupID, err)
	}
	for _, tx := range rows {
		if _, err := w.writer.Append(ctx, tx); err != nil {
			return fmt.Errorf("mirror installment %s: %w", tx.ID, err)
		}
		if err := w.storage.MarkSynced(ctx, tx.ID); err != nil {
			return err
		}
	}
	return nil
}

// Resync pushes one batch of rows that never made it to the spreadsheet,
// covering events lost while the broker was down. Returns how many rows
// were mirrored.
func (w *MirrorWorker) Resync(ctx context.Context) (int, error) {
	pending, err := w.storage.ListPendingSync(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending sync: %w", err)
	}

	synced := 0
	for _, tx := range pending {
		if _, err := w.writer.Append(ctx, tx); err != nil {
			// Stop the sweep; the next tick retries from here.
			return synced, fmt.Errorf("resync transaction %s: %w", tx.ID, err)
		}
		if err := w.storage.MarkSynced(ctx, tx.ID); err != nil {
			return synced, err
		}
		synced++
	}

	if synced > 0 {
		slog.InfoContext(ctx, "Resync sweep complete", "synced", synced)
	}
	return synced, nil
}
