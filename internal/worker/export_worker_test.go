package worker

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"affitti/internal/amqp"
	"affitti/internal/core"
)

type fakeStore struct {
	txs          map[int64]core.Transaction
	pending      []int64
	exported     []int64
	exportErrors map[int64]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		txs:          make(map[int64]core.Transaction),
		exportErrors: make(map[int64]string),
	}
}

func (s *fakeStore) add(id int64) {
	s.txs[id] = core.Transaction{
		ID:       strconv.FormatInt(id, 10),
		Date:     core.NewDate(2026, 8, 1),
		Type:     core.Income,
		Category: core.CategoryRental,
		Amount:   core.Money{Cents: 10000},
	}
	s.pending = append(s.pending, id)
}

func (s *fakeStore) Get(_ context.Context, id int64) (core.Transaction, error) {
	tx, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, errors.New("not found")
	}
	return tx, nil
}

func (s *fakeStore) GetPendingExports(_ context.Context, limit int) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, id := range s.pending {
		if len(out) >= limit {
			break
		}
		out = append(out, s.txs[id])
	}
	return out, nil
}

func (s *fakeStore) MarkExported(_ context.Context, id int64) error {
	s.exported = append(s.exported, id)
	for i, p := range s.pending {
		if p == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) MarkExportError(_ context.Context, id int64, msg string) error {
	s.exportErrors[id] = msg
	return nil
}

type fakeSheet struct {
	appended []string
	err      error
}

func (f *fakeSheet) Append(_ context.Context, tx core.Transaction) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, tx.ID)
	return "Movimenti!A2:G2", nil
}

func TestHandleEventCreated(t *testing.T) {
	store := newFakeStore()
	store.add(1)
	sheet := &fakeSheet{}
	w := NewExportWorker(store, sheet, 10)

	event := amqp.NewTransactionEvent("1", amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(sheet.appended) != 1 || sheet.appended[0] != "1" {
		t.Fatalf("sheet appends = %v", sheet.appended)
	}
	if len(store.exported) != 1 || store.exported[0] != 1 {
		t.Fatalf("exported = %v", store.exported)
	}
}

func TestHandleEventDeletedSkipsSheet(t *testing.T) {
	store := newFakeStore()
	store.add(1)
	sheet := &fakeSheet{}
	w := NewExportWorker(store, sheet, 10)

	event := amqp.NewTransactionEvent("1", amqp.ActionDeleted)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(sheet.appended) != 0 {
		t.Fatalf("deleted event should not touch the sheet")
	}
}

func TestHandleEventUnknownIDRetries(t *testing.T) {
	store := newFakeStore()
	sheet := &fakeSheet{}
	w := NewExportWorker(store, sheet, 10)

	event := amqp.NewTransactionEvent("99", amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err == nil {
		t.Fatalf("expected error for unknown transaction")
	}
}

func TestHandleEventMalformedIDDropped(t *testing.T) {
	w := NewExportWorker(newFakeStore(), &fakeSheet{}, 10)
	event := amqp.NewTransactionEvent("abc", amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("malformed id should be dropped, got %v", err)
	}
}

func TestHandleEventSheetFailureRecorded(t *testing.T) {
	store := newFakeStore()
	store.add(1)
	sheet := &fakeSheet{err: errors.New("quota exceeded")}
	w := NewExportWorker(store, sheet, 10)

	event := amqp.NewTransactionEvent("1", amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err == nil {
		t.Fatalf("expected error when sheet append fails")
	}
	if store.exportErrors[1] != "quota exceeded" {
		t.Fatalf("export error not recorded: %v", store.exportErrors)
	}
}

func TestProcessPendingExports(t *testing.T) {
	store := newFakeStore()
	store.add(1)
	store.add(2)
	store.add(3)
	sheet := &fakeSheet{}
	w := NewExportWorker(store, sheet, 2)

	n, err := w.ProcessPendingExports(context.Background())
	if err != nil {
		t.Fatalf("ProcessPendingExports: %v", err)
	}
	if n != 2 {
		t.Fatalf("processed = %d, want 2 (batch size)", n)
	}
	if len(store.pending) != 1 {
		t.Fatalf("pending left = %d, want 1", len(store.pending))
	}
}

func TestStartupCheckDrainsBacklog(t *testing.T) {
	store := newFakeStore()
	for i := int64(1); i <= 5; i++ {
		store.add(i)
	}
	sheet := &fakeSheet{}
	w := NewExportWorker(store, sheet, 2)

	if err := w.StartupCheck(context.Background()); err != nil {
		t.Fatalf("StartupCheck: %v", err)
	}
	if len(store.pending) != 0 {
		t.Fatalf("backlog not drained: %d pending", len(store.pending))
	}
	if len(sheet.appended) != 5 {
		t.Fatalf("appended = %d, want 5", len(sheet.appended))
	}
}
