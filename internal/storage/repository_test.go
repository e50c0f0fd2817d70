package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"affitti/internal/core"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "affitti.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sample() core.Transaction {
	return core.Transaction{
		Date:        core.NewDate(2026, 8, 10),
		Type:        core.Income,
		Category:    core.CategoryRental,
		Amount:      core.Money{Cents: 25000},
		Description: "settimana di agosto",
		GuestName:   "Luca Verdi",
		IsPaid:      true,
	}
}

func TestAppendAndListAll(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, sample())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	txs, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	got := txs[0]
	if got.ID != id || got.Amount.Cents != 25000 || got.GuestName != "Luca Verdi" || !got.IsPaid {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	repo := newRepo(t)
	bad := sample()
	bad.Type = "transfer"
	if _, err := repo.Append(context.Background(), bad); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestDeleteIsSoft(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, sample())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	txs, _ := repo.ListAll(ctx)
	if len(txs) != 0 {
		t.Fatalf("deleted transaction still listed")
	}

	// The row survives for the export worker.
	numID, _ := strconv.ParseInt(id, 10, 64)
	if _, err := repo.Get(ctx, numID); err != nil {
		t.Fatalf("Get after delete: %v", err)
	}

	if err := repo.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.Delete(ctx, "not-a-number"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad id, got %v", err)
	}
}

func TestExportLifecycle(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, sample())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	numID, _ := strconv.ParseInt(id, 10, 64)

	pending, err := repo.GetPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingExports: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("expected the new transaction pending, got %+v", pending)
	}

	if err := repo.MarkExported(ctx, numID); err != nil {
		t.Fatalf("MarkExported: %v", err)
	}
	pending, _ = repo.GetPendingExports(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending exports after mark, got %d", len(pending))
	}

	if err := repo.MarkExportError(ctx, numID, "sheet unavailable"); err != nil {
		t.Fatalf("MarkExportError: %v", err)
	}
}

func TestListOrdering(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	older := sample()
	older.Date = core.NewDate(2026, 7, 1)
	newer := sample()
	newer.Date = core.NewDate(2026, 8, 1)

	if _, err := repo.Append(ctx, older); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Append(ctx, newer); err != nil {
		t.Fatal(err)
	}

	txs, _ := repo.ListAll(ctx)
	if len(txs) != 2 || txs[0].Date.Before(txs[1].Date.Time) {
		t.Fatalf("expected most recent first, got %+v", txs)
	}
}
