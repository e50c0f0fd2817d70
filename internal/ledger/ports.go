// Package ledger defines the persistence ports for transactions.
package ledger

import (
	"context"

	"affitti/internal/core"
)

// TransactionWriter persists new transactions and returns the assigned id.
type TransactionWriter interface {
	Append(ctx context.Context, tx core.Transaction) (string, error)
}

// TransactionDeleter removes a transaction by id.
type TransactionDeleter interface {
	Delete(ctx context.Context, id string) error
}

// TransactionLister returns every stored transaction, most recent first.
type TransactionLister interface {
	ListAll(ctx context.Context) ([]core.Transaction, error)
}

// Store is the full persistence surface the HTTP layer depends on.
type Store interface {
	TransactionWriter
	TransactionDeleter
	TransactionLister
}
