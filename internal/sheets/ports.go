package sheets

import (
	"context"

	"affitti/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerAppender writes a transaction to an external ledger sheet
	// and returns a reference to the written row.
	LedgerAppender interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}
)
