// Package sheets defines the outbound ports for the spreadsheet mirror.
package sheets

import (
	"context"

	"nossosgastos/internal/core"
)

type (
	// LedgerWriter mirrors one ledger row to the spreadsheet.
	LedgerWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// LedgerDeleter removes previously mirrored rows.
	LedgerDeleter interface {
		Delete(ctx context.Context, transactionID string) error
		DeleteGroup(ctx context.Context, groupID string) error
	}
)
