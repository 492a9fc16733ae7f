// Package export pushes accepted transactions to an external
// spreadsheet so they can be shared outside the app.
package export

import (
	"context"

	"finanzas/internal/core"
)

// TransactionAppender writes one transaction row to the export target.
type TransactionAppender interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
