package sheets

import (
	"context"

	"kontor/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionExporter appends transactions to a spreadsheet and returns
	// a reference to the written range.
	TransactionExporter interface {
		Export(ctx context.Context, txs []core.Transaction) (ref string, err error)
	}

	// TagResolver turns tag ids into display names.
	TagResolver func(ids []int64) []string
)
