package sheets

import (
	"strings"

	"kontor/internal/core"
)

// Header is the column layout of exported rows.
var Header = []any{
	"Booking date", "Value date", "Account", "Payee", "Text",
	"Amount", "Currency", "Category", "Tags",
}

// Row renders one transaction in Header order. Without a resolver, tags are
// written as their comma-joined ids.
func Row(t core.Transaction, tags TagResolver) []any {
	tagCell := core.FormatTagIDs(t.TagIDs)
	if tags != nil {
		tagCell = strings.Join(tags(t.TagIDs), ", ")
	}
	return []any{
		t.BookingDate.String(),
		t.ValueDate.String(),
		t.AccountName,
		t.PayeeShortened,
		t.TextShortened,
		t.Amount.InexactFloat64(),
		t.CurrencyShort,
		t.CategoryName,
		tagCell,
	}
}

// Rows renders txs in order.
func Rows(txs []core.Transaction, tags TagResolver) [][]any {
	out := make([][]any, len(txs))
	for i, t := range txs {
		out[i] = Row(t, tags)
	}
	return out
}
