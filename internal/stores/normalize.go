package stores

import (
	"kontor/internal/api"
	"kontor/internal/core"
)

// BuildTransactionFromResponse maps a backend transaction record to the
// canonical model and derives the shortened display fields.
func BuildTransactionFromResponse(raw api.Transaction) core.Transaction {
	t := core.Transaction{
		ID:                 int64(raw.ID),
		AccountID:          int64(raw.AccountID),
		AccountName:        raw.AccountName,
		BookingDate:        parseDate(raw.BookingDate),
		ValueDate:          parseDate(raw.ValueDate),
		Text:               raw.Text,
		EntryText:          raw.EntryText,
		EndToEndReference:  raw.EndToEndReference,
		CreditorReference:  raw.CreditorReference,
		MandateReference:   raw.MandateReference,
		Amount:             raw.Amount,
		Notes:              raw.Notes,
		Payee:              raw.Payee,
		PayeeAccountNumber: raw.PayeeAccountNumber,
		CategoryID:         int64(raw.CategoryID),
		CategoryName:       raw.CategoryName,
		CurrencyID:         int64(raw.CurrencyID),
		CurrencyName:       raw.CurrencyName,
		CurrencyShort:      raw.CurrencyShort,
		RuleSetID:          int64(raw.RuleSetID),
		RuleSetName:        raw.RuleSetName,
		Unseen:             bool(raw.Unseen),
		TagIDs:             core.ParseTagIDs(string(raw.TagIDs)),
	}
	t.TextShortened = core.ShortenText(t.Text, t.Payee)
	t.PayeeShortened = core.ShortenPayee(t.Payee)
	return t
}

func buildTransactions(raw []api.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(raw))
	for i := range raw {
		out[i] = BuildTransactionFromResponse(raw[i])
	}
	return out
}

// transactionFromInput is used when the backend acknowledges a create
// without echoing the record.
func transactionFromInput(in core.TransactionInput) core.Transaction {
	t := core.Transaction{
		AccountID:          in.AccountID,
		BookingDate:        in.BookingDate,
		ValueDate:          in.ValueDate,
		Text:               in.Text,
		Payee:              in.Payee,
		PayeeAccountNumber: in.PayeeAccountNumber,
		Amount:             in.Amount,
		Notes:              in.Notes,
		CategoryID:         in.CategoryID,
		CurrencyID:         in.CurrencyID,
		TagIDs:             []int64{},
	}
	t.TextShortened = core.ShortenText(t.Text, t.Payee)
	t.PayeeShortened = core.ShortenPayee(t.Payee)
	return t
}

func parseDate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}
	}
	return d
}
