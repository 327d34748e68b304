package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical client-side shape of a booked transaction.
type Transaction struct {
	ID                 int64           `json:"id" yaml:"id"`
	AccountID          int64           `json:"accountId" yaml:"accountId"`
	AccountName        string          `json:"accountName" yaml:"accountName"`
	BookingDate        Date            `json:"bookingDate" yaml:"bookingDate"`
	ValueDate          Date            `json:"valueDate" yaml:"valueDate"`
	Text               string          `json:"text" yaml:"text"`
	TextShortened      string          `json:"textShortened" yaml:"textShortened"`
	EntryText          string          `json:"entryText,omitempty" yaml:"entryText,omitempty"`
	EndToEndReference  string          `json:"endToEndReference,omitempty" yaml:"endToEndReference,omitempty"`
	CreditorReference  string          `json:"creditorReference,omitempty" yaml:"creditorReference,omitempty"`
	MandateReference   string          `json:"mandateReference,omitempty" yaml:"mandateReference,omitempty"`
	Amount             decimal.Decimal `json:"amount" yaml:"amount"`
	Notes              string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	Payee              string          `json:"payee" yaml:"payee"`
	PayeeShortened     string          `json:"payeeShortened" yaml:"payeeShortened"`
	PayeeAccountNumber string          `json:"payeeAccountNumber,omitempty" yaml:"payeeAccountNumber,omitempty"`
	CategoryID         int64           `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	CategoryName       string          `json:"categoryName,omitempty" yaml:"categoryName,omitempty"`
	CurrencyID         int64           `json:"currencyId,omitempty" yaml:"currencyId,omitempty"`
	CurrencyName       string          `json:"currencyName,omitempty" yaml:"currencyName,omitempty"`
	CurrencyShort      string          `json:"currencyShort,omitempty" yaml:"currencyShort,omitempty"`
	RuleSetID          int64           `json:"ruleSetId,omitempty" yaml:"ruleSetId,omitempty"`
	RuleSetName        string          `json:"ruleSetName,omitempty" yaml:"ruleSetName,omitempty"`
	Unseen             bool            `json:"unseen" yaml:"unseen"`
	TagIDs             []int64         `json:"tagIds" yaml:"tagIds"`
}

// TransactionInput carries the fields of a manually created transaction.
type TransactionInput struct {
	AccountID          int64
	BookingDate        Date
	ValueDate          Date
	Text               string
	Payee              string
	PayeeAccountNumber string
	Amount             decimal.Decimal
	Notes              string
	CategoryID         int64
	CurrencyID         int64
}

// TransactionUpdate is a partial update; nil fields are left untouched.
type TransactionUpdate struct {
	Notes      *string
	CategoryID *int64
	Payee      *string
	Text       *string
	Unseen     *bool
	TagIDs     *[]int64
}

// IsEmpty reports whether the update changes nothing.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Notes == nil && u.CategoryID == nil && u.Payee == nil &&
		u.Text == nil && u.Unseen == nil && u.TagIDs == nil
}

// Apply merges the update into t and re-derives the display fields.
func (t Transaction) Apply(u TransactionUpdate) Transaction {
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	if u.CategoryID != nil {
		t.CategoryID = *u.CategoryID
		t.CategoryName = ""
	}
	if u.Payee != nil {
		t.Payee = *u.Payee
	}
	if u.Text != nil {
		t.Text = *u.Text
	}
	if u.Unseen != nil {
		t.Unseen = *u.Unseen
	}
	if u.TagIDs != nil {
		t.TagIDs = dedupeIDs(*u.TagIDs)
	}
	t.TextShortened = ShortenText(t.Text, t.Payee)
	t.PayeeShortened = ShortenPayee(t.Payee)
	return t
}

// ShortenText strips a leading payee name, and the comma that usually
// follows it, from a booking text. A text that is nothing but the payee is
// kept whole.
func ShortenText(text, payee string) string {
	if payee == "" || !strings.HasPrefix(text, payee) {
		return text
	}
	rest := strings.TrimSpace(text[len(payee):])
	switch {
	case strings.HasPrefix(rest, ", "):
		rest = rest[2:]
	case strings.HasPrefix(rest, ","):
		rest = rest[1:]
	}
	if rest == "" {
		return text
	}
	return rest
}

// ShortenPayee drops a trailing parenthetical annotation such as "(DE)".
func ShortenPayee(payee string) string {
	trimmed := strings.TrimSpace(payee)
	open := strings.Index(trimmed, "(")
	if open <= 0 {
		return payee
	}
	if strings.Index(trimmed[open:], ")") <= 0 {
		return payee
	}
	return strings.TrimSpace(trimmed[:open])
}

// ParseTagIDs parses a comma-delimited id list. Blank input yields an empty
// set; entries that are not integers are skipped.
func ParseTagIDs(s string) []int64 {
	ids := []int64{}
	if strings.TrimSpace(s) == "" {
		return ids
	}
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return dedupeIDs(ids)
}

// FormatTagIDs is the inverse of ParseTagIDs.
func FormatTagIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func dedupeIDs(in []int64) []int64 {
	seen := make(map[int64]struct{}, len(in))
	out := make([]int64, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
