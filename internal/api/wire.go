package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"kontor/internal/core"
)

var jsonNull = []byte("null")

// ID is a backend identifier. The backend sends numbers, numeric strings
// or null depending on the endpoint.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*id = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid id %s", b)
		}
		n = int64(f)
	}
	*id = ID(n)
	return nil
}

// Flag is a boolean the backend encodes as true/false, 0/1 or their
// string forms.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	switch s {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag %s", b)
	}
	return nil
}

// TagList is the comma-joined tag id string; a JSON array of ids is
// accepted and joined.
type TagList string

func (t *TagList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var ids []ID
		if err := json.Unmarshal(b, &ids); err != nil {
			return fmt.Errorf("invalid tag list: %w", err)
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.FormatInt(int64(id), 10)
		}
		*t = TagList(strings.Join(parts, ","))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid tag list: %w", err)
	}
	*t = TagList(s)
	return nil
}

// Transaction is a transaction as the backend sends it.
type Transaction struct {
	ID                 ID              `json:"t_id"`
	AccountID          ID              `json:"t_id_account"`
	AccountName        string          `json:"account_name"`
	BookingDate        string          `json:"t_booking_date"`
	ValueDate          string          `json:"t_value_date"`
	Text               string          `json:"t_text"`
	EntryText          string          `json:"t_entry_text"`
	EndToEndReference  string          `json:"t_eref"`
	CreditorReference  string          `json:"t_cref"`
	MandateReference   string          `json:"t_mref"`
	Amount             decimal.Decimal `json:"t_amount"`
	Notes              string          `json:"t_notes"`
	Payee              string          `json:"t_payee"`
	PayeeAccountNumber string          `json:"t_payee_account_no"`
	CategoryID         ID              `json:"t_id_category"`
	CategoryName       string          `json:"category_name"`
	CurrencyID         ID              `json:"t_id_currency"`
	CurrencyName       string          `json:"currency_name"`
	CurrencyShort      string          `json:"currency_short"`
	RuleSetID          ID              `json:"t_id_rule_set"`
	RuleSetName        string          `json:"rule_set_name"`
	Unseen             Flag            `json:"t_unseen"`
	TagIDs             TagList         `json:"tag_ids"`
}

// NewTransaction is the body of a create request.
type NewTransaction struct {
	AccountID          int64       `json:"t_id_account"`
	BookingDate        string      `json:"t_booking_date,omitempty"`
	ValueDate          string      `json:"t_value_date,omitempty"`
	Text               string      `json:"t_text"`
	Payee              string      `json:"t_payee"`
	PayeeAccountNumber string      `json:"t_payee_account_no,omitempty"`
	Amount             json.Number `json:"t_amount"`
	Notes              string      `json:"t_notes,omitempty"`
	CategoryID         int64       `json:"t_id_category,omitempty"`
	CurrencyID         int64       `json:"t_id_currency,omitempty"`
}

// NewTransactionBody converts a create input to its wire form.
func NewTransactionBody(in core.TransactionInput) NewTransaction {
	return NewTransaction{
		AccountID:          in.AccountID,
		BookingDate:        in.BookingDate.String(),
		ValueDate:          in.ValueDate.String(),
		Text:               in.Text,
		Payee:              in.Payee,
		PayeeAccountNumber: in.PayeeAccountNumber,
		Amount:             json.Number(in.Amount.String()),
		Notes:              in.Notes,
		CategoryID:         in.CategoryID,
		CurrencyID:         in.CurrencyID,
	}
}

// UpdateTransactionBody carries only the fields set in u.
func UpdateTransactionBody(u core.TransactionUpdate) map[string]any {
	body := make(map[string]any)
	if u.Notes != nil {
		body["t_notes"] = *u.Notes
	}
	if u.CategoryID != nil {
		body["t_id_category"] = *u.CategoryID
	}
	if u.Payee != nil {
		body["t_payee"] = *u.Payee
	}
	if u.Text != nil {
		body["t_text"] = *u.Text
	}
	if u.Unseen != nil {
		body["t_unseen"] = *u.Unseen
	}
	if u.TagIDs != nil {
		body["tag_ids"] = core.FormatTagIDs(*u.TagIDs)
	}
	return body
}

// RuleCondition is one condition of a wire rule set.
type RuleCondition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// RuleSet is a rule set as the backend sends it.
type RuleSet struct {
	ID           ID              `json:"id"`
	Name         string          `json:"name"`
	Conditions   []RuleCondition `json:"conditions"`
	CategoryID   ID              `json:"id_category"`
	CategoryName string          `json:"category_name"`
}

// Canonical converts the wire rule set.
func (r RuleSet) Canonical() core.RuleSet {
	conds := make([]core.RuleCondition, len(r.Conditions))
	for i, c := range r.Conditions {
		conds[i] = core.RuleCondition{Field: c.Field, Operator: c.Operator, Value: c.Value}
	}
	return core.RuleSet{
		ID:           int64(r.ID),
		Name:         r.Name,
		Conditions:   conds,
		CategoryID:   int64(r.CategoryID),
		CategoryName: r.CategoryName,
	}
}

// RuleSetBody is the body of a rule set create or update.
type RuleSetBody struct {
	Name       string          `json:"name"`
	Conditions []RuleCondition `json:"conditions"`
	CategoryID int64           `json:"id_category,omitempty"`
}

// NewRuleSetBody converts a rule set input to its wire form.
func NewRuleSetBody(in core.RuleSetInput) RuleSetBody {
	conds := make([]RuleCondition, len(in.Conditions))
	for i, c := range in.Conditions {
		conds[i] = RuleCondition{Field: c.Field, Operator: c.Operator, Value: c.Value}
	}
	return RuleSetBody{Name: in.Name, Conditions: conds, CategoryID: in.CategoryID}
}

// AuthResponse is the answer of POST /api/auth.
type AuthResponse struct {
	AccessToken             string   `json:"AccessToken"`
	AccessTokenExpiredAfter string   `json:"AccessTokenExpiredAfter"`
	RefreshToken            string   `json:"RefreshToken"`
	UserID                  ID       `json:"idUser"`
	Permissions             []string `json:"permissions"`
}

// List decodes either a bare JSON array or an object wrapping the array
// under key. A null or missing list decodes to an empty slice.
type List[T any] struct {
	Key   string
	Items []T
}

func (l *List[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	l.Items = []T{}
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		return nil
	}
	if b[0] == '[' {
		return json.Unmarshal(b, &l.Items)
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return err
	}
	raw, ok := wrapper[l.Key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil
	}
	return json.Unmarshal(raw, &l.Items)
}
