package api

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"kontor/internal/core"
)

func TestTransactionDecodesLooseBackendShapes(t *testing.T) {
	raw := `{
		"t_id": "42",
		"t_id_account": 3,
		"t_amount": "-12.50",
		"t_id_category": null,
		"t_unseen": 1,
		"tag_ids": [4, 5],
		"t_payee": "ACME"
	}`

	var tx Transaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if tx.ID != 42 || tx.AccountID != 3 || tx.CategoryID != 0 {
		t.Errorf("ids = %d %d %d", tx.ID, tx.AccountID, tx.CategoryID)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("-12.5")) {
		t.Errorf("Amount = %s", tx.Amount)
	}
	if !tx.Unseen {
		t.Error("Unseen = false, want true")
	}
	if tx.TagIDs != "4,5" {
		t.Errorf("TagIDs = %q", tx.TagIDs)
	}
}

func TestFlag(t *testing.T) {
	tests := []struct {
		in   string
		want Flag
		err  bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`1`, true, false},
		{`0`, false, false},
		{`"1"`, true, false},
		{`null`, false, false},
		{`"maybe"`, false, true},
	}
	for _, tt := range tests {
		var f Flag
		err := json.Unmarshal([]byte(tt.in), &f)
		if (err != nil) != tt.err {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if f != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, f, tt.want)
		}
	}
}

func TestListAcceptsArrayOrWrapper(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2},
		{"wrapped", `{"accounts":[{"id":1}]}`, 1},
		{"wrapped null", `{"accounts":null}`, 0},
		{"other key", `{"items":[{"id":1}]}`, 0},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := List[core.Account]{Key: "accounts"}
			if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(l.Items) != tt.want {
				t.Errorf("len = %d, want %d", len(l.Items), tt.want)
			}
			if l.Items == nil {
				t.Error("Items must never be nil")
			}
		})
	}
}

func TestUpdateTransactionBodyOnlySetFields(t *testing.T) {
	notes := "paid"
	tags := []int64{1, 2}
	body := UpdateTransactionBody(core.TransactionUpdate{Notes: &notes, TagIDs: &tags})

	if len(body) != 2 {
		t.Fatalf("body = %v, want 2 keys", body)
	}
	if body["t_notes"] != "paid" || body["tag_ids"] != "1,2" {
		t.Errorf("body = %v", body)
	}
}

func TestNewTransactionBodyAmountIsNumber(t *testing.T) {
	in := core.TransactionInput{
		AccountID:   1,
		BookingDate: core.NewDate(2024, 3, 1),
		Text:        "Rent",
		Amount:      decimal.RequireFromString("-750.00"),
	}
	b, err := json.Marshal(NewTransactionBody(in))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["t_amount"].(float64); !ok {
		t.Errorf("t_amount = %T, want number", m["t_amount"])
	}
	if m["t_booking_date"] != "2024-03-01" {
		t.Errorf("t_booking_date = %v", m["t_booking_date"])
	}
	if _, ok := m["t_value_date"]; ok {
		t.Error("empty value date must be omitted")
	}
}

func TestRuleSetCanonical(t *testing.T) {
	rs := RuleSet{
		ID:         5,
		Name:       "Rent",
		Conditions: []RuleCondition{{Field: "payee", Operator: "contains", Value: "landlord"}},
		CategoryID: 9,
	}
	got := rs.Canonical()
	if got.ID != 5 || got.CategoryID != 9 || len(got.Conditions) != 1 || got.Conditions[0].Value != "landlord" {
		t.Errorf("Canonical() = %+v", got)
	}
}
