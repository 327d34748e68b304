package stores

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"kontor/internal/api"
	"kontor/internal/core"
)

func TestBuildTransactionFromResponse_Derivations(t *testing.T) {
	tests := []struct {
		name       string
		raw        api.Transaction
		wantText   string
		wantPayee  string
		wantTagIDs []int64
	}{
		{
			name:       "payee prefix with comma",
			raw:        api.Transaction{Payee: "ACME", Text: "ACME, rent"},
			wantText:   "rent",
			wantPayee:  "ACME",
			wantTagIDs: []int64{},
		},
		{
			name:       "payee annotation",
			raw:        api.Transaction{Payee: "ACME (DE)", Text: "x"},
			wantText:   "x",
			wantPayee:  "ACME",
			wantTagIDs: []int64{},
		},
		{
			name:       "tag list",
			raw:        api.Transaction{TagIDs: "1,2,3"},
			wantTagIDs: []int64{1, 2, 3},
		},
		{
			name:       "empty tag list",
			raw:        api.Transaction{TagIDs: ""},
			wantTagIDs: []int64{},
		},
		{
			name:       "text without payee prefix",
			raw:        api.Transaction{Payee: "Landlord", Text: "Rent March"},
			wantText:   "Rent March",
			wantPayee:  "Landlord",
			wantTagIDs: []int64{},
		},
		{
			name:       "text equal to payee is kept",
			raw:        api.Transaction{Payee: "ACME", Text: "ACME"},
			wantText:   "ACME",
			wantPayee:  "ACME",
			wantTagIDs: []int64{},
		},
		{
			name:       "parenthesis at start keeps payee",
			raw:        api.Transaction{Payee: "(none)", Text: ""},
			wantPayee:  "(none)",
			wantTagIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTransactionFromResponse(tt.raw)
			if got.TextShortened != tt.wantText {
				t.Errorf("TextShortened = %q, want %q", got.TextShortened, tt.wantText)
			}
			if got.PayeeShortened != tt.wantPayee {
				t.Errorf("PayeeShortened = %q, want %q", got.PayeeShortened, tt.wantPayee)
			}
			if !reflect.DeepEqual(got.TagIDs, tt.wantTagIDs) {
				t.Errorf("TagIDs = %v, want %v", got.TagIDs, tt.wantTagIDs)
			}
		})
	}
}

func TestBuildTransactionFromResponse_MapsFields(t *testing.T) {
	raw := api.Transaction{
		ID:                 9,
		AccountID:          2,
		AccountName:        "Giro",
		BookingDate:        "2024-03-01",
		ValueDate:          "2024-03-02T10:00:00Z",
		Text:               "Shop, groceries",
		EntryText:          "DEBIT",
		EndToEndReference:  "E2E",
		CreditorReference:  "CRED",
		MandateReference:   "MREF",
		Amount:             decimal.RequireFromString("-42.10"),
		Notes:              "weekly",
		Payee:              "Shop",
		PayeeAccountNumber: "DE00",
		CategoryID:         4,
		CategoryName:       "Food",
		CurrencyID:         1,
		CurrencyName:       "Euro",
		CurrencyShort:      "EUR",
		RuleSetID:          6,
		RuleSetName:        "Groceries",
		Unseen:             true,
		TagIDs:             "5",
	}

	got := BuildTransactionFromResponse(raw)
	if got.ID != 9 || got.AccountID != 2 || got.CategoryID != 4 || got.CurrencyID != 1 || got.RuleSetID != 6 {
		t.Errorf("ids = %+v", got)
	}
	if !got.BookingDate.Equal(core.NewDate(2024, 3, 1).Time) || !got.ValueDate.Equal(core.NewDate(2024, 3, 2).Time) {
		t.Errorf("dates = %v %v", got.BookingDate, got.ValueDate)
	}
	if got.MandateReference != "MREF" || got.CreditorReference != "CRED" || got.EndToEndReference != "E2E" {
		t.Errorf("references = %+v", got)
	}
	if !got.Amount.Equal(decimal.RequireFromString("-42.1")) || !got.Unseen {
		t.Errorf("amount/unseen = %s %v", got.Amount, got.Unseen)
	}
	if got.TextShortened != "groceries" {
		t.Errorf("TextShortened = %q", got.TextShortened)
	}
}

func TestBuildTransactionFromResponse_BadDate(t *testing.T) {
	got := BuildTransactionFromResponse(api.Transaction{BookingDate: "01.03.2024"})
	if !got.BookingDate.IsEmpty() {
		t.Errorf("BookingDate = %v, want zero", got.BookingDate)
	}
}
