package sheets

import (
	"testing"

	"github.com/shopspring/decimal"

	"kontor/internal/core"
)

func TestRow(t *testing.T) {
	tx := core.Transaction{
		BookingDate:    core.NewDate(2024, 3, 1),
		ValueDate:      core.NewDate(2024, 3, 2),
		AccountName:    "Giro",
		PayeeShortened: "ACME",
		TextShortened:  "rent",
		Amount:         decimal.RequireFromString("-800.50"),
		CurrencyShort:  "EUR",
		CategoryName:   "Housing",
		TagIDs:         []int64{2, 5},
	}

	tests := []struct {
		name     string
		resolver TagResolver
		wantTags string
	}{
		{name: "ids without resolver", wantTags: "2,5"},
		{
			name: "names with resolver",
			resolver: func(ids []int64) []string {
				return []string{"home", "fixed"}
			},
			wantTags: "home, fixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row(tx, tt.resolver)
			if len(row) != len(Header) {
				t.Fatalf("len(row) = %d, want %d", len(row), len(Header))
			}
			if row[0] != "2024-03-01" || row[1] != "2024-03-02" {
				t.Errorf("dates = %v, %v", row[0], row[1])
			}
			if row[5] != -800.5 {
				t.Errorf("amount = %v", row[5])
			}
			if row[8] != tt.wantTags {
				t.Errorf("tags = %q, want %q", row[8], tt.wantTags)
			}
		})
	}
}
