package core

import "github.com/shopspring/decimal"

type (
	Account struct {
		ID            int64           `json:"id" yaml:"id"`
		Name          string          `json:"name" yaml:"name"`
		Number        string          `json:"number,omitempty" yaml:"number,omitempty"`
		AccountTypeID int64           `json:"accountTypeId,omitempty" yaml:"accountTypeId,omitempty"`
		CurrencyID    int64           `json:"currencyId,omitempty" yaml:"currencyId,omitempty"`
		BankcontactID int64           `json:"bankcontactId,omitempty" yaml:"bankcontactId,omitempty"`
		Balance       decimal.Decimal `json:"balance" yaml:"balance"`
	}

	// AccountUpdate is a partial account update; nil fields are left untouched.
	AccountUpdate struct {
		Name          *string
		AccountTypeID *int64
		BankcontactID *int64
	}

	Currency struct {
		ID    int64  `json:"id" yaml:"id"`
		Name  string `json:"name" yaml:"name"`
		Short string `json:"short" yaml:"short"`
	}

	// Timespan is a named date range whose bounds are computed by the backend
	// from rule numbers and attributes.
	Timespan struct {
		ID                int64  `json:"id" yaml:"id"`
		Name              string `json:"name" yaml:"name"`
		FromRuleNo        int    `json:"fromRuleNo" yaml:"fromRuleNo"`
		FromRuleAttribute string `json:"fromRuleAttribute" yaml:"fromRuleAttribute"`
		ToRuleNo          int    `json:"toRuleNo" yaml:"toRuleNo"`
		ToRuleAttribute   string `json:"toRuleAttribute" yaml:"toRuleAttribute"`
	}

	Category struct {
		ID       int64  `json:"id" yaml:"id"`
		Name     string `json:"name" yaml:"name"`
		ParentID int64  `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	}

	Tag struct {
		ID   int64  `json:"id" yaml:"id"`
		Name string `json:"name" yaml:"name"`
	}

	AccountType struct {
		ID   int64  `json:"id" yaml:"id"`
		Name string `json:"name" yaml:"name"`
	}

	// NewTransactionPreset is a user preference used to prefill new transactions.
	NewTransactionPreset struct {
		ID          int64  `json:"id" yaml:"id"`
		Value       string `json:"value" yaml:"value"`
		Description string `json:"description" yaml:"description"`
	}
)

// Apply merges the update into a.
func (a Account) Apply(u AccountUpdate) Account {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.AccountTypeID != nil {
		a.AccountTypeID = *u.AccountTypeID
	}
	if u.BankcontactID != nil {
		a.BankcontactID = *u.BankcontactID
	}
	return a
}

// IsEmpty reports whether the update changes nothing.
func (u AccountUpdate) IsEmpty() bool {
	return u.Name == nil && u.AccountTypeID == nil && u.BankcontactID == nil
}
