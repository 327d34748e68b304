package stores

import (
	"context"

	"kontor/internal/api"
	"kontor/internal/cache"
	"kontor/internal/core"
	"kontor/internal/log"
)

const pathAccounts = "/api/accounts"

// AccountStore caches the user's accounts.
type AccountStore struct {
	base
	accounts cache.Collection[core.Account]
}

func NewAccountStore(d Deps) *AccountStore {
	return &AccountStore{base: newBase(d, log.ComponentAccounts)}
}

// GetAccounts loads the accounts unless they are cached and force is false.
func (s *AccountStore) GetAccounts(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.accounts, force, "list accounts", pathAccounts, "accounts")
}

func (s *AccountStore) Accounts() []core.Account {
	return s.accounts.Items()
}

func (s *AccountStore) Account(id int64) core.Lookup[core.Account] {
	return s.accounts.Find(func(a core.Account) bool { return a.ID == id })
}

// UpdateAccount sends a partial update and patches the cached account.
func (s *AccountStore) UpdateAccount(ctx context.Context, id int64, u core.AccountUpdate) (core.Account, error) {
	if id == 0 {
		return core.Account{}, core.ErrMissingID
	}
	if u.IsEmpty() {
		return core.Account{}, core.ErrNothingToUpdate
	}

	body := map[string]any{}
	if u.Name != nil {
		body["name"] = *u.Name
	}
	if u.AccountTypeID != nil {
		body["accountTypeId"] = *u.AccountTypeID
	}
	if u.BankcontactID != nil {
		body["bankcontactId"] = *u.BankcontactID
	}

	var resp core.Account
	err := s.call(ctx, "update account", func(creds api.Credentials) error {
		return s.client.Post(ctx, api.Path(pathAccounts, id), creds, body, &resp)
	})
	if err != nil {
		return core.Account{}, err
	}

	updated := resp
	if resp.ID == 0 {
		updated = s.Account(id).OrElse(core.Account{ID: id}).Apply(u)
	}
	s.accounts.Update(func(a core.Account) bool { return a.ID == id }, func(core.Account) core.Account { return updated })

	s.publish(ctx, EntityAccount, ActionUpdated, id)
	return updated, nil
}
