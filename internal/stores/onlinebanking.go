package stores

import (
	"context"
	"encoding/json"
	"strings"

	"kontor/internal/api"
	"kontor/internal/cache"
	"kontor/internal/core"
	"kontor/internal/log"
)

const pathBankcontacts = "/api/bankcontacts"

// OnlineBankingStore caches bank contacts and drives FinTS operations.
// Passwords are never kept after a fetch.
type OnlineBankingStore struct {
	base
	bankcontacts cache.Collection[core.Bankcontact]
}

func NewOnlineBankingStore(d Deps) *OnlineBankingStore {
	return &OnlineBankingStore{base: newBase(d, log.ComponentOnlineBanking)}
}

func (s *OnlineBankingStore) GetBankcontacts(ctx context.Context, force bool) error {
	return s.bankcontacts.Load(ctx, force, func(ctx context.Context) ([]core.Bankcontact, error) {
		items, err := fetchList[core.Bankcontact](ctx, &s.base, "list bankcontacts", pathBankcontacts, "bankcontacts")
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].FintsPassword = ""
		}
		return items, nil
	})
}

func (s *OnlineBankingStore) Bankcontacts() []core.Bankcontact {
	return s.bankcontacts.Items()
}

func (s *OnlineBankingStore) Bankcontact(id int64) core.Lookup[core.Bankcontact] {
	return s.bankcontacts.Find(func(b core.Bankcontact) bool { return b.ID == id })
}

// SaveNewBankcontact creates a bank contact.
func (s *OnlineBankingStore) SaveNewBankcontact(ctx context.Context, bc core.Bankcontact) (core.Bankcontact, error) {
	if strings.TrimSpace(bc.Name) == "" {
		return core.Bankcontact{}, core.ErrMissingName
	}
	bc.ID = 0

	var resp core.Bankcontact
	err := s.call(ctx, "create bankcontact", func(creds api.Credentials) error {
		return s.client.Put(ctx, pathBankcontacts, creds, bc, &resp)
	})
	if err != nil {
		return core.Bankcontact{}, err
	}

	saved := resp
	if saved.ID == 0 {
		saved = bc
	}
	saved.FintsPassword = ""
	if saved.ID != 0 && s.bankcontacts.Len() > 0 {
		s.bankcontacts.Append(saved)
	}
	s.publish(ctx, EntityBankcontact, ActionCreated, saved.ID)
	return saved, nil
}

// UpdateBankcontact updates a bank contact; an empty FintsPassword keeps
// the stored one.
func (s *OnlineBankingStore) UpdateBankcontact(ctx context.Context, id int64, bc core.Bankcontact) (core.Bankcontact, error) {
	if id == 0 {
		return core.Bankcontact{}, core.ErrMissingID
	}
	bc.ID = id

	var resp core.Bankcontact
	err := s.call(ctx, "update bankcontact", func(creds api.Credentials) error {
		return s.client.Post(ctx, api.Path(pathBankcontacts, id), creds, bc, &resp)
	})
	if err != nil {
		return core.Bankcontact{}, err
	}

	saved := resp
	if saved.ID == 0 {
		saved = bc
	}
	saved.FintsPassword = ""
	s.bankcontacts.Update(func(b core.Bankcontact) bool { return b.ID == id }, func(core.Bankcontact) core.Bankcontact { return saved })
	s.publish(ctx, EntityBankcontact, ActionUpdated, id)
	return saved, nil
}

// GetAccountsOfBankcontact asks the bank for the accounts behind a contact.
// Without tan it starts the dialog; with tan it answers a challenge the bank
// raised earlier. The result may itself carry a new challenge.
func (s *OnlineBankingStore) GetAccountsOfBankcontact(ctx context.Context, id int64, tan *core.TANResponse) (core.BankResult, error) {
	if id == 0 {
		return core.BankResult{}, core.ErrMissingID
	}
	path := api.Path(pathBankcontacts, id, "accounts")

	var raw json.RawMessage
	err := s.call(ctx, "bankcontact accounts", func(creds api.Credentials) error {
		if tan != nil && tan.TANReference != "" {
			return s.client.Post(ctx, path, creds, tan, &raw)
		}
		return s.client.Get(ctx, path, nil, creds, &raw)
	})
	if err != nil {
		return core.BankResult{}, err
	}
	return core.BankResult{Data: raw}, nil
}

// DownloadStatements triggers a statement download for an account.
func (s *OnlineBankingStore) DownloadStatements(ctx context.Context, accountID int64) (core.BankResult, error) {
	if accountID == 0 {
		return core.BankResult{}, core.ErrMissingID
	}

	var raw json.RawMessage
	err := s.call(ctx, "download statements", func(creds api.Credentials) error {
		return s.client.Get(ctx, api.Path(pathAccounts, accountID, "statements"), nil, creds, &raw)
	})
	if err != nil {
		return core.BankResult{}, err
	}
	return core.BankResult{Data: raw}, nil
}
