package stores

import (
	"context"

	"kontor/internal/cache"
	"kontor/internal/core"
	"kontor/internal/log"
)

// MasterDataStore caches currencies, timespans, categories, tags and
// account types.
type MasterDataStore struct {
	base
	currencies   cache.Collection[core.Currency]
	timespans    cache.Collection[core.Timespan]
	categories   cache.Collection[core.Category]
	tags         cache.Collection[core.Tag]
	accountTypes cache.Collection[core.AccountType]
}

func NewMasterDataStore(d Deps) *MasterDataStore {
	return &MasterDataStore{base: newBase(d, log.ComponentMasterData)}
}

func (s *MasterDataStore) GetCurrencies(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.currencies, force, "list currencies", "/api/currencies", "currencies")
}

func (s *MasterDataStore) GetTimespans(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.timespans, force, "list timespans", "/api/timespans", "timespans")
}

func (s *MasterDataStore) GetCategories(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.categories, force, "list categories", "/api/category", "categories")
}

func (s *MasterDataStore) GetTags(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.tags, force, "list tags", "/api/tags", "tags")
}

func (s *MasterDataStore) GetAccountTypes(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.accountTypes, force, "list account types", "/api/accounttypes", "accountTypes")
}

func (s *MasterDataStore) Currencies() []core.Currency { return s.currencies.Items() }
func (s *MasterDataStore) Timespans() []core.Timespan { return s.timespans.Items() }
func (s *MasterDataStore) Categories() []core.Category { return s.categories.Items() }
func (s *MasterDataStore) Tags() []core.Tag { return s.tags.Items() }
func (s *MasterDataStore) AccountTypes() []core.AccountType { return s.accountTypes.Items() }

func (s *MasterDataStore) Currency(id int64) core.Lookup[core.Currency] {
	return s.currencies.Find(func(c core.Currency) bool { return c.ID == id })
}

func (s *MasterDataStore) Category(id int64) core.Lookup[core.Category] {
	return s.categories.Find(func(c core.Category) bool { return c.ID == id })
}

func (s *MasterDataStore) Tag(id int64) core.Lookup[core.Tag] {
	return s.tags.Find(func(t core.Tag) bool { return t.ID == id })
}

func (s *MasterDataStore) AccountType(id int64) core.Lookup[core.AccountType] {
	return s.accountTypes.Find(func(a core.AccountType) bool { return a.ID == id })
}

// TagNames resolves tag ids to names, skipping unknown ids.
func (s *MasterDataStore) TagNames(ids []int64) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if tag, ok := s.Tag(id).Get(); ok {
			names = append(names, tag.Name)
		}
	}
	return names
}
