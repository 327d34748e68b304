package stores

import (
	"context"

	"kontor/internal/api"
	"kontor/internal/cache"
	"kontor/internal/core"
	"kontor/internal/log"
)

const pathPresets = "/api/newtransactionpresets"

// PreferencesStore caches the presets used to prefill new transactions.
type PreferencesStore struct {
	base
	presets cache.Collection[core.NewTransactionPreset]
}

func NewPreferencesStore(d Deps) *PreferencesStore {
	return &PreferencesStore{base: newBase(d, log.ComponentPreferences)}
}

func (s *PreferencesStore) GetNewTransactionPresets(ctx context.Context, force bool) error {
	return loadList(ctx, &s.base, &s.presets, force, "list presets", pathPresets, "presets")
}

func (s *PreferencesStore) NewTransactionPresets() []core.NewTransactionPreset {
	return s.presets.Items()
}

func (s *PreferencesStore) NewTransactionPreset(id int64) core.Lookup[core.NewTransactionPreset] {
	return s.presets.Find(func(p core.NewTransactionPreset) bool { return p.ID == id })
}

// SetNewTransactionPresets stores presets on the backend and replaces the cache.
func (s *PreferencesStore) SetNewTransactionPresets(ctx context.Context, presets []core.NewTransactionPreset) error {
	if presets == nil {
		presets = []core.NewTransactionPreset{}
	}
	err := s.call(ctx, "save presets", func(creds api.Credentials) error {
		return s.client.Post(ctx, pathPresets, creds, presets, nil)
	})
	if err != nil {
		return err
	}
	s.presets.Replace(presets)
	s.publish(ctx, EntityPresets, ActionUpdated, 0)
	return nil
}
