package stores

import (
	"context"
	"net/http"
	"testing"

	"kontor/internal/core"
)

func TestMasterData(t *testing.T) {
	env := newTestEnv(t)
	env.backend.json("GET /api/currencies", http.StatusOK, []map[string]any{{"id": 1, "name": "Euro", "short": "EUR"}})
	env.backend.json("GET /api/category", http.StatusOK, map[string]any{"categories": []map[string]any{{"id": 3, "name": "Rent"}}})
	env.backend.json("GET /api/tags", http.StatusOK, []map[string]any{{"id": 1, "name": "home"}, {"id": 2, "name": "fixed"}})
	env.backend.json("GET /api/timespans", http.StatusOK, nil)
	s := NewMasterDataStore(env.deps)
	ctx := context.Background()

	for _, load := range []func(context.Context, bool) error{s.GetCurrencies, s.GetCategories, s.GetTags, s.GetTimespans} {
		if err := load(ctx, false); err != nil {
			t.Fatal(err)
		}
	}

	if c, _ := s.Currency(1).Get(); c.Short != "EUR" {
		t.Errorf("Currency(1) = %+v", c)
	}
	if c, _ := s.Category(3).Get(); c.Name != "Rent" {
		t.Errorf("Category(3) = %+v", c)
	}
	if got := s.TagNames([]int64{2, 9, 1}); len(got) != 2 || got[0] != "fixed" || got[1] != "home" {
		t.Errorf("TagNames() = %v", got)
	}
	if ts := s.Timespans(); ts == nil || len(ts) != 0 {
		t.Errorf("Timespans() = %#v, want empty", ts)
	}
}

func TestPresets(t *testing.T) {
	env := newTestEnv(t)
	env.backend.json("GET /api/newtransactionpresets", http.StatusOK, []map[string]any{{"id": 1, "value": "Giro", "description": "account"}})
	env.backend.json("POST /api/newtransactionpresets", http.StatusOK, nil)
	s := NewPreferencesStore(env.deps)
	ctx := context.Background()

	if err := s.GetNewTransactionPresets(ctx, false); err != nil {
		t.Fatal(err)
	}
	if p, ok := s.NewTransactionPreset(1).Get(); !ok || p.Value != "Giro" {
		t.Errorf("NewTransactionPreset(1) = %+v, %v", p, ok)
	}

	next := []core.NewTransactionPreset{{ID: 2, Value: "Cash"}}
	if err := s.SetNewTransactionPresets(ctx, next); err != nil {
		t.Fatal(err)
	}
	if got := s.NewTransactionPresets(); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("presets = %+v", got)
	}
	if ev := env.publisher.Events(); len(ev) != 1 || ev[0].Entity != EntityPresets {
		t.Errorf("events = %+v", ev)
	}
}
