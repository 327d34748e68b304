package stores

import (
	"context"

	"kontor/internal/api"
	"kontor/internal/core"
)

// RuleSets returns the stored rule sets, sorted by name.
func (s *TransactionStore) RuleSets() []core.RuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RuleSet, len(s.ruleSets))
	copy(out, s.ruleSets)
	return out
}

// RuleSetState reports the fetch state of the rule set list.
func (s *TransactionStore) RuleSetState() FetchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ruleState
}

// RuleSetByID looks a stored rule set up by id.
func (s *TransactionStore) RuleSetByID(id int64) core.Lookup[core.RuleSet] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Find(s.ruleSets, func(rs core.RuleSet) bool { return rs.ID == id })
}

// GetRuleSets replaces the stored rule sets, sorted by name.
func (s *TransactionStore) GetRuleSets(ctx context.Context) error {
	creds, err := s.credentials()
	if err != nil {
		s.ruleFlight.Invalidate()
		s.mu.Lock()
		s.ruleSets, s.ruleState = nil, StateError
		s.mu.Unlock()
		return err
	}

	gen := s.ruleFlight.Begin()
	s.mu.Lock()
	s.ruleState = StateLoading
	s.mu.Unlock()

	v, err, _ := s.ruleFlight.Do(ctx, "rules", func(ctx context.Context) (any, error) {
		list := api.List[api.RuleSet]{Key: "rules"}
		if err := s.client.Get(ctx, pathRules, nil, creds, &list); err != nil {
			return nil, err
		}
		out := make([]core.RuleSet, len(list.Items))
		for i, rs := range list.Items {
			out[i] = rs.Canonical()
		}
		core.SortRuleSets(out)
		return out, nil
	})
	if err != nil {
		err = s.failed(ctx, "list rule sets", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ruleFlight.Current(gen) {
		return err
	}
	if err != nil {
		s.ruleSets, s.ruleState = nil, StateError
		return err
	}
	shared := v.([]core.RuleSet)
	s.ruleSets = make([]core.RuleSet, len(shared))
	copy(s.ruleSets, shared)
	s.ruleState = loadedState(len(s.ruleSets))
	return nil
}

// GetRuleSet fetches one rule set and refreshes its stored copy.
func (s *TransactionStore) GetRuleSet(ctx context.Context, id int64) (core.RuleSet, error) {
	if id == 0 {
		return core.RuleSet{}, core.ErrMissingID
	}

	var raw api.RuleSet
	err := s.call(ctx, "get rule set", func(creds api.Credentials) error {
		return s.client.Get(ctx, api.Path(pathRules, id), nil, creds, &raw)
	})
	if err != nil {
		return core.RuleSet{}, err
	}

	rs := raw.Canonical()
	if rs.ID == 0 {
		rs.ID = id
	}
	s.mu.Lock()
	s.patchRuleSetLocked(rs, false)
	s.mu.Unlock()
	return rs, nil
}

// SetRules creates a rule set for NewRule and updates one for ExistingRule.
// The stored list is patched and stays sorted by name.
func (s *TransactionStore) SetRules(ctx context.Context, target core.RuleTarget, in core.RuleSetInput) (core.RuleSet, error) {
	if err := in.Validate(); err != nil {
		return core.RuleSet{}, err
	}

	var (
		raw    api.RuleSet
		id     int64
		action string
		err    error
	)
	body := api.NewRuleSetBody(in)

	switch t := target.(type) {
	case core.NewRule:
		action = ActionCreated
		err = s.call(ctx, "create rule set", func(creds api.Credentials) error {
			return s.client.Put(ctx, pathRules, creds, body, &raw)
		})
	case core.ExistingRule:
		if t.ID == 0 {
			return core.RuleSet{}, core.ErrMissingID
		}
		id = t.ID
		action = ActionUpdated
		err = s.call(ctx, "update rule set", func(creds api.Credentials) error {
			return s.client.Post(ctx, api.Path(pathRules, t.ID), creds, body, &raw)
		})
	default:
		return core.RuleSet{}, core.ErrMissingID
	}
	if err != nil {
		return core.RuleSet{}, err
	}

	rs := raw.Canonical()
	if raw.ID == 0 {
		rs = core.RuleSet{ID: id, Name: in.Name, Conditions: in.Conditions, CategoryID: in.CategoryID}
	}

	s.mu.Lock()
	s.patchRuleSetLocked(rs, true)
	s.mu.Unlock()

	s.publish(ctx, EntityRuleSet, action, rs.ID)
	return rs, nil
}

// DeleteRules deletes a rule set and drops it from the stored list.
func (s *TransactionStore) DeleteRules(ctx context.Context, id int64) error {
	if id == 0 {
		return core.ErrMissingID
	}
	err := s.call(ctx, "delete rule set", func(creds api.Credentials) error {
		return s.client.Delete(ctx, api.Path(pathRules, id), creds)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for i, rs := range s.ruleSets {
		if rs.ID == id {
			s.ruleSets = append(s.ruleSets[:i:i], s.ruleSets[i+1:]...)
			break
		}
	}
	s.ruleState = loadedState(len(s.ruleSets))
	s.mu.Unlock()

	s.publish(ctx, EntityRuleSet, ActionDeleted, id)
	return nil
}

// patchRuleSetLocked replaces the stored rule set with rs, appending it when
// add is set and it is missing, then re-sorts. Caller holds s.mu.
func (s *TransactionStore) patchRuleSetLocked(rs core.RuleSet, add bool) {
	for i := range s.ruleSets {
		if s.ruleSets[i].ID == rs.ID && rs.ID != 0 {
			s.ruleSets[i] = rs
			core.SortRuleSets(s.ruleSets)
			return
		}
	}
	if !add {
		return
	}
	s.ruleSets = append(s.ruleSets, rs)
	core.SortRuleSets(s.ruleSets)
	s.ruleState = StatePopulated
}

// PreviewRuleSet returns the stored transactions rs would categorize.
func (s *TransactionStore) PreviewRuleSet(rs core.RuleSet) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := rs.Matcher()
	out := []core.Transaction{}
	for _, t := range s.transactions {
		if matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// MatchingRuleSet returns the first stored rule set, in name order, that
// would categorize t.
func (s *TransactionStore) MatchingRuleSet(t core.Transaction) core.Lookup[core.RuleSet] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.MatchRuleSets(s.ruleSets, t)
}
