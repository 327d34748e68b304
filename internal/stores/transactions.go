package stores

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"sync"

	"kontor/internal/api"
	"kontor/internal/cache"
	"kontor/internal/core"
	"kontor/internal/log"
	"kontor/internal/numparse"
)

const (
	pathTransaction = "/api/transaction"
	pathRules       = "/api/rules"

	// DefaultMaxTransactions caps how many records a list fetch keeps.
	DefaultMaxTransactions = 1500
	// DefaultLocale formats amount bounds when no parser is configured.
	DefaultLocale = "de-DE"
)

// MatchResult is a search answer that is not kept in the store.
type MatchResult struct {
	Incomplete   bool               `json:"incomplete" yaml:"incomplete"`
	Transactions []core.Transaction `json:"transactions" yaml:"transactions"`
}

func (r MatchResult) clone() MatchResult {
	out := make([]core.Transaction, len(r.Transactions))
	copy(out, r.Transactions)
	return MatchResult{Incomplete: r.Incomplete, Transactions: out}
}

// TransactionOptions tunes a TransactionStore.
type TransactionOptions struct {
	// MaxTransactions truncates list fetches; zero means DefaultMaxTransactions.
	MaxTransactions int
	// Parser reads locale-formatted amount bounds; nil means DefaultLocale.
	Parser *numparse.Parser
	// MatchCache keeps search answers; nil disables caching.
	MatchCache cache.Cache[MatchResult]
}

// TransactionStore holds the transaction list, the current transaction and
// the rule sets.
type TransactionStore struct {
	base
	parser   *numparse.Parser
	maxItems int
	matches  cache.Cache[MatchResult]

	mu           sync.RWMutex
	transactions []core.Transaction
	incomplete   bool
	state        FetchState
	currentID    int64
	current      core.Lookup[core.Transaction]
	ruleSets     []core.RuleSet
	ruleState    FetchState

	listFlight  cache.Flight
	matchFlight cache.Flight
	ruleFlight  cache.Flight
}

func NewTransactionStore(d Deps, opts TransactionOptions) *TransactionStore {
	if opts.MaxTransactions <= 0 {
		opts.MaxTransactions = DefaultMaxTransactions
	}
	if opts.Parser == nil {
		opts.Parser = numparse.MustNew(DefaultLocale)
	}
	return &TransactionStore{
		base:     newBase(d, log.ComponentTransactions),
		parser:   opts.Parser,
		maxItems: opts.MaxTransactions,
		matches:  opts.MatchCache,
	}
}

// Transactions returns a copy of the stored list.
func (s *TransactionStore) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Incomplete reports whether the last list fetch was truncated.
func (s *TransactionStore) Incomplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incomplete
}

// State reports the fetch state of the transaction list.
func (s *TransactionStore) State() FetchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Transaction looks a stored transaction up by id.
func (s *TransactionStore) Transaction(id int64) core.Lookup[core.Transaction] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Find(s.transactions, func(t core.Transaction) bool { return t.ID == id })
}

// SetCurrentTransactionID selects the transaction shown in detail views.
// The current transaction is taken from the list when it is there.
func (s *TransactionStore) SetCurrentTransactionID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentID = id
	s.current = core.Find(s.transactions, func(t core.Transaction) bool { return t.ID == id })
}

func (s *TransactionStore) CurrentTransactionID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

func (s *TransactionStore) CurrentTransaction() core.Lookup[core.Transaction] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// GetTransactions replaces the stored list with the backend's answer to p.
// When fetches overlap, only the one started last writes the list.
func (s *TransactionStore) GetTransactions(ctx context.Context, p core.FilterParams) error {
	creds, err := s.credentials()
	if err != nil {
		s.listFlight.Invalidate()
		s.mu.Lock()
		s.transactions, s.incomplete, s.state = nil, false, StateError
		s.mu.Unlock()
		return err
	}

	q := s.query(p)
	gen := s.listFlight.Begin()
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	v, err, shared := s.listFlight.Do(ctx, "list:"+q.Encode(), func(ctx context.Context) (any, error) {
		return s.fetch(ctx, creds, q)
	})
	if err != nil {
		err = s.failed(ctx, "list transactions", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.listFlight.Current(gen) {
		return err
	}
	if err != nil {
		s.transactions, s.incomplete, s.state = nil, false, StateError
		return err
	}

	res := v.(MatchResult)
	s.transactions = res.clone().Transactions
	s.incomplete = res.Incomplete
	s.state = loadedState(len(s.transactions))
	if s.currentID != 0 {
		s.current = core.Find(s.transactions, func(t core.Transaction) bool { return t.ID == s.currentID })
	}

	s.logger.DebugContext(ctx, "Transactions loaded",
		log.FieldCount, len(s.transactions),
		log.FieldIncomplete, res.Incomplete,
		"shared", shared)
	return nil
}

// GetMatchingTransactions runs a search without touching the stored list.
func (s *TransactionStore) GetMatchingTransactions(ctx context.Context, p core.FilterParams) (MatchResult, error) {
	empty := MatchResult{Transactions: []core.Transaction{}}

	creds, err := s.credentials()
	if err != nil {
		return empty, err
	}

	q := s.query(p)
	key := s.session.Email() + "|" + q.Encode()
	if s.matches != nil {
		if r, ok := s.matches.Get(key); ok {
			return r.clone(), nil
		}
	}

	v, err, _ := s.matchFlight.Do(ctx, "match:"+key, func(ctx context.Context) (any, error) {
		return s.fetch(ctx, creds, q)
	})
	if err != nil {
		return empty, s.failed(ctx, "search transactions", err)
	}

	res := v.(MatchResult)
	if s.matches != nil {
		s.matches.Set(key, res)
	}
	return res.clone(), nil
}

func (s *TransactionStore) fetch(ctx context.Context, creds api.Credentials, q url.Values) (MatchResult, error) {
	list := api.List[api.Transaction]{Key: "transactions"}
	if err := s.client.Get(ctx, pathTransaction, q, creds, &list); err != nil {
		return MatchResult{}, err
	}

	raw := list.Items
	incomplete := false
	if len(raw) > s.maxItems {
		raw = raw[:s.maxItems]
		incomplete = true
	}
	return MatchResult{Incomplete: incomplete, Transactions: buildTransactions(raw)}, nil
}

// query renders the allow-listed parameters. Amount bounds go through the
// locale number parser; bounds that do not parse are left out.
func (s *TransactionStore) query(p core.FilterParams) url.Values {
	q := url.Values{}
	if p.MaxItems > 0 {
		q.Set(core.ParamMaxItems, strconv.Itoa(p.MaxItems))
	}
	setString(q, core.ParamSearchTerm, p.SearchTerm)
	if len(p.AccountsWhereIn) > 0 {
		q.Set(core.ParamAccountsWhereIn, core.JoinIDs(p.AccountsWhereIn))
	}
	setString(q, core.ParamDateFilterFrom, p.DateFilterFrom.String())
	setString(q, core.ParamDateFilterTo, p.DateFilterTo.String())
	setString(q, core.ParamTextToken, p.TextToken)
	setString(q, core.ParamMRefToken, p.MRefToken)
	s.setAmount(q, core.ParamAmountMin, p.AmountMin)
	s.setAmount(q, core.ParamAmountMax, p.AmountMax)
	return q
}

func (s *TransactionStore) setAmount(q url.Values, key string, n core.LocaleNumber) {
	if !n.IsSet() {
		return
	}
	f := s.parser.Parse(n.Raw())
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	q.Set(key, strconv.FormatFloat(f, 'f', -1, 64))
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

// GetTransaction fetches one transaction and makes it current.
func (s *TransactionStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	if id == 0 {
		return core.Transaction{}, core.ErrMissingID
	}

	var raw api.Transaction
	err := s.call(ctx, "get transaction", func(creds api.Credentials) error {
		return s.client.Get(ctx, api.Path(pathTransaction, id), nil, creds, &raw)
	})
	if err != nil {
		return core.Transaction{}, err
	}

	t := BuildTransactionFromResponse(raw)
	if t.ID == 0 {
		t.ID = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentID = id
	s.current = core.Found(t)
	s.replaceLocked(t)
	return t, nil
}

// AddTransaction creates a transaction and puts it at the front of the list.
func (s *TransactionStore) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	var raw api.Transaction
	err := s.call(ctx, "create transaction", func(creds api.Credentials) error {
		return s.client.Put(ctx, pathTransaction, creds, api.NewTransactionBody(in), &raw)
	})
	if err != nil {
		return core.Transaction{}, err
	}

	t := transactionFromInput(in)
	if raw.ID != 0 {
		t = BuildTransactionFromResponse(raw)
	}

	s.mu.Lock()
	s.transactions = append([]core.Transaction{t}, s.transactions...)
	s.state = StatePopulated
	s.mu.Unlock()

	s.purgeMatches()
	s.publish(ctx, EntityTransaction, ActionCreated, t.ID)
	return t, nil
}

// UpdateTransaction sends a partial update and merges it into the stored record.
func (s *TransactionStore) UpdateTransaction(ctx context.Context, id int64, u core.TransactionUpdate) (core.Transaction, error) {
	if id == 0 {
		return core.Transaction{}, core.ErrMissingID
	}
	if u.IsEmpty() {
		return core.Transaction{}, core.ErrNothingToUpdate
	}

	var raw api.Transaction
	err := s.call(ctx, "update transaction", func(creds api.Credentials) error {
		return s.client.Post(ctx, api.Path(pathTransaction, id), creds, api.UpdateTransactionBody(u), &raw)
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	var t core.Transaction
	if raw.ID != 0 {
		t = BuildTransactionFromResponse(raw)
	} else {
		existing, ok := core.Find(s.transactions, func(t core.Transaction) bool { return t.ID == id }).Get()
		if !ok {
			existing = core.Transaction{ID: id, TagIDs: []int64{}}
		}
		t = existing.Apply(u)
	}
	s.replaceLocked(t)
	if s.currentID == id {
		s.current = core.Found(t)
	}
	s.mu.Unlock()

	s.purgeMatches()
	s.publish(ctx, EntityTransaction, ActionUpdated, id)
	return t, nil
}

// DeleteTransaction deletes a transaction and drops it from the list.
func (s *TransactionStore) DeleteTransaction(ctx context.Context, id int64) error {
	if id == 0 {
		return core.ErrMissingID
	}

	err := s.call(ctx, "delete transaction", func(creds api.Credentials) error {
		return s.client.Delete(ctx, api.Path(pathTransaction, id), creds)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i:i], s.transactions[i+1:]...)
			break
		}
	}
	s.state = loadedState(len(s.transactions))
	if s.currentID == id {
		s.currentID = 0
		s.current = core.NotFound[core.Transaction]()
	}
	s.mu.Unlock()

	s.purgeMatches()
	s.publish(ctx, EntityTransaction, ActionDeleted, id)
	return nil
}

// replaceLocked swaps a stored record for t if present. Caller holds s.mu.
func (s *TransactionStore) replaceLocked(t core.Transaction) {
	for i := range s.transactions {
		if s.transactions[i].ID == t.ID {
			s.transactions[i] = t
			return
		}
	}
}

func (s *TransactionStore) purgeMatches() {
	if s.matches != nil {
		s.matches.Purge()
	}
}

// failed also drops cached search answers when the session is rejected.
func (s *TransactionStore) failed(ctx context.Context, op string, err error) error {
	if api.IsUnauthorized(err) {
		s.purgeMatches()
	}
	return s.base.failed(ctx, op, err)
}

func (s *TransactionStore) call(ctx context.Context, op string, fn func(api.Credentials) error) error {
	creds, err := s.credentials()
	if err != nil {
		return err
	}
	if err := fn(creds); err != nil {
		return s.failed(ctx, op, err)
	}
	return nil
}
