package memory

import (
	"context"
	"fmt"
	"sync"

	"kontor/internal/core"
	ports "kontor/internal/sheets"
)

var _ ports.TransactionExporter = (*Store)(nil)

// Store keeps exported rows in memory.
type Store struct {
	mu   sync.Mutex
	tags ports.TagResolver
	rows [][]any
}

func New(tags ports.TagResolver) *Store {
	return &Store{tags: tags}
}

// Export appends the rows and returns a synthetic range reference.
func (s *Store) Export(_ context.Context, txs []core.Transaction) (string, error) {
	if len(txs) == 0 {
		return "", nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	first := len(s.rows) + 1
	s.rows = append(s.rows, ports.Rows(txs, s.tags)...)
	return fmt.Sprintf("mem:%d-%d", first, len(s.rows)), nil
}

// Rows returns a copy of everything exported so far.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]any(nil), s.rows...)
}
