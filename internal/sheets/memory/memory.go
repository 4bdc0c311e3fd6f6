// Package memory is an in-process LedgerWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"nossosgastos/internal/core"
	ports "nossosgastos/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var (
	_ ports.LedgerWriter  = (*Store)(nil)
	_ ports.LedgerDeleter = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Delete removes the stored transaction with the given id. Missing ids are
// tolerated, matching the spreadsheet adapter.
func (s *Store) Delete(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.items {
		if t.ID == transactionID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// DeleteGroup removes every stored row of an installment group.
func (s *Store) DeleteGroup(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, t := range s.items {
		if t.InstallmentGroupID != groupID {
			kept = append(kept, t)
		}
	}
	s.items = kept
	return nil
}

// Items returns a copy of everything stored.
func (s *Store) Items() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...)
}
