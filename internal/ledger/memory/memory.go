// Package memory provides an in-memory ledger store for tests and
// local development.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"affitti/internal/core"
)

var ErrNotFound = errors.New("transaction not found")

type Store struct {
	mu   sync.Mutex
	txs  []core.Transaction
	next int
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	tx.ID = fmt.Sprintf("mem:%d", s.next)
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.txs {
		if tx.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) ListAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}
