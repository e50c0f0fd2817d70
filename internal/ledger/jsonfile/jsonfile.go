// Package jsonfile stores the ledger as a single JSON array on disk.
//
// The whole file is rewritten on every mutation, which keeps the format
// trivially inspectable and matches the scale of a single-property
// ledger. A file that fails to parse is treated as an empty ledger so a
// corrupted store never blocks the application from starting.
package jsonfile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"affitti/internal/core"
)

var ErrNotFound = errors.New("transaction not found")

const dateLayout = "2006-01-02"

type record struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	GuestName   string  `json:"guestName,omitempty"`
	IsPaid      bool    `json:"isPaid"`
}

type Store struct {
	mu   sync.Mutex
	path string
}

// New opens a JSON file store at path, creating parent directories as
// needed. The file itself is created on first write.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonfile: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	tx.ID = newID()
	records = append(records, toRecord(tx))
	if err := s.save(records); err != nil {
		return "", err
	}
	return tx.ID, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	kept := records[:0]
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return ErrNotFound
	}
	return s.save(kept)
}

func (s *Store) ListAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	txs := make([]core.Transaction, 0, len(records))
	for _, r := range records {
		tx, err := fromRecord(r)
		if err != nil {
			// Skip rows that no longer parse instead of failing the list.
			continue
		}
		txs = append(txs, tx)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date.Time)
	})
	return txs, nil
}

// load reads the file, returning an empty slice when the file is
// missing or malformed.
func (s *Store) load() []record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil
	}
	return records
}

func (s *Store) save(records []record) error {
	if records == nil {
		records = []record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: write: %w", err)
	}
	return nil
}

func toRecord(tx core.Transaction) record {
	return record{
		ID:          tx.ID,
		Date:        tx.Date.Format(dateLayout),
		Type:        string(tx.Type),
		Category:    string(tx.Category),
		Amount:      tx.Amount.Euros(),
		Description: tx.Description,
		GuestName:   tx.GuestName,
		IsPaid:      tx.IsPaid,
	}
}

func fromRecord(r record) (core.Transaction, error) {
	d, err := parseDate(r.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          r.ID,
		Date:        d,
		Type:        core.TransactionType(r.Type),
		Category:    core.Category(r.Category),
		Amount:      core.Money{Cents: int64(math.Round(r.Amount * 100))},
		Description: r.Description,
		GuestName:   r.GuestName,
		IsPaid:      r.IsPaid,
	}, nil
}

func parseDate(s string) (core.Date, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return core.Date{}, fmt.Errorf("jsonfile: bad date %q: %w", s, err)
	}
	return core.NewDate(y, m, d), nil
}

func newID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "tx_00000000"
	}
	return "tx_" + hex.EncodeToString(b)
}
