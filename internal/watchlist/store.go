package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Store persists watchlist entries as one indented JSON file. All methods
// are safe for concurrent use by the API handlers.
type Store struct {
	path string

	mu      sync.Mutex
	entries []Entry
}

// OpenStore loads the entries at path. A missing file is an empty list;
// the file appears on the first write.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", path, err)
	}
	return s, nil
}

// List returns the entries in stored order.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Rows returns the computed rows for every entry.
func (s *Store) Rows(today time.Time) []Row {
	entries := s.List()
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Compute(e, today)
	}
	return rows
}

// Get looks an entry up by symbol, case-insensitive.
func (s *Store) Get(symbol string) (Entry, bool) {
	symbol = strings.ToUpper(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Symbol == symbol {
			return e, true
		}
	}
	return Entry{}, false
}

// Upsert stores e keyed by its symbol, replacing any existing entry.
// Symbols are uppercased; an empty symbol is rejected.
func (s *Store) Upsert(e Entry) error {
	e.Symbol = strings.ToUpper(strings.TrimSpace(e.Symbol))
	if e.Symbol == "" {
		return fmt.Errorf("watchlist: symbol must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := false
	for i := range s.entries {
		if s.entries[i].Symbol == e.Symbol {
			s.entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		s.entries = append(s.entries, e)
	}
	return s.save()
}

// Delete removes the entry for symbol. Reports whether one existed.
func (s *Store) Delete(symbol string) (bool, error) {
	symbol = strings.ToUpper(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Symbol == symbol {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true, s.save()
		}
	}
	return false, nil
}

// save writes the entries out. Callers hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create watchlist dir: %w", err)
		}
	}
	return os.WriteFile(s.path, data, 0644)
}
