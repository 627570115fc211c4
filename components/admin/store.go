package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when a record id is not present in its collection.
	ErrNotFound = errors.New("admin: record not found")
	// ErrDuplicateID is returned when an id collides with an existing record.
	ErrDuplicateID = errors.New("admin: duplicate record id")
)

func notFound(entity Entity, id string) error {
	return fmt.Errorf("admin: %s %q: %w", entity, id, ErrNotFound)
}

// StoreConfig wires the entity specific hooks into a Store.
type StoreConfig[T Record] struct {
	Entity Entity
	IDs    IDGenerator
	Clock  func() time.Time
	// AssignID writes the generated id into a draft.
	AssignID func(rec *T, id string)
	// Stamp refreshes timestamps. created is true for new records.
	Stamp func(rec *T, now time.Time, created bool)
}

// Store holds the ordered collection of one entity type. Every mutation swaps
// in a fresh backing slice so snapshots handed to readers never change.
type Store[T Record] struct {
	mu      sync.RWMutex
	cfg     StoreConfig[T]
	records []T
	version uint64
}

// NewStore builds a store seeded with the provided records.
func NewStore[T Record](cfg StoreConfig[T], seed ...T) (*Store[T], error) {
	if cfg.IDs == nil {
		cfg.IDs = UUIDGenerator{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.AssignID == nil {
		return nil, fmt.Errorf("admin: %s store requires an id assigner", cfg.Entity)
	}
	s := &Store[T]{cfg: cfg}
	if err := s.Reset(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Entity reports the entity type held by the store.
func (s *Store[T]) Entity() Entity {
	return s.cfg.Entity
}

// Create assigns an id and timestamps to the draft and appends it.
func (s *Store[T]) Create(_ context.Context, draft T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.cfg.IDs.NewID()
	if s.indexOf(id) >= 0 {
		var zero T
		return zero, fmt.Errorf("admin: %s %q: %w", s.cfg.Entity, id, ErrDuplicateID)
	}
	s.cfg.AssignID(&draft, id)
	s.stamp(&draft, true)
	next := make([]T, len(s.records), len(s.records)+1)
	copy(next, s.records)
	s.commit(append(next, draft))
	return draft, nil
}

// Update applies patch to the record with the given id, keeping its position.
// The patch must replace slices rather than mutate them in place.
func (s *Store[T]) Update(_ context.Context, id string, patch func(rec *T)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, notFound(s.cfg.Entity, id)
	}
	rec := s.records[idx]
	if patch != nil {
		patch(&rec)
	}
	s.cfg.AssignID(&rec, id)
	s.stamp(&rec, false)
	next := s.clone()
	next[idx] = rec
	s.commit(next)
	return rec, nil
}

// UpdateWhere patches every record accepted by match and returns the ids touched.
func (s *Store[T]) UpdateWhere(_ context.Context, match func(T) bool, patch func(rec *T)) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		next    []T
		updated []string
	)
	for idx, rec := range s.records {
		if !match(rec) {
			continue
		}
		if next == nil {
			next = s.clone()
		}
		patch(&rec)
		s.stamp(&rec, false)
		next[idx] = rec
		updated = append(updated, rec.RecordID())
	}
	if next != nil {
		s.commit(next)
	}
	return updated
}

// Delete removes the record with the given id.
func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return notFound(s.cfg.Entity, id)
	}
	next := make([]T, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)
	s.commit(next)
	return nil
}

// Reset replaces the whole collection, typically with seed data.
func (s *Store[T]) Reset(records []T) error {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		id := rec.RecordID()
		if id == "" {
			return fmt.Errorf("admin: %s seed record is missing an id", s.cfg.Entity)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("admin: %s %q: %w", s.cfg.Entity, id, ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}
	next := make([]T, len(records))
	copy(next, records)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(next)
	return nil
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.records[idx], true
	}
	var zero T
	return zero, false
}

// List returns the collection in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone()
}

// Snapshot returns the collection together with the version it belongs to.
func (s *Store[T]) Snapshot() ([]T, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(), s.version
}

// Len reports the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Version increases on every mutation.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store[T]) indexOf(id string) int {
	for idx, rec := range s.records {
		if rec.RecordID() == id {
			return idx
		}
	}
	return -1
}

func (s *Store[T]) clone() []T {
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store[T]) commit(next []T) {
	s.records = next
	s.version++
}

func (s *Store[T]) stamp(rec *T, created bool) {
	if s.cfg.Stamp != nil {
		s.cfg.Stamp(rec, s.cfg.Clock(), created)
	}
}
