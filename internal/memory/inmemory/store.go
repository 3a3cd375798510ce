package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finnychat/internal/memory"
)

type record struct {
	interactions []memory.Interaction
	operations   []memory.OperationRecord
}

// Store is an in-memory memory.Store, safe for concurrent use.
// History is lost on restart.
type Store struct {
	mu      sync.RWMutex
	records map[int64]*record
	// limit caps each user's lists; 0 keeps everything.
	limit int
	now   func() time.Time
}

type Option func(*Store)

// WithLimit keeps only the newest n entries per list.
func WithLimit(n int) Option {
	return func(s *Store) { s.limit = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		records: make(map[int64]*record),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// get returns the user's record, creating it on first use. Callers hold s.mu.
func (s *Store) get(userID int64) *record {
	r, ok := s.records[userID]
	if !ok {
		r = &record{}
		s.records[userID] = r
	}

	return r
}

func trim[T any](list []T, limit int) []T {
	if limit > 0 && len(list) > limit {
		return append(list[:0:0], list[len(list)-limit:]...)
	}

	return list
}

func tail[T any](list []T, n int) []T {
	if n <= 0 || n > len(list) {
		n = len(list)
	}

	out := make([]T, n)
	copy(out, list[len(list)-n:])

	return out
}

func (s *Store) AddInteraction(_ context.Context, userID int64, in memory.Interaction) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}

	if in.Timestamp.IsZero() {
		in.Timestamp = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.get(userID)
	r.interactions = trim(append(r.interactions, in), s.limit)

	return nil
}

func (s *Store) AddOperation(_ context.Context, userID int64, op memory.OperationRecord) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}

	if op.Timestamp.IsZero() {
		op.Timestamp = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.get(userID)
	r.operations = trim(append(r.operations, op), s.limit)

	return nil
}

func (s *Store) Recent(_ context.Context, userID int64, n int) ([]memory.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[userID]
	if !ok {
		return []memory.Interaction{}, nil
	}

	return tail(r.interactions, n), nil
}

func (s *Store) RecentOperations(_ context.Context, userID int64, n int) ([]memory.OperationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[userID]
	if !ok {
		return []memory.OperationRecord{}, nil
	}

	return tail(r.operations, n), nil
}

func (s *Store) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, userID)

	return nil
}
