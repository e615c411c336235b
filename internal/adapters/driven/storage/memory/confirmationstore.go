package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// Ensure ConfirmationStore implements the interface.
var _ driven.ConfirmationStore = (*ConfirmationStore)(nil)

// ConfirmationStore is an in-memory implementation of driven.ConfirmationStore.
// A single mutex makes CompareAndSwap atomic.
type ConfirmationStore struct {
	mu      sync.Mutex
	records map[string]domain.Confirmation
}

// NewConfirmationStore creates a new in-memory confirmation store.
func NewConfirmationStore() *ConfirmationStore {
	return &ConfirmationStore{
		records: make(map[string]domain.Confirmation),
	}
}

// Create inserts a new record.
func (s *ConfirmationStore) Create(_ context.Context, c *domain.Confirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[c.Token]; exists {
		return domain.ErrAlreadyExists
	}
	s.records[c.Token] = *c
	return nil
}

// Get returns a copy of the record.
func (s *ConfirmationStore) Get(_ context.Context, token string) (*domain.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.records[token]
	if !ok {
		return nil, domain.ErrConfirmationNotFound
	}
	return &c, nil
}

// CompareAndSwap replaces the record if its state is still from.
func (s *ConfirmationStore) CompareAndSwap(
	_ context.Context, from domain.ConfirmationState, next *domain.Confirmation,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[next.Token]
	if !ok {
		return false, domain.ErrConfirmationNotFound
	}
	if cur.State != from {
		return false, nil
	}
	s.records[next.Token] = *next
	return true, nil
}

// ListPending returns open records, oldest first.
func (s *ConfirmationStore) ListPending(_ context.Context) ([]domain.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Confirmation
	for _, c := range s.records {
		if !c.State.IsTerminal() && c.State != domain.ConfirmationApplying {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
