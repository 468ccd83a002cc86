package testutil

import (
	"context"
	"sync"

	"github.com/ivesbwas/bwas/internal/domain/authorization"
	ierr "github.com/ivesbwas/bwas/internal/errors"
)

// InMemoryAuthorizationStore implements authorization.Repository
type InMemoryAuthorizationStore struct {
	*InMemoryStore[*authorization.AuthorizationDocument]
	pageSize int

	mu        sync.Mutex
	listCalls int
	saveCalls int
	saveErr   error
}

var _ authorization.Repository = (*InMemoryAuthorizationStore)(nil)

// NewInMemoryAuthorizationStore creates a new in-memory authorization store
func NewInMemoryAuthorizationStore(pageSize int) *InMemoryAuthorizationStore {
	return &InMemoryAuthorizationStore{
		InMemoryStore: NewInMemoryStore[*authorization.AuthorizationDocument](),
		pageSize:      pageSize,
	}
}

func tinFilterFn(ctx context.Context, d *authorization.AuthorizationDocument, filter interface{}) bool {
	tin, ok := filter.(string)
	return ok && d != nil && d.Tin == tin
}

// newest first, transaction id breaks ties like the sql store
func createdDescSortFn(i, j *authorization.AuthorizationDocument) bool {
	if i.CreatedDate.Equal(j.CreatedDate) {
		return i.TransactionID > j.TransactionID
	}
	return i.CreatedDate.After(j.CreatedDate)
}

func (s *InMemoryAuthorizationStore) ListByTin(ctx context.Context, tin string, page int) ([]*authorization.AuthorizationDocument, error) {
	s.mu.Lock()
	s.listCalls++
	s.mu.Unlock()

	if page < 0 {
		return nil, ierr.NewError("page must not be negative").
			WithHint("Page must be zero or greater").
			Mark(ierr.ErrValidation)
	}

	items := s.InMemoryStore.List(ctx, tin, tinFilterFn, createdDescSortFn, page*s.pageSize, s.pageSize)
	out := make([]*authorization.AuthorizationDocument, 0, len(items))
	for _, d := range items {
		out = append(out, d.Copy())
	}
	return out, nil
}

func (s *InMemoryAuthorizationStore) Get(ctx context.Context, transactionID string) (*authorization.AuthorizationDocument, error) {
	d, ok := s.InMemoryStore.Get(ctx, transactionID)
	if !ok {
		return nil, nil
	}
	return d.Copy(), nil
}

func (s *InMemoryAuthorizationStore) Save(ctx context.Context, doc *authorization.AuthorizationDocument) (*authorization.AuthorizationDocument, error) {
	s.mu.Lock()
	s.saveCalls++
	saveErr := s.saveErr
	s.mu.Unlock()

	if saveErr != nil {
		return nil, saveErr
	}

	saved := s.InMemoryStore.Upsert(ctx, doc.TransactionID, func(existing *authorization.AuthorizationDocument, found bool) *authorization.AuthorizationDocument {
		next := doc.Copy()
		if found {
			next.CreatedDate = existing.CreatedDate
		}
		return next
	})
	return saved.Copy(), nil
}

func (s *InMemoryAuthorizationStore) Delete(ctx context.Context, transactionID string) error {
	s.InMemoryStore.Delete(ctx, transactionID)
	return nil
}

// Seed stores documents as they are, bypassing call recording
func (s *InMemoryAuthorizationStore) Seed(docs ...*authorization.AuthorizationDocument) {
	for _, d := range docs {
		s.InMemoryStore.Put(context.Background(), d.TransactionID, d.Copy())
	}
}

// FailSaves makes every following Save return err, nil restores saving
func (s *InMemoryAuthorizationStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// ListCalls returns how many times ListByTin was called
func (s *InMemoryAuthorizationStore) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// SaveCalls returns how many times Save was called
func (s *InMemoryAuthorizationStore) SaveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
}

// Clear removes all documents and resets the counters
func (s *InMemoryAuthorizationStore) Clear() {
	s.InMemoryStore.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls = 0
	s.saveCalls = 0
	s.saveErr = nil
}
