package store

import (
	"context"
	"sync"

	"github.com/ajitpratap0/contactmaster/internal/models"
)

// MockStore is an in-memory implementation of Store for testing.
type MockStore struct {
	mu       sync.Mutex
	contacts []models.Contact

	// SaveErr, when set, is returned by every Save without persisting.
	SaveErr error

	// LoadErr, when set, is returned by every Load.
	LoadErr error

	saves int
}

// NewMockStore creates a mock store seeded with contacts.
func NewMockStore(contacts ...models.Contact) *MockStore {
	m := &MockStore{}
	m.contacts = cloneAll(contacts)
	return m
}

// Ensure is a no-op for the mock store.
func (m *MockStore) Ensure(_ context.Context) error {
	return nil
}

// Load returns a deep copy of the stored collection.
func (m *MockStore) Load(_ context.Context) (*LoadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return &LoadResult{Contacts: cloneAll(m.contacts)}, nil
}

// Save replaces the stored collection with a deep copy of contacts.
func (m *MockStore) Save(ctx context.Context, contacts []models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.contacts = cloneAll(contacts)
	m.saves++
	return nil
}

// Path returns a fixed pseudo path.
func (m *MockStore) Path() string {
	return "memory://contacts"
}

// Saves reports how many times Save succeeded.
func (m *MockStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Contacts returns a deep copy of what was last saved.
func (m *MockStore) Contacts() []models.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.contacts)
}

func cloneAll(in []models.Contact) []models.Contact {
	out := make([]models.Contact, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
