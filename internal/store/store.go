package store

import (
	"context"
	"errors"

	"github.com/ajitpratap0/contactmaster/internal/models"
)

// ErrNotFound is returned when the requested contact does not exist.
var ErrNotFound = errors.New("contact not found")

// Store defines the interface for durable contact persistence. The whole
// collection is read and written at once.
type Store interface {
	// Ensure creates the backing document holding an empty collection if it
	// does not exist yet.
	Ensure(ctx context.Context) error

	// Load returns the persisted collection. A corrupt document is
	// quarantined and reset rather than reported as an error.
	Load(ctx context.Context) (*LoadResult, error)

	// Save atomically replaces the persisted collection with contacts.
	Save(ctx context.Context, contacts []models.Contact) error

	// Path identifies the backing document.
	Path() string
}

// LoadResult is the outcome of Store.Load.
type LoadResult struct {
	Contacts []models.Contact

	// Recovered is true when the document was unreadable and has been reset.
	Recovered bool

	// QuarantinePath holds the preserved copy of the rejected document.
	QuarantinePath string

	// Dropped counts array entries that were not contact objects.
	Dropped int

	// Reassigned counts contacts that had a missing or duplicate id. The
	// repaired collection has already been saved when this is non-zero.
	Reassigned int

	// ClearedTimestamps counts created_at/updated_at values that could not be
	// parsed and were left empty. The contact itself is kept.
	ClearedTimestamps int
}

// Compile-time interface checks.
var (
	_ Store = (*JSONStore)(nil)
	_ Store = (*MockStore)(nil)
)
