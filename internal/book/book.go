// Package book owns the working set of contacts for one session and routes
// every mutation through the backing Store. Nothing here is package-global:
// callers hold a *Book and pass it where it is needed.
package book

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ajitpratap0/contactmaster/internal/metrics"
	"github.com/ajitpratap0/contactmaster/internal/models"
	"github.com/ajitpratap0/contactmaster/internal/query"
	"github.com/ajitpratap0/contactmaster/internal/store"
)

// Book is the in-memory collection plus the store it was loaded from.
type Book struct {
	store    store.Store
	logger   *slog.Logger
	now      func() time.Time
	contacts []models.Contact
	loaded   store.LoadResult
}

// Option customizes a Book.
type Option func(*Book)

// WithClock overrides the time source used for new timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// Open loads the collection from st.
func Open(ctx context.Context, st store.Store, logger *slog.Logger, opts ...Option) (*Book, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Book{store: st, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}

	res, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening contact book: %w", err)
	}
	b.contacts = res.Contacts
	b.loaded = *res
	b.loaded.Contacts = nil
	return b, nil
}

// Recovered reports whether the store had to be reset while opening.
func (b *Book) Recovered() bool { return b.loaded.Recovered }

// QuarantinePath is where the rejected document was preserved, if any.
func (b *Book) QuarantinePath() string { return b.loaded.QuarantinePath }

// LoadNotes describes entries dropped or repaired while opening.
func (b *Book) LoadNotes() (dropped, reassigned int) {
	return b.loaded.Dropped, b.loaded.Reassigned
}

// Store returns the backing store.
func (b *Book) Store() store.Store { return b.store }

// Len returns the number of contacts.
func (b *Book) Len() int { return len(b.contacts) }

// All returns a copy of the collection in storage order.
func (b *Book) All() []models.Contact {
	out := make([]models.Contact, len(b.contacts))
	for i := range b.contacts {
		out[i] = b.contacts[i].Clone()
	}
	return out
}

// Sorted returns the collection in display order.
func (b *Book) Sorted() []models.Contact {
	return query.Sort(b.All())
}

// Search returns the contacts matching q in display order.
func (b *Book) Search(q string) []models.Contact {
	return query.Sort(query.Search(b.All(), q))
}

// Get returns the contact with the given id or an error matching store.ErrNotFound.
func (b *Book) Get(id string) (models.Contact, error) {
	i, ok := query.Find(b.contacts, id)
	if !ok {
		return models.Contact{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return b.contacts[i].Clone(), nil
}

// Add validates in and appends it as a new contact. Validation failures match
// models.ErrValidation and leave the book unchanged.
func (b *Book) Add(ctx context.Context, in models.ContactInput) (models.Contact, error) {
	c, err := models.NewContact(in, b.now())
	if err != nil {
		return models.Contact{}, err
	}
	for b.hasID(c.ID) {
		c.ID = models.NewID()
	}

	next := append(b.All(), c)
	if err := b.commit(ctx, next); err != nil {
		return models.Contact{}, fmt.Errorf("add: %w", err)
	}
	metrics.Inc(metrics.ContactsAdded)
	b.logger.Debug("added contact", "id", c.ID)
	return c.Clone(), nil
}

// Edit applies p to the contact with the given id.
func (b *Book) Edit(ctx context.Context, id string, p models.ContactPatch) (models.Contact, error) {
	i, ok := query.Find(b.contacts, id)
	if !ok {
		return models.Contact{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	updated, err := b.contacts[i].Apply(p, b.now())
	if err != nil {
		return models.Contact{}, err
	}

	next := b.All()
	next[i] = updated
	if err := b.commit(ctx, next); err != nil {
		return models.Contact{}, fmt.Errorf("edit: %w", err)
	}
	metrics.Inc(metrics.ContactsUpdated)
	b.logger.Debug("updated contact", "id", id)
	return updated.Clone(), nil
}

// Delete removes the contact with the given id and returns it.
func (b *Book) Delete(ctx context.Context, id string) (models.Contact, error) {
	i, ok := query.Find(b.contacts, id)
	if !ok {
		return models.Contact{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	removed := b.contacts[i].Clone()

	all := b.All()
	next := append(all[:i:i], all[i+1:]...)
	if err := b.commit(ctx, next); err != nil {
		return models.Contact{}, fmt.Errorf("delete: %w", err)
	}
	metrics.Inc(metrics.ContactsDeleted)
	b.logger.Debug("deleted contact", "id", id)
	return removed, nil
}

// Append persists additional, already validated contacts in one save. It is
// the bulk path used by import; ids colliding with existing ones are re-minted.
func (b *Book) Append(ctx context.Context, added []models.Contact) error {
	next := b.All()
	taken := make(map[string]bool, len(next)+len(added))
	for i := range next {
		taken[next[i].ID] = true
	}
	for _, c := range added {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("append: %w", err)
		}
		c = c.Clone()
		for c.ID == "" || taken[c.ID] {
			c.ID = models.NewID()
		}
		taken[c.ID] = true
		next = append(next, c)
	}
	if err := b.commit(ctx, next); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// Now returns the book's current time.
func (b *Book) Now() time.Time { return b.now() }

func (b *Book) hasID(id string) bool {
	_, ok := query.Find(b.contacts, id)
	return ok
}

// commit saves next and only then makes it the working set.
func (b *Book) commit(ctx context.Context, next []models.Contact) error {
	if err := b.store.Save(ctx, next); err != nil {
		return err
	}
	b.contacts = next
	return nil
}
