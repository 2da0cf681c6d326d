package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ajitpratap0/contactmaster/internal/validate"
)

// ErrValidation is matched by every error that rejects a contact's fields.
var ErrValidation = errors.New("invalid contact")

// ValidationError names the field that failed validation and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Contact is one stored record. ID is fixed once assigned; the timestamps
// track creation and the last accepted edit.
type Contact struct {
	ID        string    `json:"id"         yaml:"id"`
	Name      string    `json:"name"       yaml:"name"`
	Phone     string    `json:"phone"      yaml:"phone"`
	Email     string    `json:"email"      yaml:"email"`
	Tags      []string  `json:"tags"       yaml:"tags"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
	UpdatedAt Timestamp `json:"updated_at" yaml:"updated_at"`
}

// ContactInput carries raw, un-normalized field values for a new contact.
type ContactInput struct {
	Name  string
	Phone string
	Email string
	Tags  []string
}

// ContactPatch carries raw replacement values for an existing contact.
// A nil field keeps the current value.
type ContactPatch struct {
	Name  *string
	Phone *string
	Email *string
	Tags  *[]string
}

// NewID mints a short opaque contact identifier.
func NewID() string {
	return uuid.NewString()[:8]
}

// NewContact normalizes and validates in and returns a contact with a fresh
// ID and both timestamps set to now.
func NewContact(in ContactInput, now time.Time) (Contact, error) {
	c := Contact{
		ID:    NewID(),
		Name:  validate.Normalize(in.Name),
		Phone: validate.Normalize(in.Phone),
		Email: validate.Normalize(in.Email),
		Tags:  validate.NormalizeTags(in.Tags),
	}
	if err := c.Validate(); err != nil {
		return Contact{}, err
	}
	ts := NewTimestamp(now)
	c.CreatedAt = ts
	c.UpdatedAt = ts
	return c, nil
}

// Apply returns a copy of c with the patch normalized and applied and
// UpdatedAt set to now. c itself is never modified.
func (c Contact) Apply(p ContactPatch, now time.Time) (Contact, error) {
	out := c.Clone()
	if p.Name != nil {
		out.Name = validate.Normalize(*p.Name)
	}
	if p.Phone != nil {
		out.Phone = validate.Normalize(*p.Phone)
	}
	if p.Email != nil {
		out.Email = validate.Normalize(*p.Email)
	}
	if p.Tags != nil {
		out.Tags = validate.NormalizeTags(*p.Tags)
	}
	if err := out.Validate(); err != nil {
		return Contact{}, err
	}
	out.UpdatedAt = NewTimestamp(now)
	return out, nil
}

// Validate checks the field invariants every stored contact satisfies.
func (c Contact) Validate() error {
	switch {
	case c.Name == "":
		return &ValidationError{Field: "name", Reason: "required"}
	case c.Phone == "":
		return &ValidationError{Field: "phone", Reason: "required"}
	case !validate.Phone(c.Phone):
		return &ValidationError{Field: "phone", Reason: fmt.Sprintf("must contain %d-%d digits", validate.MinPhoneDigits, validate.MaxPhoneDigits)}
	case !validate.Email(c.Email):
		return &ValidationError{Field: "email", Reason: "invalid format"}
	}
	return nil
}

// Clone returns a deep copy of c whose Tags slice is never nil.
func (c Contact) Clone() Contact {
	tags := make([]string, len(c.Tags))
	copy(tags, c.Tags)
	c.Tags = tags
	return c
}

// CollectionStats holds summary statistics about the contact collection.
type CollectionStats struct {
	TotalContacts int64            `json:"total_contacts"`
	WithEmail     int64            `json:"with_email"`
	ByTag         map[string]int64 `json:"by_tag"`
}
