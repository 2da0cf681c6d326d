// Package query implements the stateless listing operations over a contact
// collection: display ordering, substring search, id lookup and statistics.
package query

import (
	"sort"
	"strings"

	"github.com/ajitpratap0/contactmaster/internal/models"
)

// Sort returns a new slice ordered by lowercased name, then phone, then
// lowercased email. Equal keys keep their input order.
func Sort(contacts []models.Contact) []models.Contact {
	out := make([]models.Contact, len(contacts))
	copy(out, contacts)
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

func less(a, b *models.Contact) bool {
	if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
		return an < bn
	}
	if a.Phone != b.Phone {
		return a.Phone < b.Phone
	}
	return strings.ToLower(a.Email) < strings.ToLower(b.Email)
}

// Search returns the contacts whose name, phone, email and tags, joined by
// spaces, contain q case-insensitively. Input order is preserved and an empty
// query matches everything.
func Search(contacts []models.Contact, q string) []models.Contact {
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]models.Contact, 0, len(contacts))
	for i := range contacts {
		if strings.Contains(haystack(&contacts[i]), needle) {
			out = append(out, contacts[i])
		}
	}
	return out
}

func haystack(c *models.Contact) string {
	return strings.ToLower(strings.Join([]string{
		c.Name,
		c.Phone,
		c.Email,
		strings.Join(c.Tags, " "),
	}, " "))
}

// Find returns the index of the contact with the given id.
func Find(contacts []models.Contact, id string) (int, bool) {
	for i := range contacts {
		if contacts[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Stats summarizes the collection.
func Stats(contacts []models.Contact) models.CollectionStats {
	stats := models.CollectionStats{
		TotalContacts: int64(len(contacts)),
		ByTag:         make(map[string]int64),
	}
	for i := range contacts {
		if contacts[i].Email != "" {
			stats.WithEmail++
		}
		for _, tag := range contacts[i].Tags {
			stats.ByTag[strings.ToLower(tag)]++
		}
	}
	return stats
}
