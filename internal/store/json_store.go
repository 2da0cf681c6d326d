package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ajitpratap0/contactmaster/internal/fsutil"
	"github.com/ajitpratap0/contactmaster/internal/metrics"
	"github.com/ajitpratap0/contactmaster/internal/models"
)

// documentSchema is the shape a store document must have to be loaded at all.
const documentSchema = `{"type": "array"}`

// contactSchema decides whether an array entry is kept. Unknown keys are allowed.
const contactSchema = `{
  "type": "object",
  "properties": {
    "id":         {"type": "string"},
    "name":       {"type": "string"},
    "phone":      {"type": "string"},
    "email":      {"type": "string"},
    "tags":       {"type": ["array", "null"], "items": {"type": "string"}},
    "created_at": {"type": "string"},
    "updated_at": {"type": "string"}
  }
}`

// JSONStore keeps the collection in a pretty-printed JSON array on disk.
type JSONStore struct {
	path     string
	logger   *slog.Logger
	writer   fsutil.AtomicWriter
	now      func() time.Time
	document *gojsonschema.Schema
	contact  *gojsonschema.Schema
}

// NewJSONStore creates a store backed by the file at path. The file is not
// touched until the first Ensure, Load or Save.
func NewJSONStore(path string, logger *slog.Logger) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	document, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}
	contact, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(contactSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling contact schema: %w", err)
	}
	return &JSONStore{
		path:     path,
		logger:   logger,
		now:      time.Now,
		document: document,
		contact:  contact,
	}, nil
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Ensure creates the backing file holding an empty array if it is absent.
func (s *JSONStore) Ensure(ctx context.Context) error {
	exists, err := fsutil.Exists(s.path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return fmt.Errorf("creating directory %s: %w", dir, mkErr)
		}
	}
	if err := s.Save(ctx, nil); err != nil {
		return fmt.Errorf("creating %s: %w", s.path, err)
	}
	s.logger.Info("created contact store", "path", s.path)
	return nil
}

// Load reads the collection. Unparseable documents are copied aside and the
// store is reset to an empty array; the caller sees Recovered set instead of
// an error. Contacts whose ids had to be reassigned are written back so the
// new ids hold across sessions. Filesystem errors are returned.
func (s *JSONStore) Load(ctx context.Context) (*LoadResult, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	if reason := s.checkDocument(data); reason != "" {
		return s.quarantine(ctx, reason)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return s.quarantine(ctx, err.Error())
	}

	result := &LoadResult{Contacts: make([]models.Contact, 0, len(raw))}
	seen := make(map[string]bool, len(raw))
	for i, entry := range raw {
		c, cleared, ok := s.decodeEntry(entry)
		if !ok {
			s.logger.Debug("dropping non-contact entry", "path", s.path, "index", i)
			result.Dropped++
			continue
		}
		if c.ID == "" || seen[c.ID] {
			old := c.ID
			for c.ID == "" || seen[c.ID] {
				c.ID = models.NewID()
			}
			s.logger.Warn("reassigned contact id", "path", s.path, "index", i, "old_id", old, "new_id", c.ID)
			result.Reassigned++
		}
		if cleared > 0 {
			s.logger.Warn("cleared unreadable timestamp", "path", s.path, "index", i, "id", c.ID, "fields", cleared)
			result.ClearedTimestamps += cleared
		}
		seen[c.ID] = true
		result.Contacts = append(result.Contacts, c)
	}

	if result.Reassigned > 0 {
		if err := s.Save(ctx, result.Contacts); err != nil {
			return nil, fmt.Errorf("persisting reassigned ids: %w", err)
		}
		s.logger.Info("saved reassigned contact ids", "path", s.path, "count", result.Reassigned)
	}
	return result, nil
}

// checkDocument returns a non-empty reason when data is not a UTF-8 JSON array.
func (s *JSONStore) checkDocument(data []byte) string {
	if !utf8.Valid(data) {
		return "invalid UTF-8"
	}
	if !json.Valid(data) {
		return "invalid JSON"
	}
	res, err := s.document.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err.Error()
	}
	if !res.Valid() {
		return "top-level value is not an array"
	}
	return ""
}

// storedEntry reads timestamps as plain strings so one unreadable value does
// not cost the whole record.
type storedEntry struct {
	models.Contact
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// decodeEntry returns the contact held by entry and how many of its
// timestamps were unreadable and left zero.
func (s *JSONStore) decodeEntry(entry json.RawMessage) (models.Contact, int, bool) {
	if trimmed := bytes.TrimSpace(entry); len(trimmed) == 0 || trimmed[0] != '{' {
		return models.Contact{}, 0, false
	}
	res, err := s.contact.Validate(gojsonschema.NewBytesLoader(entry))
	if err != nil || !res.Valid() {
		return models.Contact{}, 0, false
	}
	var se storedEntry
	if err := json.Unmarshal(entry, &se); err != nil {
		return models.Contact{}, 0, false
	}
	c := se.Contact
	cleared := 0
	for _, f := range []struct {
		raw string
		dst *models.Timestamp
	}{{se.CreatedAt, &c.CreatedAt}, {se.UpdatedAt, &c.UpdatedAt}} {
		ts, err := models.ParseTimestamp(f.raw)
		if err != nil {
			cleared++
			continue
		}
		*f.dst = ts
	}
	return c.Clone(), cleared, true
}

func (s *JSONStore) quarantine(ctx context.Context, reason string) (*LoadResult, error) {
	stem := s.path + ".corrupt." + fsutil.Stamp(s.now())
	dst, err := fsutil.UniquePath(stem, ".bak")
	if err != nil {
		return nil, err
	}
	if err := fsutil.CopyFile(s.path, dst); err != nil {
		return nil, fmt.Errorf("quarantining %s: %w", s.path, err)
	}
	if err := s.Save(ctx, nil); err != nil {
		return nil, fmt.Errorf("resetting %s: %w", s.path, err)
	}

	metrics.Inc(metrics.Quarantined)
	s.logger.Warn("contact store was corrupted; saved a copy and reset it",
		"path", s.path, "quarantine", dst, "reason", reason)

	return &LoadResult{
		Contacts:       []models.Contact{},
		Recovered:      true,
		QuarantinePath: dst,
	}, nil
}

// Save writes the complete collection to a temp file beside the store and
// renames it into place.
func (s *JSONStore) Save(ctx context.Context, contacts []models.Contact) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	doc := make([]models.Contact, len(contacts))
	for i := range contacts {
		doc[i] = contacts[i].Clone()
	}

	err := s.writer.WriteFile(s.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(doc); encErr != nil {
			return fmt.Errorf("encoding contacts: %w", encErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	s.logger.Debug("saved contact store", "path", s.path, "count", len(doc))
	return nil
}
