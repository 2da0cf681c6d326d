// Package backup copies the live store document into a backup directory under
// timestamped names and prunes old copies.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/contactmaster/internal/fsutil"
	"github.com/ajitpratap0/contactmaster/internal/metrics"
	"github.com/ajitpratap0/contactmaster/internal/store"
)

// Entry describes one backup file.
type Entry struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Manager creates and prunes backups of a store document.
type Manager struct {
	store  store.Store
	dir    string
	keep   int
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a backup manager writing into dir. keep bounds how many
// backups are retained after each run; zero keeps everything.
func NewManager(st store.Store, dir string, keep int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  st,
		dir:    dir,
		keep:   keep,
		logger: logger,
		now:    time.Now,
	}
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }

// prefix is the store basename without its extension, e.g. "contacts".
func (m *Manager) prefix() string {
	base := filepath.Base(m.store.Path())
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Backup copies the store document byte-for-byte to
// <dir>/<store-basename>_<stamp>.json and returns the new path. A second
// backup within the same second gets a -N suffix instead of overwriting.
func (m *Manager) Backup(ctx context.Context) (string, error) {
	if err := m.store.Ensure(ctx); err != nil {
		return "", fmt.Errorf("backup: ensuring store: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("backup: creating directory %s: %w", m.dir, err)
	}

	stem := filepath.Join(m.dir, m.prefix()+"_"+fsutil.Stamp(m.now()))
	dst, err := fsutil.UniquePath(stem, ".json")
	if err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	if err := fsutil.CopyFile(m.store.Path(), dst); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}

	metrics.Inc(metrics.BackupsCreated)
	m.logger.Info("backup created", "path", dst)

	if m.keep > 0 {
		if _, err := m.Prune(m.keep, false); err != nil {
			m.logger.Error("pruning backups", "error", err)
		}
	}
	return dst, nil
}

// List returns the backups of this store, newest first. A missing backup
// directory yields an empty list.
func (m *Manager) List() ([]Entry, error) {
	prefix := m.prefix() + "_"
	paths, err := filepath.Glob(filepath.Join(m.dir, prefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	type keyed struct {
		entry   Entry
		stamp   string
		counter int
	}
	found := make([]keyed, 0, len(paths))
	for _, p := range paths {
		stamp, counter, ok := parseName(filepath.Base(p), prefix)
		if !ok {
			continue
		}
		info, statErr := os.Stat(p)
		if statErr != nil || !info.Mode().IsRegular() {
			continue
		}
		found = append(found, keyed{
			entry:   Entry{Path: p, Size: info.Size(), ModTime: info.ModTime()},
			stamp:   stamp,
			counter: counter,
		})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].stamp != found[j].stamp {
			return found[i].stamp > found[j].stamp
		}
		return found[i].counter > found[j].counter
	})

	entries := make([]Entry, len(found))
	for i := range found {
		entries[i] = found[i].entry
	}
	return entries, nil
}

// parseName splits "<prefix><stamp>[-N].json" into its stamp and counter.
// Files that do not carry a valid stamp are not backups.
func parseName(name, prefix string) (stamp string, counter int, ok bool) {
	rest := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
	stamp, suffix, hasCounter := strings.Cut(rest, "-")
	if _, err := time.Parse(fsutil.StampLayout, stamp); err != nil {
		return "", 0, false
	}
	if hasCounter {
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 1 {
			return "", 0, false
		}
		counter = n
	}
	return stamp, counter, true
}

// PruneReport summarizes a prune run.
type PruneReport struct {
	Kept    int      `json:"kept"`
	Removed []string `json:"removed"`
}

// Prune deletes all but the newest keep backups. keep <= 0 removes nothing.
// With dryRun set, the report lists what would be removed without touching
// the disk.
func (m *Manager) Prune(keep int, dryRun bool) (*PruneReport, error) {
	entries, err := m.List()
	if err != nil {
		return nil, err
	}
	report := &PruneReport{Kept: len(entries), Removed: []string{}}
	if keep <= 0 || len(entries) <= keep {
		return report, nil
	}

	for _, e := range entries[keep:] {
		m.logger.Info("pruning old backup", "path", e.Path, "dry_run", dryRun)
		if !dryRun {
			if err := os.Remove(e.Path); err != nil {
				m.logger.Error("removing old backup", "path", e.Path, "error", err)
				continue
			}
		}
		report.Removed = append(report.Removed, e.Path)
		report.Kept--
	}
	return report, nil
}
