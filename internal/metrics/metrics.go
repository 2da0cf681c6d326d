// Package metrics provides application-level counters using stdlib expvar.
// Counters live for the process, so they describe the current session; the
// menu logs them on exit.
package metrics

import "expvar"

// Operation counters.
var (
	ContactsAdded   = expvar.NewInt("contactmaster_added_total")
	ContactsUpdated = expvar.NewInt("contactmaster_updated_total")
	ContactsDeleted = expvar.NewInt("contactmaster_deleted_total")
	ImportAccepted  = expvar.NewInt("contactmaster_imported_total")
	ImportSkipped   = expvar.NewInt("contactmaster_import_skipped_total")
	Quarantined     = expvar.NewInt("contactmaster_quarantined_total")
	BackupsCreated  = expvar.NewInt("contactmaster_backups_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }

// Snapshot returns the current value of every counter, keyed by its short name.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"added":          ContactsAdded.Value(),
		"updated":        ContactsUpdated.Value(),
		"deleted":        ContactsDeleted.Value(),
		"imported":       ImportAccepted.Value(),
		"import_skipped": ImportSkipped.Value(),
		"quarantined":    Quarantined.Value(),
		"backups":        BackupsCreated.Value(),
	}
}
