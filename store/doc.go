// Package store persists the translation memory in SQLite: documents,
// versioned translations, and reusable segments.
//
// The schema is the durable contract other tooling may read directly;
// column names and types are the wire format for export and history views.
// Mutating operations run in a transaction and roll back on failure.
// Read-only aggregates (similarity search, history, statistics) degrade to
// empty results when the database misbehaves, so callers treat an empty
// result as "no matches found" rather than a fatal condition.
package store
