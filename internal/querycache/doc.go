// Package querycache is a keyed request cache with stale-while-fetch
// semantics.
//
// A Cache answers Fetch(key) from memory while the entry is younger than
// the stale time. Older or missing entries are reloaded through the
// Loader, and concurrent Fetch calls for the same key share one load.
// Failed loads are never stored: the next Fetch after an error always
// calls the Loader again.
//
// An optional Store acts as a second tier (SQLite, Redis) that survives
// process restarts. Store failures are logged and otherwise ignored; the
// Loader remains the source of truth.
package querycache
