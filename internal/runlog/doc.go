// Package runlog keeps a SQLite-backed history of resolved runs: the seed
// and how it was derived, the configs and overrides that were merged, and
// the render devices that were chosen.
//
// Rows are append-only. Ordering always uses the seq column, never
// created_at, so listings are stable when the wall clock is not.
package runlog
