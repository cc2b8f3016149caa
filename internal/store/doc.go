// Package store persists the project snapshot in SQLite. One row per
// project id holds the full snapshot as a JSON document; every save writes
// the complete object, so the stored snapshot is never partial and
// last-write-wins is safe for rapid successive saves.
package store
