package store

import "context"

const createProjectsTable = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	snapshot TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

func (s *Store) initSchema(ctx context.Context) error {
	return s.execWithRetry(ctx, createProjectsTable)
}
