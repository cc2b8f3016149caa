package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"storyboard/internal/project"
)

// Load returns the persisted snapshot for the project id, or (nil, nil) when
// no snapshot exists. Loaded snapshots are normalized so interrupted
// generation markers never survive a restart.
func (s *Store) Load(ctx context.Context, projectID string) (*project.Snapshot, error) {
	ctx = ensureContext(ctx)
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("project id required")
	}

	var raw string
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, `SELECT snapshot FROM projects WHERE id = ?`, projectID).Scan(&raw)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}

	snap := &project.Snapshot{}
	if err := json.Unmarshal([]byte(raw), snap); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", projectID, err)
	}
	snap.Normalize()
	return snap, nil
}

// Save upserts the full snapshot for the project id. The snapshot is encoded
// and written as one atomic row; concurrent saves resolve last-write-wins.
func (s *Store) Save(ctx context.Context, projectID string, snap *project.Snapshot) error {
	ctx = ensureContext(ctx)
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return errors.New("project id required")
	}
	if snap == nil {
		return errors.New("snapshot required")
	}

	encoded, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode project %s: %w", projectID, err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.execWithRetry(ctx,
		`INSERT INTO projects (id, snapshot, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		projectID, string(encoded), now)
}

// Clear removes the snapshot for the project id. Clearing an absent project
// is not an error.
func (s *Store) Clear(ctx context.Context, projectID string) error {
	ctx = ensureContext(ctx)
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return errors.New("project id required")
	}
	return s.execWithRetry(ctx, `DELETE FROM projects WHERE id = ?`, projectID)
}
