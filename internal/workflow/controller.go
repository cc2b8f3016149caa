package workflow

import (
	"context"
	"log/slog"
	"time"

	"storyboard/internal/logging"
	"storyboard/internal/project"
)

// Gateway is the generative backend the workflow depends on.
type Gateway interface {
	RefineScript(ctx context.Context, script string) (string, error)
	AnalyzeScript(ctx context.Context, script string) ([]project.Scene, []project.CharacterProfile, error)
	GenerateCharacterImage(ctx context.Context, profile project.CharacterProfile, style project.VisualStyle) (string, error)
	GenerateSceneImage(ctx context.Context, visualPrompt string, style project.VisualStyle, profiles []project.CharacterProfile) (string, error)
}

// Store is the durable mirror of the project snapshot.
type Store interface {
	Load(ctx context.Context, projectID string) (*project.Snapshot, error)
	Save(ctx context.Context, projectID string, snap *project.Snapshot) error
	Clear(ctx context.Context, projectID string) error
}

// Controller owns the project snapshot and is its only writer. It is not
// safe for concurrent use; callers serialize access (the CLI holds an
// exclusive project lock, the HTTP server wraps it in a mutex).
type Controller struct {
	projectID string
	store     Store
	gateway   Gateway
	logger    *slog.Logger

	snap       *project.Snapshot
	rangeStart int
	rangeEnd   int
	resetting  bool
}

// Load constructs a controller from the persisted snapshot. A load failure
// degrades to a fresh project (logged, not surfaced) so a corrupt store
// never blocks startup.
func Load(ctx context.Context, projectID string, st Store, gw Gateway, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Controller{
		projectID:  projectID,
		store:      st,
		gateway:    gw,
		logger:     logger,
		snap:       project.NewSnapshot(),
		rangeStart: 1,
		rangeEnd:   1,
	}
	snap, err := st.Load(ctx, projectID)
	if err != nil {
		logger.Warn("failed to load project, starting fresh",
			logging.String("project", projectID), logging.Error(err))
		return c
	}
	if snap != nil {
		c.snap = snap
		if n := len(snap.Scenes); n > 0 {
			c.rangeEnd = n
		}
	}
	return c
}

// Snapshot returns a deep copy of the current project state for readers.
func (c *Controller) Snapshot() *project.Snapshot {
	return c.snap.Clone()
}

// ProjectID returns the identifier keying the persisted snapshot.
func (c *Controller) ProjectID() string {
	return c.projectID
}

// ActiveRange returns the current scene range used as the default for batch
// generation and export.
func (c *Controller) ActiveRange() (start, end int) {
	return c.rangeStart, c.rangeEnd
}

// save mirrors the full snapshot to the store. Failures are logged, never
// surfaced: the project keeps working in memory and the next successful save
// restores durability because every save writes the complete object.
func (c *Controller) save(ctx context.Context) {
	if c.resetting {
		return
	}
	c.snap.LastUpdated = time.Now().UTC()
	if err := c.store.Save(ctx, c.projectID, c.snap); err != nil {
		c.logger.Warn("failed to save project",
			logging.String("project", c.projectID), logging.Error(err))
	}
}
