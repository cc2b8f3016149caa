package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"storyboard/internal/logging"
	"storyboard/internal/project"
	"storyboard/internal/services"
)

// SetScript replaces the draft script text.
func (c *Controller) SetScript(ctx context.Context, script string) {
	c.snap.Script = script
	c.save(ctx)
}

// Script returns the current script text.
func (c *Controller) Script() string {
	return c.snap.Script
}

// Refine rewrites the script for platform content policy. Safe to invoke
// repeatedly; each call replaces the script with the refined text.
func (c *Controller) Refine(ctx context.Context) error {
	if strings.TrimSpace(c.snap.Script) == "" {
		return services.Wrap(services.ErrValidation, "workflow", "refine", "script must not be empty", nil)
	}
	refined, err := c.gateway.RefineScript(ctx, c.snap.Script)
	if err != nil {
		return err
	}
	c.snap.Script = refined
	c.snap.IsRefined = true
	c.save(ctx)
	return nil
}

// Analyze runs the script decomposition. On success the result replaces any
// prior scenes and characters, the scene selection resets to the full set,
// the active range resets to [1, sceneCount], and the workflow advances to
// the scene list step.
func (c *Controller) Analyze(ctx context.Context) error {
	if strings.TrimSpace(c.snap.Script) == "" {
		return services.Wrap(services.ErrValidation, "workflow", "analyze", "script must not be empty", nil)
	}
	scenes, profiles, err := c.gateway.AnalyzeScript(ctx, c.snap.Script)
	if err != nil {
		return err
	}
	c.snap.Scenes = scenes
	c.snap.CharacterProfiles = profiles
	c.snap.SelectAllScenes()
	c.rangeStart = 1
	c.rangeEnd = len(scenes)
	c.snap.ActiveStep = project.StepScenes
	c.save(ctx)
	c.logger.Info("script analyzed",
		logging.Int("scenes", len(scenes)),
		logging.Int("characters", len(profiles)))
	return nil
}

// GoToStep navigates between workflow steps. Steps past script entry require
// analysis data; otherwise navigation is free in both directions.
func (c *Controller) GoToStep(ctx context.Context, step project.Step) error {
	if !step.Valid() {
		return services.Wrap(services.ErrValidation, "workflow", "step",
			fmt.Sprintf("step %d is not between 1 and 5", step), nil)
	}
	if step.RequiresAnalysis() && len(c.snap.Scenes) == 0 {
		return services.Wrap(services.ErrValidation, "workflow", "step",
			fmt.Sprintf("%s requires an analyzed script", step.Label()), nil)
	}
	c.snap.ActiveStep = step
	c.save(ctx)
	return nil
}

// SetStyle selects the visual style applied to subsequent generation.
func (c *Controller) SetStyle(ctx context.Context, style project.VisualStyle) error {
	if !project.IsValidStyle(style) {
		return services.Wrap(services.ErrValidation, "workflow", "style",
			fmt.Sprintf("unknown style %q", style), nil)
	}
	c.snap.SelectedStyle = style
	c.save(ctx)
	return nil
}

// UpdateVisualPrompt edits the one scene field exposed for manual correction
// before regeneration.
func (c *Controller) UpdateVisualPrompt(ctx context.Context, sceneNumber int, prompt string) error {
	scene := c.snap.SceneByNumber(sceneNumber)
	if scene == nil {
		return services.Wrap(services.ErrNotFound, "workflow", "update prompt",
			fmt.Sprintf("scene %d", sceneNumber), nil)
	}
	scene.VisualPrompt = prompt
	c.save(ctx)
	return nil
}

// ToggleSceneSelection flips a scene in or out of the selection set.
func (c *Controller) ToggleSceneSelection(ctx context.Context, sceneNumber int) error {
	if c.snap.SceneByNumber(sceneNumber) == nil {
		return services.Wrap(services.ErrNotFound, "workflow", "select",
			fmt.Sprintf("scene %d", sceneNumber), nil)
	}
	c.snap.ToggleSceneSelection(sceneNumber)
	c.save(ctx)
	return nil
}

// SetRange updates the active scene range after validating it.
func (c *Controller) SetRange(start, end int) error {
	if start > end {
		return services.Wrap(services.ErrValidation, "workflow", "range",
			fmt.Sprintf("start %d must not exceed end %d", start, end), nil)
	}
	if start < 1 {
		return services.Wrap(services.ErrValidation, "workflow", "range", "start must be at least 1", nil)
	}
	c.rangeStart = start
	c.rangeEnd = end
	return nil
}

// Reset destroys the persisted snapshot and returns the in-memory state to a
// fresh project at step 1. Unlike routine saves, a clear failure IS surfaced:
// the user asked for destructive action and must know it did not complete.
// On failure the in-progress guard rolls back so subsequent saves resume.
func (c *Controller) Reset(ctx context.Context) error {
	c.resetting = true
	if err := c.store.Clear(ctx, c.projectID); err != nil {
		c.resetting = false
		return services.Wrap(services.ErrExternal, "workflow", "reset", "clear project", err)
	}
	c.snap = project.NewSnapshot()
	c.rangeStart = 1
	c.rangeEnd = 1
	c.resetting = false
	c.logger.Info("project reset", logging.String("project", c.projectID))
	return nil
}

// Dump renders the full project as a formatted text block for manual
// inspection on the export step.
func (c *Controller) Dump() (string, error) {
	payload := struct {
		Project     string          `json:"project"`
		TotalScenes int             `json:"totalScenes"`
		Scenes      []project.Scene `json:"scenes"`
	}{
		Project:     c.projectID,
		TotalScenes: len(c.snap.Scenes),
		Scenes:      c.snap.Scenes,
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode project dump: %w", err)
	}
	return string(encoded), nil
}
