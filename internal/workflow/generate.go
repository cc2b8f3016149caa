package workflow

import (
	"context"
	"fmt"
	"strconv"

	"storyboard/internal/batch"
	"storyboard/internal/logging"
	"storyboard/internal/project"
	"storyboard/internal/services"
)

// GenerateCharacter synthesizes the reference image for one character.
// Explicit calls regenerate even when an image already exists. The in-flight
// marker is released on every exit path.
func (c *Controller) GenerateCharacter(ctx context.Context, id string) error {
	profile := c.snap.CharacterByID(id)
	if profile == nil {
		return services.Wrap(services.ErrNotFound, "workflow", "generate character", id, nil)
	}
	if profile.IsGenerating() {
		return services.Wrap(services.ErrValidation, "workflow", "generate character",
			fmt.Sprintf("%s already has a generation in flight", profile.Name), nil)
	}

	profile.Gen = project.GenInFlight
	c.save(ctx)
	defer func() {
		if profile.Gen == project.GenInFlight {
			profile.Gen = project.GenFailed
		}
		c.save(ctx)
	}()

	uri, err := c.gateway.GenerateCharacterImage(ctx, *profile, c.snap.SelectedStyle)
	if err != nil {
		profile.Gen = project.GenFailed
		c.logger.Warn("character image generation failed",
			logging.String("character", profile.Name), logging.Error(err))
		return err
	}
	profile.ImageURL = uri
	profile.Gen = project.GenDone
	return nil
}

// GenerateScene synthesizes the image for one scene from its visual prompt.
// Explicit calls overwrite an existing image; batch generation never does.
func (c *Controller) GenerateScene(ctx context.Context, sceneNumber int) error {
	scene := c.snap.SceneByNumber(sceneNumber)
	if scene == nil {
		return services.Wrap(services.ErrNotFound, "workflow", "generate scene",
			fmt.Sprintf("scene %d", sceneNumber), nil)
	}
	if scene.Gen == project.GenInFlight {
		return services.Wrap(services.ErrValidation, "workflow", "generate scene",
			fmt.Sprintf("scene %d already has a generation in flight", sceneNumber), nil)
	}

	scene.Gen = project.GenInFlight
	c.save(ctx)
	defer func() {
		if scene.Gen == project.GenInFlight {
			scene.Gen = project.GenFailed
		}
		c.save(ctx)
	}()

	uri, err := c.gateway.GenerateSceneImage(ctx, scene.VisualPrompt, c.snap.SelectedStyle, c.snap.CharacterProfiles)
	if err != nil {
		scene.Gen = project.GenFailed
		scene.Error = services.UserMessage(err)
		c.logger.Warn("scene image generation failed",
			logging.Int("scene", sceneNumber), logging.Error(err))
		return err
	}
	scene.GeneratedImageURL = uri
	scene.Error = ""
	scene.Gen = project.GenDone
	return nil
}

// GenerateAllCharacters walks the roster in order, skipping characters that
// already have an image, generating the rest one at a time. A failure on one
// character never stops the batch.
func (c *Controller) GenerateAllCharacters(ctx context.Context) batch.Report {
	ids := make([]string, 0, len(c.snap.CharacterProfiles))
	for _, profile := range c.snap.CharacterProfiles {
		if profile.Materialized() {
			continue
		}
		ids = append(ids, profile.ID)
	}
	report := batch.Run(ctx, ids, c.GenerateCharacter)
	c.logger.Info("character batch finished",
		logging.Int("attempted", len(report.Results)),
		logging.Int("failed", report.Failed()))
	return report
}

// GenerateSceneRange generates images for every scene in the inclusive range
// [start, end] that is not yet materialized. Regeneration of existing images
// is only available through the explicit single-scene action. The range is
// validated before any network call; an empty filtered set is reported as a
// no-op distinct from success.
func (c *Controller) GenerateSceneRange(ctx context.Context, start, end int) (batch.Report, error) {
	if err := c.SetRange(start, end); err != nil {
		return batch.Report{}, err
	}

	keys := make([]string, 0, len(c.snap.Scenes))
	for _, scene := range c.snap.Scenes {
		if scene.SceneNumber < start || scene.SceneNumber > end || scene.Materialized() {
			continue
		}
		keys = append(keys, strconv.Itoa(scene.SceneNumber))
	}
	if len(keys) == 0 {
		return batch.Report{}, services.Wrap(services.ErrNothingToDo, "workflow", "generate range",
			fmt.Sprintf("no pending scenes between %d and %d", start, end), nil)
	}

	report := batch.Run(ctx, keys, func(ctx context.Context, key string) error {
		number, err := strconv.Atoi(key)
		if err != nil {
			return err
		}
		return c.GenerateScene(ctx, number)
	})
	c.logger.Info("scene batch finished",
		logging.Int("start", start), logging.Int("end", end),
		logging.Int("attempted", len(report.Results)),
		logging.Int("failed", report.Failed()))
	return report, nil
}
