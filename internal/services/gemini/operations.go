package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storyboard/internal/project"
	"storyboard/internal/services"
)

func defaultIDGenerator() string {
	return uuid.NewString()
}

// RefineScript rewrites the draft script to comply with platform content
// policy. Scene structure is untouched; analysis has not happened yet.
func (c *Client) RefineScript(ctx context.Context, script string) (string, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return "", services.Wrap(services.ErrValidation, "gemini", "refine", "script must not be empty", nil)
	}
	resp, err := c.generate(ctx, c.cfg.TextModel, generateContentRequest{
		Contents: []content{{Parts: []part{
			{Text: refineSystemPrompt},
			{Text: script},
		}}},
	})
	if err != nil {
		return "", err
	}
	refined := firstText(resp)
	if refined == "" {
		return "", services.Wrap(services.ErrExternal, "gemini", "refine", "empty response", nil)
	}
	return refined, nil
}

type analysisPayload struct {
	Scenes     []project.Scene `json:"scenes"`
	Characters []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"characters"`
}

// AnalyzeScript decomposes the script into a storyboard: a contiguous scene
// sequence numbered from 1 and a character roster with no images and fresh
// IDs. The result replaces any prior analysis; it is never merged.
func (c *Client) AnalyzeScript(ctx context.Context, script string) ([]project.Scene, []project.CharacterProfile, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, nil, services.Wrap(services.ErrValidation, "gemini", "analyze", "script must not be empty", nil)
	}
	resp, err := c.generate(ctx, c.cfg.TextModel, generateContentRequest{
		Contents: []content{{Parts: []part{
			{Text: analyzeSystemPrompt},
			{Text: script},
		}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, nil, err
	}

	raw := firstText(resp)
	var payload analysisPayload
	if err := DecodeModelJSON(raw, &payload); err != nil {
		return nil, nil, services.Wrap(services.ErrExternal, "gemini", "analyze", "parse payload", err)
	}
	if len(payload.Scenes) == 0 {
		return nil, nil, services.Wrap(services.ErrExternal, "gemini", "analyze", "no scenes in response", nil)
	}

	scenes := payload.Scenes
	for i := range scenes {
		scenes[i].GeneratedImageURL = ""
		scenes[i].GeneratedVideoURL = ""
		scenes[i].Error = ""
		scenes[i].Gen = project.GenIdle
	}
	project.RenumberScenes(scenes)

	profiles := make([]project.CharacterProfile, 0, len(payload.Characters))
	for _, character := range payload.Characters {
		name := strings.TrimSpace(character.Name)
		if name == "" {
			continue
		}
		profiles = append(profiles, project.CharacterProfile{
			ID:          c.newID(),
			Name:        name,
			Description: strings.TrimSpace(character.Description),
			Gen:         project.GenIdle,
		})
	}
	return scenes, profiles, nil
}

// GenerateCharacterImage renders one reference image for the profile in the
// selected visual style, returned as a data URI.
func (c *Client) GenerateCharacterImage(ctx context.Context, profile project.CharacterProfile, style project.VisualStyle) (string, error) {
	if strings.TrimSpace(profile.Description) == "" && strings.TrimSpace(profile.Name) == "" {
		return "", services.Wrap(services.ErrValidation, "gemini", "character image", "profile has no description", nil)
	}
	prompt := characterImagePrompt(profile, style)
	return c.generateImage(ctx, "character image", prompt)
}

// GenerateSceneImage renders one storyboard frame for the visual prompt in
// the selected style. The full character roster is folded into the prompt so
// recurring characters stay visually consistent across scenes.
func (c *Client) GenerateSceneImage(ctx context.Context, visualPrompt string, style project.VisualStyle, profiles []project.CharacterProfile) (string, error) {
	if strings.TrimSpace(visualPrompt) == "" {
		return "", services.Wrap(services.ErrValidation, "gemini", "scene image", "visual prompt must not be empty", nil)
	}
	prompt := sceneImagePrompt(visualPrompt, style, profiles)
	return c.generateImage(ctx, "scene image", prompt)
}

func (c *Client) generateImage(ctx context.Context, op, prompt string) (string, error) {
	resp, err := c.generate(ctx, c.cfg.ImageModel, generateContentRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"IMAGE"}},
	})
	if err != nil {
		return "", err
	}
	uri, ok := firstInlineImage(resp)
	if !ok {
		detail := "no image in response"
		if text := firstText(resp); text != "" {
			detail = fmt.Sprintf("no image in response: %s", summarizeSnippet(text))
		}
		return "", services.Wrap(services.ErrExternal, "gemini", op, detail, nil)
	}
	return uri, nil
}

func summarizeSnippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	const limit = 120
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
