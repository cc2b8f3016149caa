package gemini

import (
	"fmt"
	"strings"

	"storyboard/internal/project"
)

// Prompt templates sent to the model. Keep updates centralized here so they
// are easy to tweak without hunting through call sites.

const refineSystemPrompt = `You are a script editor for YouTube video production. Rewrite the following script so it complies with YouTube content policy while preserving the author's voice, story structure, and length as closely as possible. Soften or rephrase anything that could trigger demonetization (graphic violence, explicit content, harmful acts) without removing story beats. Respond ONLY with the rewritten script text, no commentary.`

const analyzeSystemPrompt = `You are a storyboard director. Break the following script into storyboard scenes and extract the recurring characters.

Respond ONLY with a JSON object of this exact shape:
{
  "scenes": [
    {
      "sceneNumber": 1,
      "title": "short scene title",
      "description": "what happens in the scene",
      "visualPrompt": "a detailed English image-generation prompt for this shot",
      "videoPrompt": "a detailed description for video generation",
      "cameraMovement": "camera direction such as Dolly in, Pan left, Static",
      "narrative": "the narration text for this scene",
      "scriptStartSentence": "first sentence of the script span this scene covers",
      "scriptEndSentence": "last sentence of the script span this scene covers",
      "estimatedDuration": "8s"
    }
  ],
  "characters": [
    {"name": "character name", "description": "detailed visual description: age, build, face, clothing"}
  ]
}

Number scenes sequentially starting at 1. Cover the entire script; scene spans must not overlap. Include every character that appears in more than one scene.`

func styleDirective(style project.VisualStyle) string {
	info, ok := project.StyleByID(style)
	if !ok {
		info, _ = project.StyleByID(project.StyleDefault)
	}
	return fmt.Sprintf("Visual style: %s (%s).", info.Label, info.Desc)
}

func characterImagePrompt(profile project.CharacterProfile, style project.VisualStyle) string {
	var b strings.Builder
	b.WriteString("Generate a single full-body character reference image on a neutral background.\n")
	b.WriteString(styleDirective(style))
	b.WriteString("\nCharacter: ")
	b.WriteString(strings.TrimSpace(profile.Name))
	if desc := strings.TrimSpace(profile.Description); desc != "" {
		b.WriteString("\nAppearance: ")
		b.WriteString(desc)
	}
	return b.String()
}

func sceneImagePrompt(visualPrompt string, style project.VisualStyle, profiles []project.CharacterProfile) string {
	var b strings.Builder
	b.WriteString("Generate a single cinematic storyboard frame.\n")
	b.WriteString(styleDirective(style))
	b.WriteString("\nShot: ")
	b.WriteString(strings.TrimSpace(visualPrompt))
	if len(profiles) > 0 {
		b.WriteString("\nKeep these recurring characters visually consistent:")
		for _, profile := range profiles {
			if strings.TrimSpace(profile.Name) == "" {
				continue
			}
			b.WriteString(fmt.Sprintf("\n- %s: %s", strings.TrimSpace(profile.Name), strings.TrimSpace(profile.Description)))
		}
	}
	return b.String()
}
