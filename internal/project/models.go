package project

import "strings"

// GenState tracks the image-generation lifecycle of a single entity. Every
// transition into GenInFlight must have a matching guaranteed transition out
// so the UI never observes a permanently stuck marker.
type GenState string

const (
	GenIdle     GenState = ""
	GenInFlight GenState = "in_flight"
	GenDone     GenState = "done"
	GenFailed   GenState = "failed"
)

// Scene is one storyboard shot derived from a contiguous span of the script.
// Scene numbers are assigned contiguously from 1 at analysis time and act as
// the stable ordering key afterwards.
type Scene struct {
	SceneNumber         int      `json:"sceneNumber"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	VisualPrompt        string   `json:"visualPrompt"`
	VideoPrompt         string   `json:"videoPrompt"`
	CameraMovement      string   `json:"cameraMovement"`
	Narrative           string   `json:"narrative"`
	ScriptStartSentence string   `json:"scriptStartSentence"`
	ScriptEndSentence   string   `json:"scriptEndSentence"`
	EstimatedDuration   string   `json:"estimatedDuration,omitempty"`
	GeneratedImageURL   string   `json:"generatedImageUrl,omitempty"`
	GeneratedVideoURL   string   `json:"generatedVideoUrl,omitempty"`
	Error               string   `json:"error,omitempty"`
	Gen                 GenState `json:"genState,omitempty"`
}

// Materialized reports whether the scene has a successfully generated image.
func (s Scene) Materialized() bool {
	return strings.TrimSpace(s.GeneratedImageURL) != ""
}

// CharacterProfile is a recurring character extracted from the script with an
// optional generated reference image.
type CharacterProfile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Gen         GenState `json:"genState,omitempty"`
}

// Materialized reports whether the profile has a generated reference image.
func (p CharacterProfile) Materialized() bool {
	return strings.TrimSpace(p.ImageURL) != ""
}

// IsGenerating reports whether a synthesis request for this profile is in
// flight. At most one request per profile runs at a time.
func (p CharacterProfile) IsGenerating() bool {
	return p.Gen == GenInFlight
}

// RenumberScenes reassigns scene numbers contiguously from 1, preserving the
// existing order. Analysis output passes through this so downstream range
// selection can rely on a gapless 1..N run.
func RenumberScenes(scenes []Scene) {
	for i := range scenes {
		scenes[i].SceneNumber = i + 1
	}
}
