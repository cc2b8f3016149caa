package project

import (
	"sort"
	"time"
)

// DefaultProjectID keys the single project snapshot in the store. The value
// matches the identifier used by existing project exports.
const DefaultProjectID = "STORYBOARD_PRO_PROJECT"

// Snapshot is the complete persisted state of one project. The in-memory
// state is the writer; the store holds a durable mirror of the full object.
type Snapshot struct {
	Script            string             `json:"script"`
	Scenes            []Scene            `json:"scenes"`
	CharacterProfiles []CharacterProfile `json:"characterProfiles"`
	ActiveStep        Step               `json:"activeStep"`
	SelectedStyle     VisualStyle        `json:"selectedStyle"`
	SelectedScenes    []int              `json:"selectedScenes"`
	IsRefined         bool               `json:"isRefined"`
	LastUpdated       time.Time          `json:"lastUpdated"`
}

// NewSnapshot returns the state of a freshly started project.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ActiveStep:    StepScript,
		SelectedStyle: StyleDefault,
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Scenes = make([]Scene, len(s.Scenes))
	copy(cp.Scenes, s.Scenes)
	cp.CharacterProfiles = make([]CharacterProfile, len(s.CharacterProfiles))
	copy(cp.CharacterProfiles, s.CharacterProfiles)
	cp.SelectedScenes = make([]int, len(s.SelectedScenes))
	copy(cp.SelectedScenes, s.SelectedScenes)
	return &cp
}

// SceneByNumber returns a pointer into the snapshot's scene slice, or nil.
func (s *Snapshot) SceneByNumber(number int) *Scene {
	for i := range s.Scenes {
		if s.Scenes[i].SceneNumber == number {
			return &s.Scenes[i]
		}
	}
	return nil
}

// CharacterByID returns a pointer into the snapshot's profile slice, or nil.
func (s *Snapshot) CharacterByID(id string) *CharacterProfile {
	for i := range s.CharacterProfiles {
		if s.CharacterProfiles[i].ID == id {
			return &s.CharacterProfiles[i]
		}
	}
	return nil
}

// SelectAllScenes resets the selection to the full set of scene numbers.
// Each successful analysis re-derives the selection this way; prior
// selections are discarded, never merged.
func (s *Snapshot) SelectAllScenes() {
	selected := make([]int, 0, len(s.Scenes))
	for _, scene := range s.Scenes {
		selected = append(selected, scene.SceneNumber)
	}
	s.SelectedScenes = selected
}

// SceneSelected reports whether the scene number is in the selection set.
func (s *Snapshot) SceneSelected(number int) bool {
	for _, n := range s.SelectedScenes {
		if n == number {
			return true
		}
	}
	return false
}

// ToggleSceneSelection adds or removes a scene number from the selection,
// keeping the set sorted.
func (s *Snapshot) ToggleSceneSelection(number int) {
	for i, n := range s.SelectedScenes {
		if n == number {
			s.SelectedScenes = append(s.SelectedScenes[:i], s.SelectedScenes[i+1:]...)
			return
		}
	}
	s.SelectedScenes = append(s.SelectedScenes, number)
	sort.Ints(s.SelectedScenes)
}

// Normalize repairs a snapshot after load: invalid steps and styles fall back
// to defaults, and any in-flight generation markers left over from an
// interrupted session return to idle.
func (s *Snapshot) Normalize() {
	if !s.ActiveStep.Valid() {
		s.ActiveStep = StepScript
	}
	if !IsValidStyle(s.SelectedStyle) {
		s.SelectedStyle = StyleDefault
	}
	for i := range s.Scenes {
		if s.Scenes[i].Gen == GenInFlight {
			s.Scenes[i].Gen = GenIdle
		}
	}
	for i := range s.CharacterProfiles {
		if s.CharacterProfiles[i].Gen == GenInFlight {
			s.CharacterProfiles[i].Gen = GenIdle
		}
	}
	sort.Ints(s.SelectedScenes)
}
