package project_test

import (
	"testing"

	"storyboard/internal/project"
)

func TestRenumberScenesContiguous(t *testing.T) {
	scenes := []project.Scene{
		{SceneNumber: 4, Title: "Opening"},
		{SceneNumber: 9, Title: "Chase"},
		{SceneNumber: 2, Title: "Reveal"},
	}
	project.RenumberScenes(scenes)
	for i, scene := range scenes {
		if scene.SceneNumber != i+1 {
			t.Fatalf("scene %d: expected number %d, got %d", i, i+1, scene.SceneNumber)
		}
	}
	if scenes[0].Title != "Opening" || scenes[2].Title != "Reveal" {
		t.Fatal("expected renumbering to preserve order")
	}
}

func TestSceneMaterialized(t *testing.T) {
	scene := project.Scene{SceneNumber: 1}
	if scene.Materialized() {
		t.Fatal("scene without image should be pending")
	}
	scene.GeneratedImageURL = "data:image/png;base64,aGk="
	if !scene.Materialized() {
		t.Fatal("scene with image should be materialized")
	}
}

func TestStyleCatalog(t *testing.T) {
	styles := project.Styles()
	if len(styles) != 21 {
		t.Fatalf("expected 21 styles, got %d", len(styles))
	}
	if styles[0].ID != project.StyleDefault {
		t.Fatalf("expected Default first, got %s", styles[0].ID)
	}
	info, ok := project.StyleByID("Cyberpunk")
	if !ok || info.Label == "" {
		t.Fatalf("expected Cyberpunk in catalog, got %#v", info)
	}
	if project.IsValidStyle("Vaporwave") {
		t.Fatal("unknown style must not validate")
	}
}

func TestStepGating(t *testing.T) {
	if !project.StepScript.Valid() || !project.StepExport.Valid() {
		t.Fatal("steps 1 and 5 must be valid")
	}
	if project.Step(0).Valid() || project.Step(6).Valid() {
		t.Fatal("steps outside 1..5 must be invalid")
	}
	if project.StepScript.RequiresAnalysis() {
		t.Fatal("script entry must not require analysis")
	}
	if !project.StepImages.RequiresAnalysis() {
		t.Fatal("image production requires analysis data")
	}
}
