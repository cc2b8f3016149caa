package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"storyboard/internal/logging"
	"storyboard/internal/project"
	"storyboard/internal/services"
)

type fakeGateway struct {
	refined        string
	refineErr      error
	scenes         []project.Scene
	profiles       []project.CharacterProfile
	analyzeErr     error
	imageErr       error
	characterCalls []string
	sceneCalls     []string
}

func (g *fakeGateway) RefineScript(ctx context.Context, script string) (string, error) {
	if g.refineErr != nil {
		return "", g.refineErr
	}
	if g.refined != "" {
		return g.refined, nil
	}
	return "refined: " + script, nil
}

func (g *fakeGateway) AnalyzeScript(ctx context.Context, script string) ([]project.Scene, []project.CharacterProfile, error) {
	if g.analyzeErr != nil {
		return nil, nil, g.analyzeErr
	}
	scenes := make([]project.Scene, len(g.scenes))
	copy(scenes, g.scenes)
	profiles := make([]project.CharacterProfile, len(g.profiles))
	copy(profiles, g.profiles)
	return scenes, profiles, nil
}

func (g *fakeGateway) GenerateCharacterImage(ctx context.Context, profile project.CharacterProfile, style project.VisualStyle) (string, error) {
	g.characterCalls = append(g.characterCalls, profile.ID)
	if g.imageErr != nil {
		return "", g.imageErr
	}
	return "data:image/png;base64,Y2hhcg==", nil
}

func (g *fakeGateway) GenerateSceneImage(ctx context.Context, visualPrompt string, style project.VisualStyle, profiles []project.CharacterProfile) (string, error) {
	g.sceneCalls = append(g.sceneCalls, visualPrompt)
	if g.imageErr != nil {
		return "", g.imageErr
	}
	return "data:image/png;base64,c2NlbmU=", nil
}

type memoryStore struct {
	snapshots map[string]*project.Snapshot
	loadErr   error
	saveErr   error
	clearErr  error
	saves     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snapshots: make(map[string]*project.Snapshot)}
}

func (s *memoryStore) Load(ctx context.Context, projectID string) (*project.Snapshot, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	snap, ok := s.snapshots[projectID]
	if !ok {
		return nil, nil
	}
	cp := snap.Clone()
	cp.Normalize()
	return cp, nil
}

func (s *memoryStore) Save(ctx context.Context, projectID string, snap *project.Snapshot) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshots[projectID] = snap.Clone()
	return nil
}

func (s *memoryStore) Clear(ctx context.Context, projectID string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	delete(s.snapshots, projectID)
	return nil
}

func testScenes(count int) []project.Scene {
	scenes := make([]project.Scene, count)
	for i := range scenes {
		scenes[i] = project.Scene{
			SceneNumber:  i + 1,
			Title:        fmt.Sprintf("Scene %d", i+1),
			VisualPrompt: fmt.Sprintf("prompt %d", i+1),
		}
	}
	return scenes
}

func newTestController(t *testing.T, gw *fakeGateway, st Store) *Controller {
	t.Helper()
	if st == nil {
		st = newMemoryStore()
	}
	return Load(context.Background(), project.DefaultProjectID, st, gw, logging.NewNop())
}

func analyzed(t *testing.T, gw *fakeGateway, st Store) *Controller {
	t.Helper()
	c := newTestController(t, gw, st)
	c.SetScript(context.Background(), "a story")
	if err := c.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return c
}

func TestAnalyzeResetsSelectionAndRange(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(4)}
	c := analyzed(t, gw, nil)

	snap := c.Snapshot()
	if snap.ActiveStep != project.StepScenes {
		t.Errorf("active step = %d, want %d", snap.ActiveStep, project.StepScenes)
	}
	if len(snap.SelectedScenes) != 4 {
		t.Fatalf("selected scenes = %v, want all 4", snap.SelectedScenes)
	}
	start, end := c.ActiveRange()
	if start != 1 || end != 4 {
		t.Errorf("active range = [%d, %d], want [1, 4]", start, end)
	}

	// A second analysis discards the prior selection entirely.
	if err := c.ToggleSceneSelection(context.Background(), 2); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	gw.scenes = testScenes(2)
	if err := c.Analyze(context.Background()); err != nil {
		t.Fatalf("re-analyze: %v", err)
	}
	snap = c.Snapshot()
	if len(snap.SelectedScenes) != 2 || snap.SelectedScenes[0] != 1 || snap.SelectedScenes[1] != 2 {
		t.Errorf("selection after re-analyze = %v, want [1 2]", snap.SelectedScenes)
	}
}

func TestAnalyzeRequiresScript(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(1)}
	c := newTestController(t, gw, nil)
	err := c.Analyze(context.Background())
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error for empty script, got %v", err)
	}
}

func TestRefineReplacesScript(t *testing.T) {
	gw := &fakeGateway{refined: "clean take"}
	c := newTestController(t, gw, nil)
	c.SetScript(context.Background(), "raw take")
	if err := c.Refine(context.Background()); err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if got := c.Script(); got != "clean take" {
		t.Errorf("script = %q, want %q", got, "clean take")
	}
	if !c.Snapshot().IsRefined {
		t.Error("IsRefined not set after refinement")
	}
}

func TestGoToStepGating(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(1)}
	c := newTestController(t, gw, nil)

	err := c.GoToStep(context.Background(), project.StepScenes)
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected gating error before analysis, got %v", err)
	}
	if err := c.GoToStep(context.Background(), project.Step(9)); !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error for unknown step, got %v", err)
	}

	c.SetScript(context.Background(), "a story")
	if err := c.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if err := c.GoToStep(context.Background(), project.StepExport); err != nil {
		t.Errorf("export step after analysis: %v", err)
	}
}

func TestSetRangeRejectsInvertedBeforeAnyCall(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(5)}
	c := analyzed(t, gw, nil)

	_, err := c.GenerateSceneRange(context.Background(), 3, 2)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gw.sceneCalls) != 0 {
		t.Errorf("backend called %d times for an invalid range", len(gw.sceneCalls))
	}
	if start, end := c.ActiveRange(); start != 1 || end != 5 {
		t.Errorf("active range changed to [%d, %d] on invalid input", start, end)
	}
}

func TestGenerateSceneRangeSkipsMaterialized(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(5)}
	c := analyzed(t, gw, nil)
	c.snap.SceneByNumber(1).GeneratedImageURL = "data:image/png;base64,QQ=="
	c.snap.SceneByNumber(3).GeneratedImageURL = "data:image/png;base64,QQ=="

	report, err := c.GenerateSceneRange(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("GenerateSceneRange failed: %v", err)
	}
	want := []string{"prompt 2", "prompt 4", "prompt 5"}
	if len(gw.sceneCalls) != len(want) {
		t.Fatalf("dispatched %v, want %v", gw.sceneCalls, want)
	}
	for i, prompt := range want {
		if gw.sceneCalls[i] != prompt {
			t.Errorf("dispatch %d = %q, want %q", i, gw.sceneCalls[i], prompt)
		}
	}
	if report.Succeeded() != 3 || report.Failed() != 0 {
		t.Errorf("report succeeded=%d failed=%d, want 3/0", report.Succeeded(), report.Failed())
	}
}

func TestGenerateSceneRangeNothingToDo(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(3)}
	c := analyzed(t, gw, nil)
	for n := 1; n <= 3; n++ {
		c.snap.SceneByNumber(n).GeneratedImageURL = "data:image/png;base64,QQ=="
	}
	_, err := c.GenerateSceneRange(context.Background(), 1, 3)
	if !errors.Is(err, services.ErrNothingToDo) {
		t.Errorf("expected nothing-to-do, got %v", err)
	}
	if len(gw.sceneCalls) != 0 {
		t.Errorf("backend called for a fully materialized range")
	}
}

func TestGenerateSceneRangeIsolatesFailures(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(3)}
	c := analyzed(t, gw, nil)
	gw.imageErr = errors.New("model unavailable")

	report, err := c.GenerateSceneRange(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("GenerateSceneRange failed: %v", err)
	}
	if len(report.Results) != 3 {
		t.Fatalf("attempted %d items, want 3; one failure must not abort the batch", len(report.Results))
	}
	if report.Failed() != 3 {
		t.Errorf("failed = %d, want 3", report.Failed())
	}
	for n := 1; n <= 3; n++ {
		scene := c.snap.SceneByNumber(n)
		if scene.Gen == project.GenInFlight {
			t.Errorf("scene %d stuck in-flight after failure", n)
		}
		if scene.Gen != project.GenFailed {
			t.Errorf("scene %d gen state = %q, want failed", n, scene.Gen)
		}
		if scene.Error == "" {
			t.Errorf("scene %d missing error message", n)
		}
		if strings.Contains(scene.Error, "model unavailable") {
			t.Errorf("scene %d error leaks backend detail: %q", n, scene.Error)
		}
	}
}

func TestGenerateSceneClearsPriorError(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(1)}
	c := analyzed(t, gw, nil)

	gw.imageErr = errors.New("quota")
	if err := c.GenerateScene(context.Background(), 1); err == nil {
		t.Fatal("expected failure")
	}
	gw.imageErr = nil
	if err := c.GenerateScene(context.Background(), 1); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	scene := c.snap.SceneByNumber(1)
	if scene.Error != "" {
		t.Errorf("error not cleared after success: %q", scene.Error)
	}
	if scene.Gen != project.GenDone {
		t.Errorf("gen state = %q, want done", scene.Gen)
	}
	if scene.GeneratedImageURL == "" {
		t.Error("image url empty after success")
	}
}

func TestGenerateSceneUnknownNumber(t *testing.T) {
	gw := &fakeGateway{scenes: testScenes(2)}
	c := analyzed(t, gw, nil)
	err := c.GenerateScene(context.Background(), 9)
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestGenerateAllCharactersSkipsMaterialized(t *testing.T) {
	gw := &fakeGateway{
		scenes: testScenes(1),
		profiles: []project.CharacterProfile{
			{ID: "c1", Name: "Mina", ImageURL: "data:image/png;base64,QQ=="},
			{ID: "c2", Name: "Jun"},
			{ID: "c3", Name: "Hae-won"},
		},
	}
	c := analyzed(t, gw, nil)

	report := c.GenerateAllCharacters(context.Background())
	if len(gw.characterCalls) != 2 || gw.characterCalls[0] != "c2" || gw.characterCalls[1] != "c3" {
		t.Errorf("dispatched %v, want [c2 c3]", gw.characterCalls)
	}
	if report.Succeeded() != 2 {
		t.Errorf("succeeded = %d, want 2", report.Succeeded())
	}
	for _, id := range []string{"c2", "c3"} {
		profile := c.snap.CharacterByID(id)
		if !profile.Materialized() || profile.Gen != project.GenDone {
			t.Errorf("profile %s not materialized after batch", id)
		}
	}
}

func TestGenerateCharacterFailureReleasesMarker(t *testing.T) {
	gw := &fakeGateway{
		scenes:   testScenes(1),
		profiles: []project.CharacterProfile{{ID: "c1", Name: "Mina"}},
	}
	c := analyzed(t, gw, nil)
	gw.imageErr = errors.New("blocked")

	if err := c.GenerateCharacter(context.Background(), "c1"); err == nil {
		t.Fatal("expected failure")
	}
	profile := c.snap.CharacterByID("c1")
	if profile.Gen != project.GenFailed {
		t.Errorf("gen state = %q, want failed", profile.Gen)
	}
	if profile.IsGenerating() {
		t.Error("profile stuck in-flight after failure")
	}
}

func TestSaveFailureDoesNotBlockOperations(t *testing.T) {
	st := newMemoryStore()
	st.saveErr = errors.New("disk full")
	gw := &fakeGateway{scenes: testScenes(2)}
	c := newTestController(t, gw, st)

	c.SetScript(context.Background(), "a story")
	if err := c.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze should tolerate save failure: %v", err)
	}
	if len(c.Snapshot().Scenes) != 2 {
		t.Error("in-memory state lost on save failure")
	}
}

func TestResetClearsStoreAndState(t *testing.T) {
	st := newMemoryStore()
	gw := &fakeGateway{scenes: testScenes(2)}
	c := analyzed(t, gw, st)

	if err := c.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, ok := st.snapshots[project.DefaultProjectID]; ok {
		t.Error("snapshot survived reset")
	}
	snap := c.Snapshot()
	if snap.Script != "" || len(snap.Scenes) != 0 || snap.ActiveStep != project.StepScript {
		t.Errorf("state not fresh after reset: %+v", snap)
	}
}

func TestResetClearFailureIsSurfaced(t *testing.T) {
	st := newMemoryStore()
	gw := &fakeGateway{scenes: testScenes(2)}
	c := analyzed(t, gw, st)
	st.clearErr = errors.New("locked")

	err := c.Reset(context.Background())
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected surfaced clear failure, got %v", err)
	}
	if len(c.Snapshot().Scenes) != 2 {
		t.Error("in-memory state wiped despite failed clear")
	}

	// Routine saves resume after the failed reset.
	st.clearErr = nil
	before := st.saves
	c.SetScript(context.Background(), "still here")
	if st.saves != before+1 {
		t.Error("saves suppressed after failed reset")
	}
}

func TestLoadFailureStartsFresh(t *testing.T) {
	st := newMemoryStore()
	st.loadErr = errors.New("corrupt")
	gw := &fakeGateway{}
	c := newTestController(t, gw, st)
	snap := c.Snapshot()
	if snap.ActiveStep != project.StepScript || snap.Script != "" {
		t.Errorf("expected fresh project on load failure, got %+v", snap)
	}
}

func TestLoadRestoresPersistedState(t *testing.T) {
	st := newMemoryStore()
	gw := &fakeGateway{scenes: testScenes(3)}
	first := analyzed(t, gw, st)
	if err := first.SetStyle(context.Background(), "Cyberpunk"); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}

	second := newTestController(t, gw, st)
	snap := second.Snapshot()
	if len(snap.Scenes) != 3 {
		t.Errorf("scenes = %d, want 3", len(snap.Scenes))
	}
	if snap.SelectedStyle != "Cyberpunk" {
		t.Errorf("style = %q, want Cyberpunk", snap.SelectedStyle)
	}
	if start, end := second.ActiveRange(); start != 1 || end != 3 {
		t.Errorf("range = [%d, %d], want [1, 3]", start, end)
	}
}
