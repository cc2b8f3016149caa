package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storyboard/internal/logging"
	"storyboard/internal/project"
	"storyboard/internal/workflow"
)

type stubGateway struct {
	scenes   []project.Scene
	profiles []project.CharacterProfile
	imageErr error
}

func (g *stubGateway) RefineScript(ctx context.Context, script string) (string, error) {
	return "refined: " + script, nil
}

func (g *stubGateway) AnalyzeScript(ctx context.Context, script string) ([]project.Scene, []project.CharacterProfile, error) {
	return g.scenes, g.profiles, nil
}

func (g *stubGateway) GenerateCharacterImage(ctx context.Context, profile project.CharacterProfile, style project.VisualStyle) (string, error) {
	if g.imageErr != nil {
		return "", g.imageErr
	}
	return testImageURI(), nil
}

func (g *stubGateway) GenerateSceneImage(ctx context.Context, visualPrompt string, style project.VisualStyle, profiles []project.CharacterProfile) (string, error) {
	if g.imageErr != nil {
		return "", g.imageErr
	}
	return testImageURI(), nil
}

type stubStore struct {
	snap *project.Snapshot
}

func (s *stubStore) Load(ctx context.Context, projectID string) (*project.Snapshot, error) {
	return s.snap, nil
}

func (s *stubStore) Save(ctx context.Context, projectID string, snap *project.Snapshot) error {
	s.snap = snap.Clone()
	return nil
}

func (s *stubStore) Clear(ctx context.Context, projectID string) error {
	s.snap = nil
	return nil
}

func testImageURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("pixels"))
}

func newTestServer(t *testing.T, gw *stubGateway) (*Server, *gin.Engine) {
	t.Helper()
	controller := workflow.Load(context.Background(), project.DefaultProjectID,
		&stubStore{}, gw, logging.NewNop())
	server := NewServer(controller, logging.NewNop())
	server.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return server, server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func analyzeProject(t *testing.T, router *gin.Engine) {
	t.Helper()
	if rec := doJSON(t, router, http.MethodPut, "/api/script", map[string]string{"script": "a story"}); rec.Code != http.StatusOK {
		t.Fatalf("set script: %d %s", rec.Code, rec.Body)
	}
	if rec := doJSON(t, router, http.MethodPost, "/api/analyze", nil); rec.Code != http.StatusOK {
		t.Fatalf("analyze: %d %s", rec.Code, rec.Body)
	}
}

func stubScenes(count int) []project.Scene {
	scenes := make([]project.Scene, count)
	for i := range scenes {
		scenes[i] = project.Scene{SceneNumber: i + 1, VisualPrompt: fmt.Sprintf("prompt %d", i+1)}
	}
	return scenes
}

func TestHealthz(t *testing.T) {
	_, router := newTestServer(t, &stubGateway{})
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
}

func TestScriptLifecycle(t *testing.T) {
	_, router := newTestServer(t, &stubGateway{scenes: stubScenes(2)})

	rec := doJSON(t, router, http.MethodPut, "/api/script", map[string]string{"script": "draft"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set script = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/script/refine", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refine = %d %s", rec.Code, rec.Body)
	}
	var refined struct {
		Script string `json:"script"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &refined); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if refined.Script != "refined: draft" {
		t.Errorf("script = %q", refined.Script)
	}
}

func TestRefineEmptyScriptRejected(t *testing.T) {
	_, router := newTestServer(t, &stubGateway{})
	rec := doJSON(t, router, http.MethodPost, "/api/script/refine", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("refine empty = %d, want 400", rec.Code)
	}
}

func TestAnalyzeReturnsScenes(t *testing.T) {
	_, router := newTestServer(t, &stubGateway{
		scenes:   stubScenes(3),
		profiles: []project.CharacterProfile{{ID: "c1", Name: "Mina"}},
	})
	analyzeProject(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/scenes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list scenes = %d", rec.Code)
	}
	var payload struct {
		Scenes         []project.Scene `json:"scenes"`
		SelectedScenes []int           `json:"selectedScenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Scenes) != 3 || len(payload.SelectedScenes) != 3 {
		t.Errorf("scenes=%d selected=%d, want 3/3", len(payload.Scenes), len(payload.SelectedScenes))
	}
}

func TestGenerateRangeStatusCodes(t *testing.T) {
	gw := &stubGateway{scenes: stubScenes(2)}
	_, router := newTestServer(t, gw)
	analyzeProject(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/scenes/generate", map[string]int{"start": 3, "end": 2})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("inverted range = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/scenes/generate", map[string]int{"start": 1, "end": 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("generate = %d %s", rec.Code, rec.Body)
	}
	var report batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Attempted != 2 || report.Succeeded != 2 {
		t.Errorf("report = %+v, want 2 attempted, 2 succeeded", report)
	}

	// Everything in range is now materialized; repeating is a no-op.
	rec = doJSON(t, router, http.MethodPost, "/api/scenes/generate", map[string]int{"start": 1, "end": 2})
	if rec.Code != http.StatusConflict {
		t.Errorf("repeat = %d, want 409", rec.Code)
	}
}

func TestGenerateSceneFailureMapsToBadGateway(t *testing.T) {
	gw := &stubGateway{scenes: stubScenes(1)}
	_, router := newTestServer(t, gw)
	analyzeProject(t, router)
	gw.imageErr = errors.New("model down")

	rec := doJSON(t, router, http.MethodPost, "/api/scenes/1/generate", nil)
	if rec.Code != http.StatusInternalServerError && rec.Code != http.StatusBadGateway {
		t.Errorf("failure = %d, want 5xx", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("model down")) {
		t.Errorf("response leaks backend detail: %s", rec.Body)
	}
}

func TestUnknownSceneIsNotFound(t *testing.T) {
	_, router := newTestServer(t, &stubGateway{scenes: stubScenes(1)})
	analyzeProject(t, router)
	rec := doJSON(t, router, http.MethodPost, "/api/scenes/9/generate", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown scene = %d, want 404", rec.Code)
	}
}

func TestSetStyleValidation(t *testing.T) {
	_, router := newTestServer(t, &stubGateway{})
	rec := doJSON(t, router, http.MethodPut, "/api/style", map[string]string{"style": "NotAStyle"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad style = %d, want 400", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPut, "/api/style", map[string]string{"style": "Cyberpunk"})
	if rec.Code != http.StatusOK {
		t.Errorf("valid style = %d, want 200", rec.Code)
	}
}

func TestExportScenesAttachment(t *testing.T) {
	gw := &stubGateway{scenes: stubScenes(2)}
	_, router := newTestServer(t, gw)
	analyzeProject(t, router)
	if rec := doJSON(t, router, http.MethodPost, "/api/scenes/generate", map[string]int{"start": 1, "end": 2}); rec.Code != http.StatusOK {
		t.Fatalf("generate: %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/export/scenes?start=1&end=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d %s", rec.Code, rec.Body)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if disposition != `attachment; filename="storyboard_images_1_2.zip"` {
		t.Errorf("disposition = %q", disposition)
	}
	if rec.Header().Get("Content-Type") != "application/zip" {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestExportCharactersEmptyIsConflict(t *testing.T) {
	_, router := newTestServer(t, &stubGateway{})
	rec := doJSON(t, router, http.MethodGet, "/api/export/characters", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("empty export = %d, want 409", rec.Code)
	}
}

func TestResetEndpoint(t *testing.T) {
	_, router := newTestServer(t, &stubGateway{scenes: stubScenes(1)})
	analyzeProject(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/project", nil)
	var payload struct {
		Project project.Snapshot `json:"project"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Project.Scenes) != 0 || payload.Project.Script != "" {
		t.Errorf("project not fresh after reset")
	}
}
