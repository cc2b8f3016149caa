package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storyboard/internal/batch"
	"storyboard/internal/export"
	"storyboard/internal/project"
	"storyboard/internal/services"
)

type scriptRequest struct {
	Script string `json:"script"`
}

type stepRequest struct {
	Step int `json:"step"`
}

type styleRequest struct {
	Style string `json:"style"`
}

type promptRequest struct {
	VisualPrompt string `json:"visualPrompt"`
}

type rangeRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type batchResult struct {
	Key   string `json:"key"`
	Error string `json:"error,omitempty"`
}

type batchResponse struct {
	Attempted   int           `json:"attempted"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Interrupted bool          `json:"interrupted"`
	Results     []batchResult `json:"results"`
}

func newBatchResponse(report batch.Report) batchResponse {
	resp := batchResponse{
		Attempted:   len(report.Results),
		Succeeded:   report.Succeeded(),
		Failed:      report.Failed(),
		Interrupted: report.Interrupted,
		Results:     make([]batchResult, 0, len(report.Results)),
	}
	for _, result := range report.Results {
		entry := batchResult{Key: result.Key}
		if result.Err != nil {
			entry.Error = services.UserMessage(result.Err)
		}
		resp.Results = append(resp.Results, entry)
	}
	return resp
}

func (s *Server) getProject(c *gin.Context) {
	s.mu.Lock()
	snap := s.controller.Snapshot()
	start, end := s.controller.ActiveRange()
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"project":    snap,
		"rangeStart": start,
		"rangeEnd":   end,
	})
}

func (s *Server) dump(c *gin.Context) {
	s.mu.Lock()
	dump, err := s.controller.Dump()
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(dump))
}

func (s *Server) reset(c *gin.Context) {
	s.mu.Lock()
	err := s.controller.Reset(c.Request.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (s *Server) setScript(c *gin.Context) {
	var req scriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, services.Wrap(services.ErrValidation, "api", "script", "invalid request body", err))
		return
	}
	s.mu.Lock()
	s.controller.SetScript(c.Request.Context(), req.Script)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) refineScript(c *gin.Context) {
	s.mu.Lock()
	err := s.controller.Refine(c.Request.Context())
	script := s.controller.Script()
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"script": script})
}

func (s *Server) analyze(c *gin.Context) {
	s.mu.Lock()
	err := s.controller.Analyze(c.Request.Context())
	snap := s.controller.Snapshot()
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scenes":     snap.Scenes,
		"characters": snap.CharacterProfiles,
	})
}

func (s *Server) setStep(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, services.Wrap(services.ErrValidation, "api", "step", "invalid request body", err))
		return
	}
	s.mu.Lock()
	err := s.controller.GoToStep(c.Request.Context(), project.Step(req.Step))
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": req.Step})
}

func (s *Server) listStyles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"styles": project.Styles()})
}

func (s *Server) setStyle(c *gin.Context) {
	var req styleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, services.Wrap(services.ErrValidation, "api", "style", "invalid request body", err))
		return
	}
	s.mu.Lock()
	err := s.controller.SetStyle(c.Request.Context(), project.VisualStyle(req.Style))
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"style": req.Style})
}

func (s *Server) listScenes(c *gin.Context) {
	s.mu.Lock()
	snap := s.controller.Snapshot()
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"scenes":         snap.Scenes,
		"selectedScenes": snap.SelectedScenes,
	})
}

func (s *Server) updatePrompt(c *gin.Context) {
	number, ok := s.sceneNumber(c)
	if !ok {
		return
	}
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, services.Wrap(services.ErrValidation, "api", "prompt", "invalid request body", err))
		return
	}
	s.mu.Lock()
	err := s.controller.UpdateVisualPrompt(c.Request.Context(), number, req.VisualPrompt)
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scene": number})
}

func (s *Server) toggleSelection(c *gin.Context) {
	number, ok := s.sceneNumber(c)
	if !ok {
		return
	}
	s.mu.Lock()
	err := s.controller.ToggleSceneSelection(c.Request.Context(), number)
	selected := s.controller.Snapshot().SelectedScenes
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedScenes": selected})
}

func (s *Server) generateScene(c *gin.Context) {
	number, ok := s.sceneNumber(c)
	if !ok {
		return
	}
	s.mu.Lock()
	err := s.controller.GenerateScene(c.Request.Context(), number)
	var scene *project.Scene
	if err == nil {
		scene = s.controller.Snapshot().SceneByNumber(number)
	}
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scene": scene})
}

func (s *Server) generateSceneRange(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, services.Wrap(services.ErrValidation, "api", "generate", "invalid request body", err))
		return
	}
	s.mu.Lock()
	report, err := s.controller.GenerateSceneRange(c.Request.Context(), req.Start, req.End)
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBatchResponse(report))
}

func (s *Server) listCharacters(c *gin.Context) {
	s.mu.Lock()
	snap := s.controller.Snapshot()
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"characters": snap.CharacterProfiles})
}

func (s *Server) generateCharacter(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	err := s.controller.GenerateCharacter(c.Request.Context(), id)
	var profile *project.CharacterProfile
	if err == nil {
		profile = s.controller.Snapshot().CharacterByID(id)
	}
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"character": profile})
}

func (s *Server) generateAllCharacters(c *gin.Context) {
	s.mu.Lock()
	report := s.controller.GenerateAllCharacters(c.Request.Context())
	s.mu.Unlock()
	c.JSON(http.StatusOK, newBatchResponse(report))
}

func (s *Server) exportScript(c *gin.Context) {
	s.mu.Lock()
	script := s.controller.Script()
	s.mu.Unlock()
	archive, err := export.Script(script, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.sendArchive(c, archive)
}

func (s *Server) exportCharacters(c *gin.Context) {
	s.mu.Lock()
	snap := s.controller.Snapshot()
	s.mu.Unlock()
	archive, err := export.PackageCharacters(snap.CharacterProfiles, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.sendArchive(c, archive)
}

func (s *Server) exportScenes(c *gin.Context) {
	s.mu.Lock()
	snap := s.controller.Snapshot()
	start, end := s.controller.ActiveRange()
	s.mu.Unlock()

	var err error
	if raw := c.Query("start"); raw != "" {
		if start, err = strconv.Atoi(raw); err != nil {
			s.writeError(c, services.Wrap(services.ErrValidation, "api", "export", "start must be an integer", err))
			return
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err = strconv.Atoi(raw); err != nil {
			s.writeError(c, services.Wrap(services.ErrValidation, "api", "export", "end must be an integer", err))
			return
		}
	}

	archive, err := export.PackageSceneRange(snap.Scenes, start, end, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.sendArchive(c, archive)
}

func (s *Server) sendArchive(c *gin.Context, archive export.Archive) {
	c.Header("Content-Disposition", `attachment; filename="`+archive.Filename+`"`)
	c.Data(http.StatusOK, archive.MIME, archive.Data)
}

func (s *Server) sceneNumber(c *gin.Context) (int, bool) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		s.writeError(c, services.Wrap(services.ErrValidation, "api", "scene",
			"scene number must be an integer", err))
		return 0, false
	}
	return number, true
}
