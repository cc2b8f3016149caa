// Package api exposes the workflow over HTTP for local frontends. The server
// serializes all access to the controller; handlers stay thin and translate
// classified errors to status codes.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"storyboard/internal/logging"
	"storyboard/internal/services"
	"storyboard/internal/workflow"
)

// Server hosts the project API. The controller is single-writer, so every
// handler holds the mutex for the duration of its operation.
type Server struct {
	mu         sync.Mutex
	controller *workflow.Controller
	logger     *slog.Logger
	now        func() time.Time
}

// NewServer wraps a controller for HTTP access.
func NewServer(controller *workflow.Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		controller: controller,
		logger:     logger,
		now:        time.Now,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/project", s.getProject)
		api.GET("/dump", s.dump)
		api.POST("/reset", s.reset)

		api.PUT("/script", s.setScript)
		api.POST("/script/refine", s.refineScript)
		api.POST("/analyze", s.analyze)

		api.PUT("/step", s.setStep)

		api.GET("/styles", s.listStyles)
		api.PUT("/style", s.setStyle)

		scenes := api.Group("/scenes")
		{
			scenes.GET("", s.listScenes)
			scenes.PUT("/:number/prompt", s.updatePrompt)
			scenes.POST("/:number/selection", s.toggleSelection)
			scenes.POST("/:number/generate", s.generateScene)
			scenes.POST("/generate", s.generateSceneRange)
		}

		characters := api.Group("/characters")
		{
			characters.GET("", s.listCharacters)
			characters.POST("/:id/generate", s.generateCharacter)
			characters.POST("/generate", s.generateAllCharacters)
		}

		export := api.Group("/export")
		{
			export.GET("/script", s.exportScript)
			export.GET("/characters", s.exportCharacters)
			export.GET("/scenes", s.exportScenes)
		}
	}

	return r
}

// Run serves the API on the bind address until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("api listening", logging.String("addr", addr))
	return s.Router().Run(addr)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)))
	}
}

// writeError maps classified errors to HTTP status codes. The body carries
// the user-safe message only; handler logs keep the full error.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrNothingToDo):
		status = http.StatusConflict
	case errors.Is(err, services.ErrConfiguration):
		status = http.StatusServiceUnavailable
	case errors.Is(err, services.ErrExternal):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			logging.String("path", c.Request.URL.Path), logging.Error(err))
	}
	c.JSON(status, gin.H{"error": services.UserMessage(err)})
}
