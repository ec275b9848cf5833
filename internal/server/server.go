package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklist/internal/tasks"
)

// Server exposes the task store to the browser view over HTTP.
type Server struct {
	engine    *gin.Engine
	store     *tasks.Store
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *tasks.Store, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:    router,
		store:     store,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/state", s.handleState)

		taskRoutes := api.Group("/tasks")
		{
			taskRoutes.GET("", s.handleListTasks)
			taskRoutes.POST("", s.handleCreateTask)
			taskRoutes.GET(":id", s.handleGetTask)
			taskRoutes.DELETE(":id", s.handleDeleteTask)
			taskRoutes.POST(":id/toggle", s.handleToggleTask)
			taskRoutes.POST(":id/edit", s.handleBeginEdit)
		}

		api.PUT("/edit", s.handleCommitEdit)
		api.DELETE("/edit", s.handleCancelEdit)

		api.GET("/draft", s.handleGetDraft)
		api.PUT("/draft", s.handleSetDraft)

		api.GET("/preferences", s.handleGetPreferences)
		api.PUT("/preferences", s.handleSetPreferences)

		api.GET("/notification", s.handleNotification)
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps store errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tasks.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tasks.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tasks.ErrNotEditing):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("request rejected", slog.String("path", c.FullPath()), slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondStoreError picks the status from the error kind.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	s.respondError(c, statusFor(err), err)
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
