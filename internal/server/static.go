package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the built task list view from the configured directory.
// Unknown non-API paths fall back to index.html so client routes resolve.
func (s *Server) mountStatic() {
	s.engine.NoRoute(s.handleNotFound)

	if s.staticDir == "" {
		s.logger.Warn("static directory not configured; API only mode")
		return
	}

	info, err := os.Stat(s.staticDir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing", "path", s.staticDir, "error", err)
		return
	}

	indexPath := filepath.Join(s.staticDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		s.logger.Warn("index.html not found", "path", indexPath, "error", err)
	} else {
		s.engine.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})
		s.engine.NoRoute(func(c *gin.Context) {
			if isAPIPath(c) {
				s.handleNotFound(c)
				return
			}
			c.File(indexPath)
		})
	}

	for _, dir := range []string{"assets", "static"} {
		full := filepath.Join(s.staticDir, dir)
		if fi, err := os.Stat(full); err == nil && fi.IsDir() {
			s.engine.StaticFS("/"+dir, gin.Dir(full, false))
		}
	}

	favicon := filepath.Join(s.staticDir, "favicon.ico")
	if _, err := os.Stat(favicon); err == nil {
		s.engine.StaticFile("/favicon.ico", favicon)
	}
}

func (s *Server) handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
}

func isAPIPath(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
