package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklist/internal/models"
)

// bindDraft reads the draft from the body. An empty body submits the
// draft already buffered in the store.
func (s *Server) bindDraft(c *gin.Context) (models.Draft, bool) {
	var d models.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return s.store.Draft(), true
		}
		s.respondError(c, http.StatusBadRequest, err)
		return models.Draft{}, false
	}
	return d, true
}

// handleListTasks returns the sorted and filtered view.
func (s *Server) handleListTasks(c *gin.Context) {
	view, err := s.store.DerivedView(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	completed, err := s.store.CompletedCount(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": view, "completed": completed})
}

// handleCreateTask adds a task from the submitted form.
func (s *Server) handleCreateTask(c *gin.Context) {
	d, ok := s.bindDraft(c)
	if !ok {
		return
	}

	task, err := s.store.Add(c.Request.Context(), d)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleGetTask fetches a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task the user already confirmed.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleToggleTask flips the done switch.
func (s *Server) handleToggleTask(c *gin.Context) {
	task, err := s.store.ToggleDone(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleBeginEdit loads a task into the form.
func (s *Server) handleBeginEdit(c *gin.Context) {
	d, err := s.store.BeginEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"draft": d, "editing_id": c.Param("id")})
}

// handleCommitEdit saves the form over the task being edited.
func (s *Server) handleCommitEdit(c *gin.Context) {
	d, ok := s.bindDraft(c)
	if !ok {
		return
	}

	task, err := s.store.CommitEdit(c.Request.Context(), d)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleCancelEdit discards the edit without saving.
func (s *Server) handleCancelEdit(c *gin.Context) {
	s.store.CancelEdit()
	respondSuccess(c, http.StatusNoContent, nil)
}
