package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklist/internal/models"
)

type preferencesRequest struct {
	Sort   *string `json:"sort"`
	Filter *string `json:"filter"`
}

// handleState returns everything the view renders in one response.
func (s *Server) handleState(c *gin.Context) {
	snap, err := s.store.Snapshot(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, snap)
}

// handleGetPreferences returns the active sort and filter.
func (s *Server) handleGetPreferences(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"preferences": s.store.Preferences()})
}

// handleSetPreferences changes sort direction and/or filter.
// Both values are checked before either is applied.
func (s *Server) handleSetPreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	var (
		sort   models.SortDirection
		filter models.Filter
		err    error
	)
	if req.Sort != nil {
		if sort, err = models.ParseSortDirection(*req.Sort); err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
	}
	if req.Filter != nil {
		if filter, err = models.ParseFilter(*req.Filter); err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
	}

	if req.Sort != nil {
		s.store.SetSort(sort)
	}
	if req.Filter != nil {
		s.store.SetFilter(filter)
	}
	respondSuccess(c, http.StatusOK, gin.H{"preferences": s.store.Preferences()})
}

// handleGetDraft returns the form buffer.
func (s *Server) handleGetDraft(c *gin.Context) {
	editingID, _ := s.store.Editing()
	respondSuccess(c, http.StatusOK, gin.H{"draft": s.store.Draft(), "editing_id": editingID})
}

// handleSetDraft stores the form fields as the user types.
func (s *Server) handleSetDraft(c *gin.Context) {
	var d models.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	s.store.SetDraft(d)
	respondSuccess(c, http.StatusOK, gin.H{"draft": d})
}

// handleNotification returns the transient message, empty once it expired.
func (s *Server) handleNotification(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"notification": s.store.Notification()})
}
