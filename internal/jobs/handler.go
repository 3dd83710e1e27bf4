package jobs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-shortlister/internal/shared/server/middleware"
	"resume-shortlister/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.PATCH("/jobs/:id/candidates/:fileName/status", h.updateStatus)
	rg.POST("/jobs/:id/candidates/:fileName/notes", h.addNote)
}

func (h *Handler) list(c *gin.Context) {
	var (
		list []Job
		err  error
	)
	if c.Query("mine") == "true" {
		list, err = h.Svc.GetJobsByUser(c.Request.Context(), middleware.UserIDFromContext(c))
	} else {
		list, err = h.Svc.GetAllJobs(c.Request.Context())
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load jobs", nil)
		return
	}
	if list == nil {
		list = []Job{}
	}
	respond.OK(c, gin.H{"success": true, "data": list})
}

func (h *Handler) get(c *gin.Context) {
	jobID := c.Param("id")
	c.Set("jobId", jobID)

	job, err := h.Svc.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Job not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load job", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": job})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	jobID := c.Param("id")
	fileName := c.Param("fileName")
	c.Set("jobId", jobID)
	c.Set("candidateFileName", fileName)

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Status is required", nil)
		return
	}

	job, err := h.Svc.UpdateCandidateStatus(c.Request.Context(), jobID, fileName, req.Status)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": job})
}

type addNoteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) addNote(c *gin.Context) {
	jobID := c.Param("id")
	fileName := c.Param("fileName")
	c.Set("jobId", jobID)
	c.Set("candidateFileName", fileName)

	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Note == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Note is required", nil)
		return
	}

	job, err := h.Svc.AddCandidateNote(c.Request.Context(), jobID, fileName, req.Note)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": job})
}

func (h *Handler) writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		msg := fmt.Sprintf("Invalid status. Must be one of: %v", Statuses())
		respond.Error(c, http.StatusBadRequest, "validation_error", msg, nil)
	case errors.Is(err, ErrJobNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Job not found", nil)
	case errors.Is(err, ErrCandidateNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Candidate not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update candidate", nil)
	}
}
