package shortlist

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-shortlister/internal/extract"
	"resume-shortlister/internal/scoring"
	"resume-shortlister/internal/shared/server/middleware"
	"resume-shortlister/internal/shared/server/respond"
	"resume-shortlister/internal/shared/storage/object"
	"resume-shortlister/internal/shared/telemetry"
)

const (
	// maxFileBytes caps one uploaded resume.
	maxFileBytes = 10 << 20
	// maxRequestBytes caps the whole multipart body.
	maxRequestBytes = 120 << 20
)

// FileStore is the subset of storage the shortlist handler needs: save an
// upload and resolve its key to an absolute path for the scoring worker.
type FileStore interface {
	object.ObjectStore
	object.PathResolver
}

type Handler struct {
	Svc   *Service
	Store FileStore
}

func NewHandler(svc *Service, store FileStore) *Handler {
	return &Handler{Svc: svc, Store: store}
}

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/shortlist", h.create)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return
	}
	role := middleware.UserRoleFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)
	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}

	headers := form.File["resumes"]
	jobDescription := c.PostForm("jobDescription")

	// Same precondition order as the service, checked here before any file
	// touches disk.
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No resumes uploaded", nil)
		return
	}
	if jobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Job description is required", nil)
		return
	}
	if limit := QuotaFor(role); len(headers) > limit {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			"Too many files: at most "+strconv.Itoa(limit)+" per request", nil)
		return
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxFileBytes {
			respond.Error(c, http.StatusBadRequest, "validation_error", fh.Filename+" exceeds the size limit", nil)
			return
		}
		src, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read "+fh.Filename, nil)
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read "+fh.Filename, nil)
			return
		}

		if err := extract.CheckPDF(fh.Filename, data); err != nil {
			if errors.Is(err, extract.ErrNotPDF) {
				respond.Error(c, http.StatusBadRequest, "validation_error", fh.Filename+" is not a PDF file", nil)
				return
			}
			// Scanned or image-only PDFs still go to the scorer.
			telemetry.Warn("resume has no extractable text", map[string]any{
				"fileName": fh.Filename,
				"user_id":  userID,
			})
		}

		storageKey, _, _, err := h.Store.Save(c.Request.Context(), userID, fh.Filename, bytes.NewReader(data))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store "+fh.Filename, nil)
			return
		}
		absPath, err := h.Store.AbsolutePath(storageKey)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve "+fh.Filename, nil)
			return
		}
		files = append(files, File{
			StoredName:   filepath.Base(storageKey),
			OriginalName: fh.Filename,
			Path:         absPath,
		})
	}

	result, err := h.Svc.Shortlist(c.Request.Context(), userID, role, jobDescription, files)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Set("jobId", result.JobID)
	respond.Created(c, gin.H{"success": true, "data": result})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoResumes):
		respond.Error(c, http.StatusBadRequest, "validation_error", "No resumes uploaded", nil)
	case errors.Is(err, ErrNoJobDescription):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Job description is required", nil)
	case errors.Is(err, ErrQuotaExceeded):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, scoring.ErrTimeout):
		respond.Error(c, http.StatusGatewayTimeout, "scoring_timeout", "Scoring timed out", nil)
	default:
		var procErr *scoring.ProcessError
		if errors.As(err, &procErr) {
			telemetry.Error("scoring process failed", map[string]any{
				"exit_code": procErr.ExitCode,
				"stderr":    procErr.Stderr,
			})
			respond.Error(c, http.StatusBadGateway, "scoring_failed", "Scoring process failed",
				gin.H{"exitCode": procErr.ExitCode})
			return
		}
		var respErr *scoring.InvalidResponseError
		if errors.As(err, &respErr) {
			telemetry.Error("scoring returned invalid output", map[string]any{
				"sample": respErr.Sample,
			})
			respond.Error(c, http.StatusBadGateway, "scoring_invalid_response", "Scoring returned an invalid response",
				gin.H{"sample": respErr.Sample})
			return
		}
		var persistErr *PersistFailedError
		if errors.As(err, &persistErr) {
			telemetry.Error("shortlist persist failed", map[string]any{
				"error": persistErr.Err.Error(),
			})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to save shortlist result", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Shortlist request failed", nil)
	}
}
