package shortlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-shortlister/internal/jobs"
	"resume-shortlister/internal/scoring"
	"resume-shortlister/internal/shared/telemetry"
	"resume-shortlister/internal/users"
)

// File is one uploaded resume already written to local disk. StoredName is
// the on-disk base name the scorer reports back as the candidate fileName;
// Path is the absolute path handed to the scoring worker.
type File struct {
	StoredName   string
	OriginalName string
	Path         string
}

// Result is the outcome of one shortlist request.
type Result struct {
	JobID      string           `json:"jobId"`
	Candidates []jobs.Candidate `json:"candidates"`
}

// Service coordinates one shortlist run: validate the request, score the
// batch, then persist the job. A failed scoring run persists nothing.
type Service struct {
	Jobs    *jobs.Service
	Gateway scoring.Gateway
}

func NewService(jobsSvc *jobs.Service, gateway scoring.Gateway) *Service {
	return &Service{Jobs: jobsSvc, Gateway: gateway}
}

// QuotaFor returns how many resumes one request may carry for a role.
func QuotaFor(role string) int {
	if role == users.RoleStudent {
		return 1
	}
	return 10
}

// Shortlist runs the full pipeline for one request. Validation failures are
// reported in a fixed order: missing files, then missing description, then
// quota, so a request failing several checks always gets the same answer.
func (s *Service) Shortlist(ctx context.Context, userID, role, jobDescription string, files []File) (*Result, error) {
	if s == nil || s.Jobs == nil || s.Gateway == nil {
		return nil, errors.New("shortlist service not configured")
	}
	if len(files) == 0 {
		return nil, ErrNoResumes
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrNoJobDescription
	}
	if limit := QuotaFor(role); len(files) > limit {
		return nil, fmt.Errorf("%w: at most %d per request, got %d", ErrQuotaExceeded, limit, len(files))
	}

	paths := make([]string, len(files))
	byStoredName := make(map[string]File, len(files))
	for i, f := range files {
		paths[i] = f.Path
		byStoredName[f.StoredName] = f
	}

	candidates, err := s.Gateway.Score(ctx, jobDescription, paths)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if f, ok := byStoredName[candidates[i].FileName]; ok {
			candidates[i].OriginalName = f.OriginalName
		}
	}
	if len(candidates) < len(files) {
		telemetry.Warn("scorer returned fewer candidates than files", map[string]any{
			"files":      len(files),
			"candidates": len(candidates),
		})
	}

	job, err := s.Jobs.CreateJob(ctx, jobDescription, userID, candidates)
	if err != nil {
		return nil, &PersistFailedError{Err: err}
	}
	return &Result{JobID: job.ID, Candidates: job.Candidates}, nil
}
