package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for jobs and their candidates.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateJob persists a new job with its scored candidate set. The candidate
// sequence is stored in scoring-response order and never changes length
// afterwards.
func (s *Service) CreateJob(ctx context.Context, jobDescription, uploadedBy string, candidates []Candidate) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return Job{}, errors.New("job description is required")
	}
	if strings.TrimSpace(uploadedBy) == "" {
		return Job{}, errors.New("uploadedBy is required")
	}

	now := time.Now().UTC()
	job := Job{
		ID:             uuid.NewString(),
		JobDescription: jobDescription,
		UploadedBy:     uploadedBy,
		Candidates:     make([]Candidate, len(candidates)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i, cand := range candidates {
		if cand.Status == "" {
			cand.Status = StatusApplied
		}
		job.Candidates[i] = cand
	}

	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// GetAllJobs returns every job, most recent first.
func (s *Service) GetAllJobs(ctx context.Context) ([]Job, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("jobs service not configured")
	}
	return s.Repo.List(ctx)
}

// GetJobsByUser returns the jobs uploaded by one user, most recent first.
func (s *Service) GetJobsByUser(ctx context.Context, userID string) ([]Job, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("jobs service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// GetJobByID returns a job or ErrJobNotFound.
func (s *Service) GetJobByID(ctx context.Context, jobID string) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	if strings.TrimSpace(jobID) == "" {
		return Job{}, ErrJobNotFound
	}
	return s.Repo.GetByID(ctx, jobID)
}

// UpdateCandidateStatus moves one candidate to a new pipeline status. The
// status value is validated before any store access, so a bad value can
// never partially mutate a job.
func (s *Service) UpdateCandidateStatus(ctx context.Context, jobID, fileName, rawStatus string) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return Job{}, err
	}
	return s.Repo.UpdateCandidateStatus(ctx, jobID, fileName, status)
}

// AddCandidateNote appends a timestamped note to one candidate.
func (s *Service) AddCandidateNote(ctx context.Context, jobID, fileName, noteText string) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	noteText = strings.TrimSpace(noteText)
	if noteText == "" {
		return Job{}, errors.New("note is required")
	}
	return s.Repo.AddCandidateNote(ctx, jobID, fileName, noteText)
}
