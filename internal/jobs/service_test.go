package jobs

import (
	"context"
	"errors"
	"testing"
)

func TestCreateJobDefaultsCandidateStatus(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	job, err := svc.CreateJob(context.Background(), "backend engineer", "u1", []Candidate{
		{FileName: "a.pdf", MatchPercentage: 80},
		{FileName: "b.pdf", MatchPercentage: 70, Status: StatusShortlisted},
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected generated job id")
	}
	if job.Candidates[0].Status != StatusApplied {
		t.Fatalf("expected default status Applied, got %q", job.Candidates[0].Status)
	}
	if job.Candidates[1].Status != StatusShortlisted {
		t.Fatalf("expected supplied status kept, got %q", job.Candidates[1].Status)
	}
	if job.CreatedAt.IsZero() || job.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps set")
	}
}

func TestCreateJobRequiresDescriptionAndUploader(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.CreateJob(context.Background(), "  ", "u1", nil); err == nil {
		t.Fatal("expected error for blank description")
	}
	if _, err := svc.CreateJob(context.Background(), "jd", "", nil); err == nil {
		t.Fatal("expected error for blank uploader")
	}
}

func TestUpdateCandidateStatusValidatesBeforeStoreAccess(t *testing.T) {
	repo := &countingRepo{Repo: NewMemoryRepo()}
	svc := NewService(repo)

	_, err := svc.UpdateCandidateStatus(context.Background(), "j1", "a.pdf", "Hired")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if repo.mutations != 0 {
		t.Fatalf("expected no store access for an invalid status, got %d calls", repo.mutations)
	}
}

func TestAddCandidateNoteRejectsBlankNote(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.AddCandidateNote(context.Background(), "j1", "a.pdf", "   "); err == nil {
		t.Fatal("expected error for blank note")
	}
}

// countingRepo counts mutation calls passing through to the wrapped repo.
type countingRepo struct {
	Repo
	mutations int
}

func (r *countingRepo) UpdateCandidateStatus(ctx context.Context, jobID, fileName string, status Status) (Job, error) {
	r.mutations++
	return r.Repo.UpdateCandidateStatus(ctx, jobID, fileName, status)
}

func (r *countingRepo) AddCandidateNote(ctx context.Context, jobID, fileName, noteText string) (Job, error) {
	r.mutations++
	return r.Repo.AddCandidateNote(ctx, jobID, fileName, noteText)
}
