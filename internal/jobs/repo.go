package jobs

import "context"

// Repo defines persistence operations for jobs. Implementations must make
// UpdateCandidateStatus and AddCandidateNote atomic per job: two concurrent
// mutations of the same job must both land, never a lost update.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	List(ctx context.Context) ([]Job, error)
	ListByUser(ctx context.Context, userID string) ([]Job, error)
	UpdateCandidateStatus(ctx context.Context, jobID, fileName string, status Status) (Job, error)
	AddCandidateNote(ctx context.Context, jobID, fileName, noteText string) (Job, error)
}
