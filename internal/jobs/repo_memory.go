package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the dev/test fallback store. A single mutex serializes all
// mutations, which trivially satisfies the per-job atomicity contract.
type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Job)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job.clone()
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return job.clone(), nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, job.clone())
	}
	sortByRecency(out)
	return out, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Job
	for _, job := range r.jobs {
		if job.UploadedBy == userID {
			out = append(out, job.clone())
		}
	}
	sortByRecency(out)
	return out, nil
}

func (r *MemoryRepo) UpdateCandidateStatus(ctx context.Context, jobID, fileName string, status Status) (Job, error) {
	return r.mutateCandidate(ctx, jobID, fileName, func(cand *Candidate) {
		cand.Status = status
	})
}

func (r *MemoryRepo) AddCandidateNote(ctx context.Context, jobID, fileName, noteText string) (Job, error) {
	return r.mutateCandidate(ctx, jobID, fileName, func(cand *Candidate) {
		cand.Notes = append(cand.Notes, Note{Text: noteText, CreatedAt: time.Now().UTC()})
	})
}

func (r *MemoryRepo) mutateCandidate(ctx context.Context, jobID, fileName string, mutate func(*Candidate)) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	cand := job.findCandidate(fileName)
	if cand == nil {
		return Job{}, ErrCandidateNotFound
	}
	mutate(cand)
	job.UpdatedAt = time.Now().UTC()
	r.jobs[jobID] = job
	return job.clone(), nil
}

func sortByRecency(list []Job) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
