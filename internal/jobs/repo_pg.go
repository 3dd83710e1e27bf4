package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres. A job row holds its candidate set
// as a jsonb document; candidate mutations lock the row (SELECT ... FOR
// UPDATE) so concurrent read-modify-write cycles on one job serialize
// instead of losing updates.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, job_description, uploaded_by, candidates, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	payload, err := json.Marshal(job.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		job.ID,
		job.JobDescription,
		job.UploadedBy,
		payload,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	const query = `
SELECT id, job_description, uploaded_by, candidates, created_at, updated_at
FROM jobs
WHERE id = $1
LIMIT 1`
	return scanJob(r.DB.QueryRowContext(ctx, query, jobID))
}

func (r *PGRepo) List(ctx context.Context) ([]Job, error) {
	const query = `
SELECT id, job_description, uploaded_by, candidates, created_at, updated_at
FROM jobs
ORDER BY created_at DESC`
	return r.queryJobs(ctx, query)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Job, error) {
	const query = `
SELECT id, job_description, uploaded_by, candidates, created_at, updated_at
FROM jobs
WHERE uploaded_by = $1
ORDER BY created_at DESC`
	return r.queryJobs(ctx, query, userID)
}

func (r *PGRepo) UpdateCandidateStatus(ctx context.Context, jobID, fileName string, status Status) (Job, error) {
	return r.mutateCandidate(ctx, jobID, fileName, func(cand *Candidate) {
		cand.Status = status
	})
}

func (r *PGRepo) AddCandidateNote(ctx context.Context, jobID, fileName, noteText string) (Job, error) {
	return r.mutateCandidate(ctx, jobID, fileName, func(cand *Candidate) {
		cand.Notes = append(cand.Notes, Note{Text: noteText, CreatedAt: time.Now().UTC()})
	})
}

func (r *PGRepo) mutateCandidate(ctx context.Context, jobID, fileName string, mutate func(*Candidate)) (Job, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Job{}, err
	}
	defer tx.Rollback()

	// Row lock serializes concurrent mutations of the same job.
	const selectQuery = `
SELECT candidates
FROM jobs
WHERE id = $1
FOR UPDATE`
	var payload []byte
	if err := tx.QueryRowContext(ctx, selectQuery, jobID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, err
	}

	var candidates []Candidate
	if err := json.Unmarshal(payload, &candidates); err != nil {
		return Job{}, fmt.Errorf("unmarshal candidates: %w", err)
	}

	var target *Candidate
	for i := range candidates {
		if candidates[i].FileName == fileName {
			target = &candidates[i]
			break
		}
	}
	if target == nil {
		return Job{}, ErrCandidateNotFound
	}
	mutate(target)

	updated, err := json.Marshal(candidates)
	if err != nil {
		return Job{}, fmt.Errorf("marshal candidates: %w", err)
	}

	const updateQuery = `
UPDATE jobs
SET candidates = $1::jsonb,
    updated_at = now()
WHERE id = $2
RETURNING id, job_description, uploaded_by, candidates, created_at, updated_at`
	job, err := scanJob(tx.QueryRowContext(ctx, updateQuery, updated, jobID))
	if err != nil {
		return Job{}, err
	}
	if err := tx.Commit(); err != nil {
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) queryJobs(ctx context.Context, query string, args ...any) ([]Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row *sql.Row) (Job, error) {
	job, err := scanJobRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func scanJobRow(row rowScanner) (Job, error) {
	var job Job
	var payload []byte
	if err := row.Scan(
		&job.ID,
		&job.JobDescription,
		&job.UploadedBy,
		&payload,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return Job{}, err
	}
	if err := json.Unmarshal(payload, &job.Candidates); err != nil {
		return Job{}, fmt.Errorf("unmarshal candidates: %w", err)
	}
	return job, nil
}
