package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobboard-backend/internal/shared/storage/db"
)

const uniquePairConstraint = "applications_job_candidate_key"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
SELECT id, job_id, candidate_id, recruiter_id, status, cover_letter,
       resume_storage_key, resume_url, resume_file_name, candidate_snapshot,
       created_at, updated_at
FROM applications`

// Create inserts a new application. The unique constraint on
// (job_id, candidate_id) decides concurrent duplicates.
func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (
    id,
    job_id,
    candidate_id,
    recruiter_id,
    status,
    cover_letter,
    resume_storage_key,
    resume_url,
    resume_file_name,
    candidate_snapshot,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

	snapshot, err := json.Marshal(app.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	var storageKey, url, fileName any
	if app.Resume != nil {
		storageKey = nullableString(app.Resume.StorageKey)
		url = nullableString(app.Resume.URL)
		fileName = nullableString(app.Resume.FileName)
	}
	createdAt := app.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.DB.ExecContext(ctx, query,
		app.ID,
		app.JobID,
		app.CandidateID,
		app.RecruiterID,
		string(app.Status),
		nullableString(app.CoverLetter),
		storageKey,
		url,
		fileName,
		snapshot,
		createdAt,
	)
	if db.IsUniqueViolation(err, uniquePairConstraint) {
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+`
WHERE id = $1
LIMIT 1`, id)
	return scanOne(row)
}

func (r *PGRepo) GetByJobAndCandidate(ctx context.Context, jobID, candidateID string) (Application, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+`
WHERE job_id = $1 AND candidate_id = $2
LIMIT 1`, jobID, candidateID)
	return scanOne(row)
}

func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	return r.list(ctx, selectColumns+`
WHERE candidate_id = $1
ORDER BY created_at DESC, id`, candidateID)
}

func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	return r.list(ctx, selectColumns+`
WHERE job_id = $1
ORDER BY created_at DESC, id`, jobID)
}

func (r *PGRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]Application, error) {
	return r.list(ctx, selectColumns+`
WHERE recruiter_id = $1
ORDER BY created_at DESC, id`, recruiterID)
}

// UpdateStatus is a compare-and-set on status. A row that exists but has
// moved on since it was read yields errStatusChanged.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) (Application, error) {
	const query = `
UPDATE applications
SET status = $3, updated_at = $4
WHERE id = $1 AND status = $2
RETURNING id, job_id, candidate_id, recruiter_id, status, cover_letter,
          resume_storage_key, resume_url, resume_file_name, candidate_snapshot,
          created_at, updated_at`
	app, err := scanOne(r.DB.QueryRowContext(ctx, query, id, string(from), string(to), at))
	if errors.Is(err, ErrNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return Application{}, getErr
		}
		return Application{}, errStatusChanged
	}
	return app, err
}

func (r *PGRepo) ExistsForRecruiterCandidate(ctx context.Context, recruiterID, candidateID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM applications
    WHERE recruiter_id = $1 AND candidate_id = $2
)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, recruiterID, candidateID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (Application, error) {
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

func scanApplication(row scanner) (Application, error) {
	var (
		app         Application
		status      string
		coverLetter sql.NullString
		storageKey  sql.NullString
		url         sql.NullString
		fileName    sql.NullString
		snapshot    []byte
	)
	if err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.CandidateID,
		&app.RecruiterID,
		&status,
		&coverLetter,
		&storageKey,
		&url,
		&fileName,
		&snapshot,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return Application{}, err
	}
	app.Status = Status(status)
	app.CoverLetter = coverLetter.String
	if storageKey.String != "" || url.String != "" {
		app.Resume = &ResumeRef{
			StorageKey: storageKey.String,
			URL:        url.String,
			FileName:   fileName.String,
		}
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &app.Snapshot); err != nil {
			return Application{}, fmt.Errorf("decode snapshot: %w", err)
		}
	}
	return app, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
