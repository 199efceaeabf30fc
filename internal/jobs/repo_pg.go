package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, recruiter_id, title, company, location, required_skills, required_experience_years, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	skills := job.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	rawSkills, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		job.ID,
		job.RecruiterID,
		job.Title,
		job.Company,
		job.Location,
		rawSkills,
		job.RequiredExperienceYears,
		string(job.Status),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	const query = `
SELECT id, recruiter_id, title, company, location, required_skills, required_experience_years, status, created_at, updated_at
FROM jobs
WHERE id = $1
LIMIT 1`
	var (
		job       Job
		rawSkills []byte
		status    string
	)
	err := r.DB.QueryRowContext(ctx, query, jobID).Scan(
		&job.ID,
		&job.RecruiterID,
		&job.Title,
		&job.Company,
		&job.Location,
		&rawSkills,
		&job.RequiredExperienceYears,
		&status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	job.Status = Status(status)
	job.RequiredSkills = []string{}
	if len(rawSkills) > 0 {
		if err := json.Unmarshal(rawSkills, &job.RequiredSkills); err != nil {
			return Job{}, err
		}
	}
	return job, nil
}

func (r *PGRepo) SetStatus(ctx context.Context, jobID string, status Status) error {
	const query = `UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, jobID, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
