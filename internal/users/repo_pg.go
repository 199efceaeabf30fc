package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, role, blocked, phone, current_company, skills, experience_years, preferred_locations, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`
	skills, err := json.Marshal(nonNil(user.Profile.Skills))
	if err != nil {
		return err
	}
	locations, err := json.Marshal(nonNil(user.Profile.PreferredLocations))
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		string(user.Role),
		user.Blocked,
		nullableString(user.Profile.Phone),
		nullableString(user.Profile.CurrentCompany),
		skills,
		user.Profile.ExperienceYears,
		locations,
	)
	if db.IsUniqueViolation(err, "users_email_key") {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, full_name, role, blocked, phone, current_company, skills, experience_years, preferred_locations,
       resume_storage_key, resume_url, resume_file_name, resume_size_bytes, resume_mime_type, resume_uploaded_at,
       created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	var (
		user      User
		role      string
		phone     sql.NullString
		company   sql.NullString
		skills    []byte
		locations []byte
		resume    resumeColumns
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&role,
		&user.Blocked,
		&phone,
		&company,
		&skills,
		&user.Profile.ExperienceYears,
		&locations,
		&resume.storageKey,
		&resume.url,
		&resume.fileName,
		&resume.sizeBytes,
		&resume.mimeType,
		&resume.uploadedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Role = identity.Role(role)
	user.Profile.Phone = phone.String
	user.Profile.CurrentCompany = company.String
	if err := decodeList(skills, &user.Profile.Skills); err != nil {
		return User{}, err
	}
	if err := decodeList(locations, &user.Profile.PreferredLocations); err != nil {
		return User{}, err
	}
	user.Profile.Resume = resume.artifact()
	return user, nil
}

// SetResume swaps the resume columns in one statement so the returned
// previous artifact is exactly the one overwritten.
func (r *PGRepo) SetResume(ctx context.Context, userID string, artifact *ResumeArtifact) (*ResumeArtifact, error) {
	const query = `
WITH prev AS (
    SELECT id, resume_storage_key, resume_url, resume_file_name, resume_size_bytes, resume_mime_type, resume_uploaded_at
    FROM users
    WHERE id = $1
    FOR UPDATE
)
UPDATE users SET
    resume_storage_key = $2,
    resume_url = $3,
    resume_file_name = $4,
    resume_size_bytes = $5,
    resume_mime_type = $6,
    resume_uploaded_at = $7,
    updated_at = now()
FROM prev
WHERE users.id = prev.id
RETURNING prev.resume_storage_key, prev.resume_url, prev.resume_file_name, prev.resume_size_bytes, prev.resume_mime_type, prev.resume_uploaded_at`

	var args []any
	if artifact.Empty() {
		args = []any{userID, nil, nil, nil, nil, nil, nil}
	} else {
		uploadedAt := artifact.UploadedAt
		if uploadedAt.IsZero() {
			uploadedAt = time.Now().UTC()
		}
		args = []any{
			userID,
			nullableString(artifact.StorageKey),
			nullableString(artifact.RemoteURL),
			nullableString(artifact.FileName),
			artifact.SizeBytes,
			nullableString(artifact.MimeType),
			uploadedAt,
		}
	}

	var prev resumeColumns
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&prev.storageKey,
		&prev.url,
		&prev.fileName,
		&prev.sizeBytes,
		&prev.mimeType,
		&prev.uploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prev.artifact(), nil
}

type resumeColumns struct {
	storageKey sql.NullString
	url        sql.NullString
	fileName   sql.NullString
	sizeBytes  sql.NullInt64
	mimeType   sql.NullString
	uploadedAt sql.NullTime
}

func (c resumeColumns) artifact() *ResumeArtifact {
	if c.storageKey.String == "" && c.url.String == "" {
		return nil
	}
	a := &ResumeArtifact{
		StorageKey: c.storageKey.String,
		RemoteURL:  c.url.String,
		FileName:   c.fileName.String,
		SizeBytes:  c.sizeBytes.Int64,
		MimeType:   c.mimeType.String,
	}
	if c.uploadedAt.Valid {
		a.UploadedAt = c.uploadedAt.Time
	}
	return a
}

func decodeList(raw []byte, out *[]string) error {
	if len(raw) == 0 {
		*out = []string{}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return err
	}
	if *out == nil {
		*out = []string{}
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
