package resumes

import (
	"context"
	"errors"
	"io"
	"time"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/shared/util"
	"jobboard-backend/internal/users"
)

// ProfileStore persists the candidate's current resume reference.
type ProfileStore interface {
	SetResume(ctx context.Context, candidateID string, artifact *users.ResumeArtifact) (*users.ResumeArtifact, error)
}

type Service struct {
	Store    object.ObjectStore
	Profiles ProfileStore
	Now      func() time.Time
}

func NewService(store object.ObjectStore, profiles ProfileStore) *Service {
	return &Service{Store: store, Profiles: profiles, Now: time.Now}
}

// Put validates r and writes it to the object store under ownerID.
func (s *Service) Put(ctx context.Context, ownerID, fileName string, r io.Reader) (*users.ResumeArtifact, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("resume service not configured")
	}
	cleanName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return nil, apperr.New(apperr.ValidationError, "invalid resume file name")
	}
	checked, err := Inspect(r, cleanName)
	if err != nil {
		return nil, err
	}
	key, size, _, err := s.Store.Save(ctx, ownerID, cleanName, checked.Reader())
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamError, "failed to store resume", err)
	}
	return &users.ResumeArtifact{
		StorageKey: key,
		FileName:   cleanName,
		SizeBytes:  size,
		MimeType:   checked.MimeType,
		UploadedAt: s.now(),
	}, nil
}

// Discard removes a stored object, logging instead of failing.
func (s *Service) Discard(ctx context.Context, storageKey string) {
	if s == nil || s.Store == nil || storageKey == "" {
		return
	}
	if err := s.Store.Delete(context.WithoutCancel(ctx), storageKey); err != nil {
		telemetry.Warn("resume.discard_failed", map[string]any{"error": err})
	}
}

// Upload replaces the calling candidate's profile resume.
func (s *Service) Upload(ctx context.Context, p identity.Principal, fileName string, r io.Reader) (*users.ResumeArtifact, error) {
	if !p.Is(identity.RoleCandidate) {
		return nil, ErrCandidateOnly
	}
	artifact, err := s.Put(ctx, p.ID, fileName, r)
	if err != nil {
		return nil, err
	}
	prev, err := s.Profiles.SetResume(ctx, p.ID, artifact)
	if err != nil {
		s.Discard(ctx, artifact.StorageKey)
		return nil, err
	}
	if prev != nil && prev.StorageKey != "" && prev.StorageKey != artifact.StorageKey {
		s.Discard(ctx, prev.StorageKey)
	}
	telemetry.Info("resume.uploaded", map[string]any{
		"candidate_id": p.ID,
		"size_bytes":   artifact.SizeBytes,
		"mime_type":    artifact.MimeType,
	})
	return artifact, nil
}

// Delete clears the calling candidate's profile resume. Deleting when none
// exists succeeds.
func (s *Service) Delete(ctx context.Context, p identity.Principal) error {
	if !p.Is(identity.RoleCandidate) {
		return ErrCandidateOnly
	}
	prev, err := s.Profiles.SetResume(ctx, p.ID, nil)
	if err != nil {
		return err
	}
	if prev != nil {
		s.Discard(ctx, prev.StorageKey)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
