package users

import (
	"time"

	"jobboard-backend/internal/identity"
)

type User struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	FullName  string           `json:"fullName"`
	Role      identity.Role    `json:"role"`
	Blocked   bool             `json:"blocked"`
	Profile   CandidateProfile `json:"profile"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// CandidateProfile is only meaningful for candidates.
type CandidateProfile struct {
	Phone              string          `json:"phone,omitempty"`
	CurrentCompany     string          `json:"currentCompany,omitempty"`
	Skills             []string        `json:"skills"`
	ExperienceYears    float64         `json:"experienceYears"`
	PreferredLocations []string        `json:"preferredLocations"`
	Resume             *ResumeArtifact `json:"resume,omitempty"`
}

// ResumeArtifact points at a resume either in the object store (StorageKey)
// or at a remote URL. One of the two is set.
type ResumeArtifact struct {
	StorageKey string    `json:"-"`
	RemoteURL  string    `json:"-"`
	FileName   string    `json:"fileName"`
	SizeBytes  int64     `json:"sizeBytes,omitempty"`
	MimeType   string    `json:"mimeType,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (a *ResumeArtifact) Empty() bool {
	return a == nil || (a.StorageKey == "" && a.RemoteURL == "")
}
