package applications

import "time"

// Application is one candidate's application to one job.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	CandidateID string            `json:"candidateId"`
	RecruiterID string            `json:"recruiterId"`
	Status      Status            `json:"status"`
	Resume      *ResumeRef        `json:"resume,omitempty"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Snapshot    CandidateSnapshot `json:"candidateSnapshot"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ResumeRef points at the resume attached to an application. Location
// fields stay server side.
type ResumeRef struct {
	URL        string `json:"-"`
	StorageKey string `json:"-"`
	FileName   string `json:"fileName"`
}

// CandidateSnapshot is copied from the profile at submission and does not
// follow later profile edits.
type CandidateSnapshot struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experienceYears"`
	CurrentCompany  string   `json:"currentCompany,omitempty"`
}
