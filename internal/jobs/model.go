package jobs

import "time"

type Status string

const (
	StatusOpen   Status = "open"
	StatusFilled Status = "filled"
)

type Job struct {
	ID                      string    `json:"id"`
	RecruiterID             string    `json:"recruiterId"`
	Title                   string    `json:"title"`
	Company                 string    `json:"company"`
	Location                string    `json:"location"`
	RequiredSkills          []string  `json:"requiredSkills"`
	RequiredExperienceYears float64   `json:"requiredExperienceYears"`
	Status                  Status    `json:"status"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

func (j Job) Open() bool { return j.Status == StatusOpen }
