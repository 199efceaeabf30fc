package jobs

type createJobRequest struct {
	Title                   string   `json:"title"`
	Company                 string   `json:"company"`
	Location                string   `json:"location"`
	RequiredSkills          []string `json:"requiredSkills"`
	RequiredExperienceYears float64  `json:"requiredExperienceYears"`
}
