package matching

// CandidateFacts is a point-in-time view of what a candidate offers.
type CandidateFacts struct {
	Skills             []string `json:"skills"`
	ExperienceYears    float64  `json:"experienceYears"`
	PreferredLocations []string `json:"preferredLocations"`
}

// JobFacts is a point-in-time view of what a job asks for.
type JobFacts struct {
	RequiredSkills          []string `json:"requiredSkills"`
	RequiredExperienceYears float64  `json:"requiredExperienceYears"`
	Location                string   `json:"location"`
}

type Breakdown struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Location   int `json:"location"`
}

// MatchResult is derived on demand and never persisted.
type MatchResult struct {
	Score         int       `json:"score"`
	Breakdown     Breakdown `json:"breakdown"`
	MatchedSkills []string  `json:"matchedSkills"`
	MissingSkills []string  `json:"missingSkills"`
}
