package matching

import (
	"math"
	"strings"
)

// Component weights in percent.
const (
	skillsWeight     = 60
	experienceWeight = 25
	locationWeight   = 15

	yearPenalty     = 20
	neutralLocation = 70
	otherLocation   = 50
	directLocation  = 100
)

// Strategy computes a MatchResult from already-fetched facts.
type Strategy interface {
	Score(candidate CandidateFacts, job JobFacts) MatchResult
}

// RuleBased is the weighted skills/experience/location heuristic.
type RuleBased struct{}

func (RuleBased) Score(candidate CandidateFacts, job JobFacts) MatchResult {
	return Score(candidate, job)
}

// Score is pure and deterministic. Missing collections count as empty; a job
// without required skills cannot be assessed and gets a zero skills score.
func Score(candidate CandidateFacts, job JobFacts) MatchResult {
	skills, matched, missing := skillsScore(candidate.Skills, job.RequiredSkills)
	experience := experienceScore(candidate.ExperienceYears, job.RequiredExperienceYears)
	location := locationScore(candidate.PreferredLocations, job.Location)

	weighted := skillsWeight*skills + experienceWeight*experience + locationWeight*location
	return MatchResult{
		Score: clamp((weighted + 50) / 100),
		Breakdown: Breakdown{
			Skills:     skills,
			Experience: experience,
			Location:   location,
		},
		MatchedSkills: matched,
		MissingSkills: missing,
	}
}

func skillsScore(candidateSkills, jobSkills []string) (int, []string, []string) {
	have := make(map[string]struct{}, len(candidateSkills))
	for _, s := range candidateSkills {
		if n := normalize(s); n != "" {
			have[n] = struct{}{}
		}
	}

	required := dedupe(jobSkills)
	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, s := range required {
		if _, ok := have[s]; ok {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	if len(required) == 0 {
		return 0, matched, missing
	}
	// round half up of 100*matched/required in integers
	n := len(required)
	return clamp((200*len(matched) + n) / (2 * n)), matched, missing
}

func experienceScore(candidateYears, requiredYears float64) int {
	if requiredYears <= 0 {
		return 100
	}
	deficit := math.Max(0, requiredYears-math.Max(0, candidateYears))
	return clamp(int(math.Round(100 - yearPenalty*deficit)))
}

func locationScore(preferred []string, jobLocation string) int {
	jl := normalize(jobLocation)
	prefs := dedupe(preferred)
	if jl == "" || len(prefs) == 0 {
		return neutralLocation
	}
	for _, p := range prefs {
		if strings.Contains(jl, p) || strings.Contains(p, jl) {
			return directLocation
		}
	}
	return otherLocation
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// dedupe normalizes values and drops blanks and repeats, keeping first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
