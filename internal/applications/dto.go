package applications

import (
	"time"

	"jobboard-backend/internal/matching"
)

type transitionRequest struct {
	Status string `json:"status"`
}

type applicationResponse struct {
	ID                string            `json:"id"`
	JobID             string            `json:"jobId"`
	CandidateID       string            `json:"candidateId"`
	Status            Status            `json:"status"`
	NextStatuses      []Status          `json:"nextStatuses"`
	CoverLetter       string            `json:"coverLetter,omitempty"`
	Resume            *ResumeRef        `json:"resume,omitempty"`
	CandidateSnapshot CandidateSnapshot `json:"candidateSnapshot"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type rankedResponse struct {
	applicationResponse
	Match matching.MatchResult `json:"match"`
}

func toResponse(app Application) applicationResponse {
	next := NextStatuses(app.Status)
	if next == nil {
		next = []Status{}
	}
	return applicationResponse{
		ID:                app.ID,
		JobID:             app.JobID,
		CandidateID:       app.CandidateID,
		Status:            app.Status,
		NextStatuses:      next,
		CoverLetter:       app.CoverLetter,
		Resume:            app.Resume,
		CandidateSnapshot: app.Snapshot,
		CreatedAt:         app.CreatedAt,
		UpdatedAt:         app.UpdatedAt,
	}
}

func toResponses(apps []Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toResponse(app))
	}
	return out
}

func toRankedResponses(items []Ranked) []rankedResponse {
	out := make([]rankedResponse, 0, len(items))
	for _, item := range items {
		out = append(out, rankedResponse{applicationResponse: toResponse(item.Application), Match: item.Match})
	}
	return out
}
