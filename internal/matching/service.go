package matching

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/metrics"
)

var (
	ErrCandidateNotFound = apperr.New(apperr.NotFound, "candidate not found")
	ErrJobNotFound       = apperr.New(apperr.NotFound, "job not found")
)

// CandidateSource returns facts for users with the candidate role. Any other
// user must be reported as ErrCandidateNotFound.
type CandidateSource interface {
	CandidateFacts(ctx context.Context, candidateID string) (CandidateFacts, error)
}

// JobSource returns facts for a job, or ErrJobNotFound.
type JobSource interface {
	JobFacts(ctx context.Context, jobID string) (JobFacts, error)
}

// Service loads facts and delegates scoring to an injected Strategy.
type Service struct {
	Candidates CandidateSource
	Jobs       JobSource
	Strategy   Strategy
}

func NewService(candidates CandidateSource, jobs JobSource, strategy Strategy) *Service {
	if strategy == nil {
		strategy = RuleBased{}
	}
	return &Service{Candidates: candidates, Jobs: jobs, Strategy: strategy}
}

// Compute fetches both fact sets concurrently and scores them.
func (s *Service) Compute(ctx context.Context, candidateID, jobID string) (MatchResult, error) {
	if s == nil || s.Candidates == nil || s.Jobs == nil {
		return MatchResult{}, errors.New("matching service not configured")
	}
	if candidateID == "" {
		return MatchResult{}, ErrCandidateNotFound
	}
	if jobID == "" {
		return MatchResult{}, ErrJobNotFound
	}

	var (
		candidate CandidateFacts
		job       JobFacts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidate, err = s.Candidates.CandidateFacts(gctx, candidateID)
		return err
	})
	g.Go(func() error {
		var err error
		job, err = s.Jobs.JobFacts(gctx, jobID)
		return err
	})
	if err := g.Wait(); err != nil {
		return MatchResult{}, err
	}
	return s.ScoreFacts(candidate, job), nil
}

// ScoreFacts scores already-loaded facts with the configured strategy.
func (s *Service) ScoreFacts(candidate CandidateFacts, job JobFacts) MatchResult {
	strategy := s.Strategy
	if strategy == nil {
		strategy = RuleBased{}
	}
	result := strategy.Score(candidate, job)
	metrics.MatchScores.Observe(float64(result.Score))
	return result
}
