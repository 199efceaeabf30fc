package matching

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/match", h.compute)
}

type computeRequest struct {
	CandidateID string `json:"candidateId"`
	JobID       string `json:"jobId"`
}

// compute scores a candidate against a job. Candidates may only score
// themselves; recruiters and admins may score anyone.
func (h *Handler) compute(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	var req computeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.CandidateID = strings.TrimSpace(req.CandidateID)
	req.JobID = strings.TrimSpace(req.JobID)
	if req.JobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobId is required", nil)
		return
	}
	if principal.Is(identity.RoleCandidate) {
		if req.CandidateID == "" {
			req.CandidateID = principal.ID
		}
		if req.CandidateID != principal.ID {
			respond.Error(c, http.StatusForbidden, "forbidden", "candidates may only score themselves", nil)
			return
		}
	}
	if req.CandidateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidateId is required", nil)
		return
	}
	c.Set("candidateId", req.CandidateID)
	c.Set("jobId", req.JobID)

	result, err := h.Svc.Compute(c.Request.Context(), req.CandidateID, req.JobID)
	if err != nil {
		respond.Problem(c, err)
		return
	}
	respond.OK(c, result)
}
