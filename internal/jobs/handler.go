package jobs

import (
	"net/http"

	"github.com/gin-gonic/gin"

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
	rg.POST("/jobs", h.create)
	rg.GET("/jobs/:jobId", h.get)
	rg.POST("/jobs/:jobId/close", h.close)
}

func (h *Handler) create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), middleware.PrincipalFromContext(c), NewJob{
		Title:                   req.Title,
		Company:                 req.Company,
		Location:                req.Location,
		RequiredSkills:          req.RequiredSkills,
		RequiredExperienceYears: req.RequiredExperienceYears,
	})
	if err != nil {
		respond.Problem(c, err)
		return
	}
	c.Set("jobId", job.ID)
	respond.Created(c, job)
}

func (h *Handler) get(c *gin.Context) {
	jobID := c.Param("jobId")
	c.Set("jobId", jobID)
	job, err := h.Svc.Get(c.Request.Context(), jobID)
	if err != nil {
		respond.Problem(c, err)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) close(c *gin.Context) {
	jobID := c.Param("jobId")
	c.Set("jobId", jobID)
	job, err := h.Svc.Close(c.Request.Context(), middleware.PrincipalFromContext(c), jobID)
	if err != nil {
		respond.Problem(c, err)
		return
	}
	respond.OK(c, job)
}
