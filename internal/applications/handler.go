package applications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

// multipart overhead on top of the resume itself
const maxSubmitBody = resumes.MaxSize + 1<<20

type Handler struct {
	Svc       *Service
	Authority *Authority
}

func NewHandler(svc *Service, authority *Authority) *Handler {
	return &Handler{Svc: svc, Authority: authority}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:jobId/applications", h.submit)
	rg.GET("/jobs/:jobId/applications", h.listForJob)
	rg.GET("/applications/mine", h.listMine)
	rg.GET("/applications/:applicationId", h.get)
	rg.PUT("/applications/:applicationId/status", h.transition)
	rg.GET("/recruiter/applications", h.listForRecruiter)
}

func (h *Handler) submit(c *gin.Context) {
	jobID := c.Param("jobId")
	c.Set("jobId", jobID)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmitBody)

	in := SubmitInput{
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		CoverLetter: c.PostForm("coverLetter"),
	}
	fileHeader, err := c.FormFile("resume")
	switch {
	case err == nil:
		file, openErr := fileHeader.Open()
		if openErr != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		defer file.Close()
		in.Resume = &Upload{FileName: fileHeader.Filename, Body: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Problem(c, resumes.ErrTooLarge)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form data", nil)
		return
	}

	app, err := h.Svc.Submit(c.Request.Context(), middleware.PrincipalFromContext(c), jobID, in)
	if err != nil {
		respond.Problem(c, err)
		return
	}
	c.Set("applicationId", app.ID)
	respond.Created(c, gin.H{"application": toResponse(app)})
}

func (h *Handler) listMine(c *gin.Context) {
	apps, err := h.Svc.ListMine(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		respond.Problem(c, err)
		return
	}
	respond.OK(c, gin.H{"applications": toResponses(apps)})
}

func (h *Handler) listForRecruiter(c *gin.Context) {
	apps, err := h.Svc.ListForRecruiter(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		respond.Problem(c, err)
		return
	}
	respond.OK(c, gin.H{"applications": toResponses(apps)})
}

func (h *Handler) listForJob(c *gin.Context) {
	jobID := c.Param("jobId")
	c.Set("jobId", jobID)
	ranked, err := h.Svc.ListForJob(c.Request.Context(), middleware.PrincipalFromContext(c), jobID)
	if err != nil {
		respond.Problem(c, err)
		return
	}
	respond.OK(c, gin.H{"applications": toRankedResponses(ranked)})
}

func (h *Handler) get(c *gin.Context) {
	applicationID := c.Param("applicationId")
	c.Set("applicationId", applicationID)
	app, err := h.Svc.Get(c.Request.Context(), middleware.PrincipalFromContext(c), applicationID)
	if err != nil {
		respond.Problem(c, err)
		return
	}
	respond.OK(c, gin.H{"application": toResponse(app)})
}

func (h *Handler) transition(c *gin.Context) {
	applicationID := c.Param("applicationId")
	c.Set("applicationId", applicationID)

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, err := h.Authority.Transition(c.Request.Context(), middleware.PrincipalFromContext(c), applicationID, req.Status)
	if err != nil {
		respond.Problem(c, err)
		return
	}
	c.Set("statusTransition", string(app.Status))
	respond.OK(c, gin.H{"application": toResponse(app)})
}
