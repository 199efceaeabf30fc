package resumes

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/telemetry"
)

// multipart overhead on top of the file itself
const maxUploadBody = MaxSize + 1<<20

type Handler struct {
	Svc   *Service
	Relay *Relay
}

func NewHandler(svc *Service, relay *Relay) *Handler {
	return &Handler{Svc: svc, Relay: relay}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates/me/resume", h.upload)
	rg.DELETE("/candidates/me/resume", h.remove)
	rg.GET("/candidates/:candidateId/resume/view", h.stream(ModeView))
	rg.GET("/candidates/:candidateId/resume/download", h.stream(ModeDownload))
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Problem(c, ErrTooLarge)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	artifact, err := h.Svc.Upload(c.Request.Context(), middleware.PrincipalFromContext(c), fileHeader.Filename, file)
	if err != nil {
		respond.Problem(c, err)
		return
	}
	respond.Created(c, artifact)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.PrincipalFromContext(c)); err != nil {
		respond.Problem(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) stream(mode Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidateID := c.Param("candidateId")
		c.Set("candidateId", candidateID)

		dl, err := h.Relay.Open(c.Request.Context(), middleware.PrincipalFromContext(c), candidateID, mode)
		if err != nil {
			metrics.ResumeRelays.WithLabelValues(string(mode), string(apperr.KindOf(err))).Inc()
			respond.Problem(c, err)
			return
		}
		defer dl.Body.Close()

		c.Header("Content-Type", dl.ContentType)
		c.Header("Content-Disposition", dl.ContentDisposition())
		c.Header("Cache-Control", "private, no-store")
		c.Header("X-Content-Type-Options", "nosniff")
		if dl.Size > 0 {
			c.Header("Content-Length", strconv.FormatInt(dl.Size, 10))
		}
		c.Status(http.StatusOK)

		written, err := io.Copy(c.Writer, dl.Body)
		if err != nil {
			// Headers are gone; the client sees a truncated body.
			metrics.ResumeRelays.WithLabelValues(string(mode), "interrupted").Inc()
			telemetry.Warn("resume.relay.interrupted", map[string]any{
				"candidate_id":  candidateID,
				"bytes_written": written,
				"error":         err,
			})
			c.Abort()
			return
		}
		metrics.ResumeRelays.WithLabelValues(string(mode), "ok").Inc()
	}
}
