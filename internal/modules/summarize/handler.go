package summarize

import (
	"net/http"

	"github.com/chalkroute/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the streaming summarize endpoint.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup, rateLimitMW gin.HandlerFunc) {
	rg.POST("/summarize", rateLimitMW, h.Summarize)
}

// Summarize validates the request, then streams newline-delimited JSON
// progress records until a terminal complete or error record. Validation
// failures are rejected with a plain 400 before any streaming starts.
func (h *Handler) Summarize(c *gin.Context) {
	var req requestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "url, class_id and subject_id are required")
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "application/x-ndjson; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	sw := newStreamWriter(c.Writer)
	h.svc.Run(c.Request.Context(), req, func(rec Record) error {
		if err := sw.Emit(rec); err != nil {
			h.log.Debug("stream write failed, client likely gone", zap.Error(err))
			return err
		}
		return nil
	})
}
