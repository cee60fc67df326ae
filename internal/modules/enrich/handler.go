package enrich

import (
	"github.com/chalkroute/core/internal/models"
	"github.com/chalkroute/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler exposes per-chapter generation endpoints. Generation failures are
// answered with the fixed fallback record for the kind, never a raw 5xx, so
// the study page always has something to render.
type Handler struct {
	db  *gorm.DB
	svc *Service
	log *zap.Logger
}

func NewHandler(db *gorm.DB, svc *Service, log *zap.Logger) *Handler {
	return &Handler{db: db, svc: svc, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup, rateLimitMW gin.HandlerFunc) {
	generate := rg.Group("/chapters/:id", rateLimitMW)
	generate.POST("/questions", h.Questions)
	generate.POST("/references", h.References)
	generate.POST("/evaluation", h.Evaluation)
	generate.POST("/ask", h.Ask)
}

type itemsPayload struct {
	Items    any  `json:"items"`
	Fallback bool `json:"fallback"`
}

type askPayload struct {
	Answer   string `json:"answer"`
	Fallback bool   `json:"fallback"`
}

func (h *Handler) loadChapter(c *gin.Context) (*models.ChapterModel, bool) {
	var chapter models.ChapterModel
	if err := h.db.First(&chapter, "id = ?", c.Param("id")).Error; err != nil {
		response.NotFoundMsg(c, "chapter not found")
		return nil, false
	}
	return &chapter, true
}

func (h *Handler) Questions(c *gin.Context) {
	chapter, ok := h.loadChapter(c)
	if !ok {
		return
	}

	items, err := h.svc.Questions(c.Request.Context(), chapter.Content, chapter.Description)
	if err != nil {
		h.log.Warn("question generation failed", zap.String("chapter", chapter.ID), zap.Error(err))
		response.OK(c, itemsPayload{Items: fallbackQuestions(), Fallback: true})
		return
	}
	response.OK(c, itemsPayload{Items: items})
}

func (h *Handler) References(c *gin.Context) {
	chapter, ok := h.loadChapter(c)
	if !ok {
		return
	}

	items, err := h.svc.References(c.Request.Context(), chapter.Content, chapter.Description)
	if err != nil {
		h.log.Warn("reference generation failed", zap.String("chapter", chapter.ID), zap.Error(err))
		response.OK(c, itemsPayload{Items: fallbackReferences(), Fallback: true})
		return
	}
	response.OK(c, itemsPayload{Items: items})
}

func (h *Handler) Evaluation(c *gin.Context) {
	chapter, ok := h.loadChapter(c)
	if !ok {
		return
	}

	items, err := h.svc.Evaluation(c.Request.Context(), chapter.Content, chapter.Description)
	if err != nil {
		h.log.Warn("evaluation generation failed", zap.String("chapter", chapter.ID), zap.Error(err))
		response.OK(c, itemsPayload{Items: fallbackEvaluation(), Fallback: true})
		return
	}
	response.OK(c, itemsPayload{Items: items})
}

func (h *Handler) Ask(c *gin.Context) {
	chapter, ok := h.loadChapter(c)
	if !ok {
		return
	}

	var req askDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "question is required")
		return
	}

	answer, err := h.svc.Ask(c.Request.Context(), chapter.Content, chapter.Description, req.Question)
	if err != nil {
		h.log.Warn("chapter ask failed", zap.String("chapter", chapter.ID), zap.Error(err))
		response.OK(c, askPayload{Answer: fallbackAskAnswer, Fallback: true})
		return
	}
	response.OK(c, askPayload{Answer: answer})
}
