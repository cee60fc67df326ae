package chapter

import (
	"github.com/chalkroute/core/internal/pkg/pagination"
	"github.com/chalkroute/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	chapters := rg.Group("/chapters")
	chapters.GET("", h.list)
	chapters.GET("/:id", h.get)
	chapters.GET("/:id/html", h.getHTML)

	authed := chapters.Group("", authMW)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	filter := ListFilter{
		ClassID:   c.Query("class"),
		SubjectID: c.Query("subject"),
	}

	chapters, meta, err := h.svc.List(q, filter)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, chapters, meta)
}

func (h *Handler) get(c *gin.Context) {
	chapter, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if chapter == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, chapter)
}

func (h *Handler) getHTML(c *gin.Context) {
	html, chapter, err := h.svc.RenderHTML(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if chapter == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"title": chapter.Title, "html": html})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateChapterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	chapter, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if chapter == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, chapter)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
