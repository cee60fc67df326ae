package subject

import (
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
	subjects := rg.Group("/subjects")
	subjects.GET("", h.list)
	subjects.GET("/:id", h.get)

	authed := subjects.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	subjects, err := h.svc.List(c.Query("class"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": subjects})
}

func (h *Handler) get(c *gin.Context) {
	subject, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if subject == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, subject)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSubjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	subject, err := h.svc.Create(&dto)
	if err != nil {
		if err.Error() == "class not found" {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, subject)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSubjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	subject, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if subject == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, subject)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
