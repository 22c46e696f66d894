package camp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redconnect/redconnect-api/internal/handler"
	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/service/camp"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
)

type Handler struct {
	svc *camp.Service
}

func NewHandler(svc *camp.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/camp")
	{
		grp.GET("/dashboard", h.Dashboard)
		grp.GET("/camps", h.Camps)
		grp.POST("/camps", h.CreateCamp)
		grp.GET("/applications", h.Applications)
		grp.POST("/applications/review", h.ReviewApplication)
		grp.POST("/attendance", h.MarkAttendance)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Dashboard(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}

func (h *Handler) Camps(c *gin.Context) {
	camps, err := h.svc.Camps(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(camps))
}

func (h *Handler) CreateCamp(c *gin.Context) {
	var req model.CreateCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	created, err := h.svc.CreateCamp(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

// Applications lists applications for the organizer, optionally filtered
// by the camp_id query parameter
func (h *Handler) Applications(c *gin.Context) {
	applications, err := h.svc.Applications(c.Request.Context(), handler.Claims(c).UserID, c.Query("camp_id"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(applications))
}

func (h *Handler) ReviewApplication(c *gin.Context) {
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	if err := h.svc.ReviewApplication(c.Request.Context(), handler.Claims(c).UserID, &req); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("review recorded"))
}

func (h *Handler) MarkAttendance(c *gin.Context) {
	var req model.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	attendance, err := h.svc.MarkAttendance(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(attendance))
}
