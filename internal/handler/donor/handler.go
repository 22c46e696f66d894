package donor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redconnect/redconnect-api/internal/handler"
	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/service/donor"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
)

type Handler struct {
	svc *donor.Service
}

func NewHandler(svc *donor.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/donor")
	{
		grp.GET("/dashboard", h.Dashboard)
		grp.GET("/stats", h.Stats)
		grp.GET("/camps/suggestions", h.CampSuggestions)
		grp.POST("/camps/apply", h.ApplyToCamp)
		grp.GET("/alerts", h.Alerts)
		grp.POST("/alerts/respond", h.RespondToAlert)
		grp.GET("/history", h.History)
		grp.PUT("/profile", h.UpdateProfile)
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

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) CampSuggestions(c *gin.Context) {
	camps, err := h.svc.CampSuggestions(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(camps))
}

func (h *Handler) ApplyToCamp(c *gin.Context) {
	var req model.ApplyToCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	application, err := h.svc.ApplyToCamp(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(application))
}

func (h *Handler) Alerts(c *gin.Context) {
	alerts, err := h.svc.Alerts(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(alerts))
}

func (h *Handler) RespondToAlert(c *gin.Context) {
	var req model.RespondToAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	response, err := h.svc.RespondToAlert(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(response))
}

func (h *Handler) History(c *gin.Context) {
	donations, err := h.svc.History(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(donations))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateDonorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}
