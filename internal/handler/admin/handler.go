package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redconnect/redconnect-api/internal/handler"
	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/service/admin"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
)

type Handler struct {
	svc *admin.Service
}

func NewHandler(svc *admin.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/admin")
	{
		grp.GET("/dashboard", h.Dashboard)
		grp.GET("/stats", h.Stats)
		grp.GET("/stock", h.StockOverview)

		grp.GET("/verifications", h.PendingVerifications)
		grp.GET("/hospitals/:id", h.HospitalDetails)
		grp.GET("/camps/:id", h.CampDetails)
		grp.POST("/hospitals/verify", h.VerifyHospital)
		grp.POST("/camps/verify", h.VerifyCamp)

		grp.GET("/emergencies", h.PendingEmergencies)
		grp.GET("/emergencies/:id", h.EmergencyDetails)
		grp.POST("/emergencies/review", h.ReviewEmergency)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) StockOverview(c *gin.Context) {
	overview, err := h.svc.StockOverview(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(overview))
}

func (h *Handler) PendingVerifications(c *gin.Context) {
	pending, err := h.svc.PendingVerifications(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(pending))
}

func (h *Handler) HospitalDetails(c *gin.Context) {
	hospital, err := h.svc.HospitalDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospital))
}

func (h *Handler) CampDetails(c *gin.Context) {
	camp, err := h.svc.CampDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(camp))
}

func (h *Handler) VerifyHospital(c *gin.Context) {
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	if err := h.svc.VerifyHospital(c.Request.Context(), handler.Claims(c), &req); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("verification recorded"))
}

func (h *Handler) VerifyCamp(c *gin.Context) {
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	if err := h.svc.VerifyCamp(c.Request.Context(), handler.Claims(c), &req); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("verification recorded"))
}

func (h *Handler) PendingEmergencies(c *gin.Context) {
	requests, err := h.svc.PendingEmergencies(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) EmergencyDetails(c *gin.Context) {
	request, err := h.svc.EmergencyDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(request))
}

func (h *Handler) ReviewEmergency(c *gin.Context) {
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	if err := h.svc.ReviewEmergency(c.Request.Context(), handler.Claims(c), &req); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("review recorded"))
}
