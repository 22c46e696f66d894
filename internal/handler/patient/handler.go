package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redconnect/redconnect-api/internal/handler"
	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/service/patient"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
)

type Handler struct {
	svc *patient.Service
}

func NewHandler(svc *patient.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/patient")
	{
		grp.GET("/dashboard", h.Dashboard)
		grp.GET("/requests", h.Requests)
		grp.POST("/requests", h.CreateRequest)
		grp.POST("/requests/cancel", h.CancelRequest)
		grp.GET("/hospitals", h.NearbyHospitals)
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

func (h *Handler) Requests(c *gin.Context) {
	requests, err := h.svc.Requests(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var req model.CreateBloodRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	request, err := h.svc.CreateRequest(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(request))
}

func (h *Handler) CancelRequest(c *gin.Context) {
	var req model.CancelBloodRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	if err := h.svc.CancelRequest(c.Request.Context(), handler.Claims(c).UserID, req.RequestID); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("request cancelled"))
}

func (h *Handler) NearbyHospitals(c *gin.Context) {
	hospitals, err := h.svc.NearbyHospitals(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospitals))
}
